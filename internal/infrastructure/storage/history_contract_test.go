package storage

import (
	"context"
	"testing"

	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
)

// runHistoryContract har bir backend uchun bir xil tekshiruvlar
func runHistoryContract(t *testing.T, repo repository.HistoryRepository) {
	t.Helper()
	ctx := context.Background()

	got, err := repo.Read(ctx, 1)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "" {
		t.Fatalf("new scope must be empty, got %q", got)
	}

	if content, err := repo.Append(ctx, 1, "A"); err != nil || content != "A" {
		t.Fatalf("Append(A) = %q, %v", content, err)
	}
	if content, err := repo.Append(ctx, 1, "B"); err != nil || content != "A\n\nB" {
		t.Fatalf("Append(B) = %q, %v", content, err)
	}
	if content, err := repo.Append(ctx, 1, "B"); err != nil || content != "A\n\nB\n\nB" {
		t.Fatalf("duplicate append must not be deduplicated: %q, %v", content, err)
	}

	got, err = repo.Read(ctx, 1)
	if err != nil || got != "A\n\nB\n\nB" {
		t.Fatalf("Read() = %q, %v", got, err)
	}

	// Boshqa scope ta'sirlanmaydi
	if other, err := repo.Read(ctx, 2); err != nil || other != "" {
		t.Fatalf("scope 2 = %q, %v", other, err)
	}
}
