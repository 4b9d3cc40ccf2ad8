package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"
)

func TestSQLiteHistoryRepository(t *testing.T) {
	repo, err := NewSQLiteHistoryRepository(filepath.Join(t.TempDir(), "db", "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteHistoryRepository() error = %v", err)
	}
	defer repo.(io.Closer).Close()

	runHistoryContract(t, repo)
}

func TestSQLiteHistoryRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	repo, err := NewSQLiteHistoryRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := repo.Append(ctx, 0, "kept"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	repo.(io.Closer).Close()

	reopened, err := NewSQLiteHistoryRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.(io.Closer).Close()

	if got, err := reopened.Read(ctx, 0); err != nil || got != "kept" {
		t.Fatalf("Read() = %q, %v", got, err)
	}
}

func TestSQLiteHistoryRepository_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteHistoryRepository(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
