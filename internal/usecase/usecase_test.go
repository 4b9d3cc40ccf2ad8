package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
	"github.com/yourusername/deepseek-assistant-bot/internal/infrastructure/storage"
)

type recordingAI struct {
	requests []entity.CompletionRequest
	result   entity.CompletionResult
}

func (r *recordingAI) Complete(ctx context.Context, req entity.CompletionRequest) entity.CompletionResult {
	r.requests = append(r.requests, req)
	return r.result
}

type brokenHistory struct{}

func (brokenHistory) Append(ctx context.Context, scope int64, text string) (string, error) {
	return "", errors.New("disk full")
}

func (brokenHistory) Read(ctx context.Context, scope int64) (string, error) {
	return "", errors.New("disk full")
}

func TestChatUseCase_PassesHistoryAndPrompt(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryHistoryRepository()
	if _, err := repo.Append(ctx, entity.GlobalScope, "old notes"); err != nil {
		t.Fatal(err)
	}
	ai := &recordingAI{result: entity.Success("Hi there")}

	uc := NewChatUseCase(ai, repo, ScopeGlobal, "")
	res := uc.ProcessMessage(ctx, 155964417, "Hello")

	if !res.OK() || res.Text != "Hi there" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(ai.requests) != 1 {
		t.Fatalf("expected one completion call, got %d", len(ai.requests))
	}
	req := ai.requests[0]
	if req.SystemPrompt != DefaultSystemPrompt || req.History != "old notes" || req.UserMessage != "Hello" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestChatUseCase_HistoryReadFailure(t *testing.T) {
	ai := &recordingAI{result: entity.Success("never")}

	res := NewChatUseCase(ai, brokenHistory{}, ScopeGlobal, "custom").ProcessMessage(context.Background(), 1, "Hello")

	if res.Kind != entity.KindUnexpected || res.Reply() != entity.ReplyUnexpected {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(ai.requests) != 0 {
		t.Fatal("completion must not be called when history is unreadable")
	}
}

func TestHistoryUseCase_UploadRefreshesCount(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryHistoryRepository()
	uc := NewHistoryUseCase(repo, ScopeGlobal, 0, 0)

	total, err := uc.Upload(ctx, 155964417, []byte("X"))
	if err != nil || total != 1 {
		t.Fatalf("Upload(X) = %d, %v", total, err)
	}
	total, err = uc.Upload(ctx, 155964417, []byte("привет"))
	if err != nil || total != len([]rune("X\n\nпривет")) {
		t.Fatalf("Upload(привет) = %d, %v", total, err)
	}

	content, _ := repo.Read(ctx, entity.GlobalScope)
	if content != "X\n\nпривет" {
		t.Fatalf("stored history = %q", content)
	}
}

func TestHistoryUseCase_RejectsInvalidUTF8(t *testing.T) {
	uc := NewHistoryUseCase(storage.NewMemoryHistoryRepository(), ScopeGlobal, 0, 0)

	if _, err := uc.Upload(context.Background(), 1, []byte{0xff, 0xfe}); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("err = %v", err)
	}
}

func TestHistoryUseCase_Validate(t *testing.T) {
	uc := NewHistoryUseCase(storage.NewMemoryHistoryRepository(), ScopeGlobal, 0, 100)

	cases := []struct {
		name string
		doc  Document
		want error
	}{
		{"txt by mime", Document{FileName: "notes", MimeType: "text/plain", Size: 10}, nil},
		{"txt by name", Document{FileName: "notes.txt", MimeType: "application/octet-stream", Size: 10}, nil},
		{"pdf", Document{FileName: "report.pdf", MimeType: "application/pdf", Size: 10}, ErrUnsupportedFormat},
		{"too large", Document{FileName: "big.txt", MimeType: "text/plain", Size: 101}, ErrDocumentTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.Validate(tc.doc)
			if tc.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestHistoryUseCase_Context(t *testing.T) {
	ctx := context.Background()
	uc := NewHistoryUseCase(storage.NewMemoryHistoryRepository(), ScopeGlobal, 5, 0)

	summary, err := uc.Context(ctx, 1)
	if err != nil || !summary.Empty() {
		t.Fatalf("empty context = %+v, %v", summary, err)
	}

	if _, err := uc.Upload(ctx, 1, []byte("abcdefgh")); err != nil {
		t.Fatal(err)
	}
	summary, err = uc.Context(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Chars != 8 || summary.Preview != "abcde..." {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestHistoryUseCase_UserScopeIsolation(t *testing.T) {
	ctx := context.Background()
	uc := NewHistoryUseCase(storage.NewMemoryHistoryRepository(), ScopeUser, 0, 0)

	if _, err := uc.Upload(ctx, 1, []byte("first user")); err != nil {
		t.Fatal(err)
	}

	summary, err := uc.Context(ctx, 2)
	if err != nil || !summary.Empty() {
		t.Fatalf("user 2 sees %+v, %v", summary, err)
	}
	summary, _ = uc.Context(ctx, 1)
	if !strings.HasPrefix(summary.Preview, "first user") {
		t.Fatalf("user 1 preview = %q", summary.Preview)
	}
}

func TestParseHistoryScope(t *testing.T) {
	for raw, want := range map[string]HistoryScope{"": ScopeGlobal, "global": ScopeGlobal, "user": ScopeUser} {
		got, err := ParseHistoryScope(raw)
		if err != nil || got != want {
			t.Fatalf("ParseHistoryScope(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseHistoryScope("team"); err == nil {
		t.Fatal("expected error for unknown scope")
	}
	if ScopeGlobal.Key(42) != entity.GlobalScope || ScopeUser.Key(42) != 42 {
		t.Fatal("unexpected scope keys")
	}
}
