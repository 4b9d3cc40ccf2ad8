package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
)

const (
	// DefaultPreviewLimit /show_context da ko'rsatiladigan belgilar soni
	DefaultPreviewLimit = 500
	// DefaultMaxDocumentBytes Bot API orqali yuklab olinadigan fayl chegarasi
	DefaultMaxDocumentBytes = 20 * 1024 * 1024

	textPlainMIME = "text/plain"
)

var (
	ErrUnsupportedFormat = errors.New("document is not a plain text file")
	ErrDocumentTooLarge  = errors.New("document is too large")
	ErrInvalidEncoding   = errors.New("document is not valid UTF-8")
)

// Document yuklangan hujjat haqida ma'lumot
type Document struct {
	FileName string
	MimeType string
	Size     int
}

// ContextSummary /show_context uchun
type ContextSummary struct {
	Chars   int
	Preview string
}

// Empty tarix bo'shligini tekshirish
func (s ContextSummary) Empty() bool {
	return s.Chars == 0
}

// HistoryUseCase tarix yuklash bilan bog'liq business logic
type HistoryUseCase interface {
	// Validate hujjatni yuklab olishdan oldin tekshirish
	Validate(doc Document) error

	// Upload hujjat matnini tarixga qo'shish, yangi belgilar sonini qaytaradi
	Upload(ctx context.Context, userID int64, data []byte) (int, error)

	// Context hozirgi tarix haqida qisqacha ma'lumot
	Context(ctx context.Context, userID int64) (ContextSummary, error)
}

type historyUseCase struct {
	historyRepo  repository.HistoryRepository
	scope        HistoryScope
	previewLimit int
	maxBytes     int
}

// NewHistoryUseCase yangi HistoryUseCase yaratish
func NewHistoryUseCase(historyRepo repository.HistoryRepository, scope HistoryScope, previewLimit, maxBytes int) HistoryUseCase {
	if previewLimit <= 0 {
		previewLimit = DefaultPreviewLimit
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	return &historyUseCase{
		historyRepo:  historyRepo,
		scope:        scope,
		previewLimit: previewLimit,
		maxBytes:     maxBytes,
	}
}

// Validate MIME text/plain yoki .txt kengaytmasi yetarli
func (u *historyUseCase) Validate(doc Document) error {
	if doc.MimeType != textPlainMIME && !strings.HasSuffix(doc.FileName, ".txt") {
		return ErrUnsupportedFormat
	}
	if doc.Size > u.maxBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, doc.Size, u.maxBytes)
	}
	return nil
}

// Upload hujjatni tarixga qo'shish
func (u *historyUseCase) Upload(ctx context.Context, userID int64, data []byte) (int, error) {
	if !utf8.Valid(data) {
		return 0, ErrInvalidEncoding
	}

	content, err := u.historyRepo.Append(ctx, u.scope.Key(userID), string(data))
	if err != nil {
		return 0, fmt.Errorf("failed to append history: %w", err)
	}

	return entity.CharCount(content), nil
}

// Context tarixni o'qib, preview tayyorlash
func (u *historyUseCase) Context(ctx context.Context, userID int64) (ContextSummary, error) {
	content, err := u.historyRepo.Read(ctx, u.scope.Key(userID))
	if err != nil {
		return ContextSummary{}, fmt.Errorf("failed to read history: %w", err)
	}

	return ContextSummary{
		Chars:   entity.CharCount(content),
		Preview: entity.PreviewHistory(content, u.previewLimit),
	}, nil
}
