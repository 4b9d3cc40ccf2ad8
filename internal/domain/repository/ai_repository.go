package repository

import (
	"context"

	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
)

// AIRepository chat-completion API bilan ishlash uchun interface
type AIRepository interface {
	// Complete so'rovni yuborib, javob yoki xato turini qaytarish.
	// Xatolar hech qachon panic yoki error sifatida chiqmaydi.
	Complete(ctx context.Context, req entity.CompletionRequest) entity.CompletionResult
}
