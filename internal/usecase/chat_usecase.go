package usecase

import (
	"context"
	"fmt"

	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
)

// DefaultSystemPrompt asosiy system prompt
const DefaultSystemPrompt = "Ты полезный AI-ассистент. Отвечай дружелюбно и профессионально."

// ChatUseCase chat bilan bog'liq business logic
type ChatUseCase interface {
	// ProcessMessage foydalanuvchi xabariga AI javobini olish.
	// Tarixni o'qishdagi xato ham CompletionResult ichida qaytadi.
	ProcessMessage(ctx context.Context, userID int64, text string) entity.CompletionResult
}

type chatUseCase struct {
	aiRepo       repository.AIRepository
	historyRepo  repository.HistoryRepository
	scope        HistoryScope
	systemPrompt string
}

// NewChatUseCase yangi ChatUseCase yaratish
func NewChatUseCase(
	aiRepo repository.AIRepository,
	historyRepo repository.HistoryRepository,
	scope HistoryScope,
	systemPrompt string,
) ChatUseCase {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &chatUseCase{
		aiRepo:       aiRepo,
		historyRepo:  historyRepo,
		scope:        scope,
		systemPrompt: systemPrompt,
	}
}

// ProcessMessage foydalanuvchi xabarini qayta ishlash
func (u *chatUseCase) ProcessMessage(ctx context.Context, userID int64, text string) entity.CompletionResult {
	history, err := u.historyRepo.Read(ctx, u.scope.Key(userID))
	if err != nil {
		return entity.Failure(entity.KindUnexpected, fmt.Errorf("failed to read history: %w", err))
	}

	return u.aiRepo.Complete(ctx, entity.CompletionRequest{
		SystemPrompt: u.systemPrompt,
		History:      history,
		UserMessage:  text,
	})
}
