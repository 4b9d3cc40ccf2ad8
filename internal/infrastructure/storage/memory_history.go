package storage

import (
	"context"
	"sync"

	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
)

type memoryHistoryRepository struct {
	mu        sync.RWMutex
	histories map[int64]string
}

// NewMemoryHistoryRepository in-memory tarix repository yaratish.
// Tarix faqat jarayon ishlayotganda saqlanadi.
func NewMemoryHistoryRepository() repository.HistoryRepository {
	return &memoryHistoryRepository{
		histories: make(map[int64]string),
	}
}

// Append tarixga matn qo'shish
func (m *memoryHistoryRepository) Append(ctx context.Context, scope int64, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content := entity.JoinHistory(m.histories[scope], text)
	m.histories[scope] = content
	return content, nil
}

// Read tarixni o'qish
func (m *memoryHistoryRepository) Read(ctx context.Context, scope int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.histories[scope], nil
}
