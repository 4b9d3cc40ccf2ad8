package usecase

import (
	"fmt"

	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
)

// HistoryScope tarix kim uchun umumiy ekanini belgilaydi
type HistoryScope string

const (
	// ScopeGlobal bitta tarix hamma uchun
	ScopeGlobal HistoryScope = "global"
	// ScopeUser har bir foydalanuvchi uchun alohida tarix
	ScopeUser HistoryScope = "user"
)

// ParseHistoryScope konfiguratsiyadagi qiymatni tekshirish
func ParseHistoryScope(raw string) (HistoryScope, error) {
	switch HistoryScope(raw) {
	case "", ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeUser:
		return ScopeUser, nil
	default:
		return "", fmt.Errorf("unknown history scope %q", raw)
	}
}

// Key saqlash kaliti
func (s HistoryScope) Key(userID int64) int64 {
	if s == ScopeUser {
		return userID
	}
	return entity.GlobalScope
}
