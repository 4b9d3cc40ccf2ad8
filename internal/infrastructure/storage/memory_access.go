package storage

import "github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"

type allowList struct {
	users map[int64]struct{}
}

// NewAllowList ruxsat berilgan foydalanuvchilar ro'yxatini yaratish.
// Ro'yxat ishga tushganda bir marta to'ldiriladi va keyin o'zgarmaydi.
func NewAllowList(userIDs []int64) repository.AccessPolicy {
	users := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		users[id] = struct{}{}
	}
	return &allowList{users: users}
}

// IsAllowed foydalanuvchi ro'yxatda borligini tekshirish
func (a *allowList) IsAllowed(userID int64) bool {
	_, ok := a.users[userID]
	return ok
}
