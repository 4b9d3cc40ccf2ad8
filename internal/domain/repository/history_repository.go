package repository

import "context"

// HistoryRepository yuklangan tarix matnini saqlash uchun interface
type HistoryRepository interface {
	// Append tarixga matn qo'shish va yangi tarixni qaytarish
	Append(ctx context.Context, scope int64, text string) (string, error)

	// Read tarixni to'liq o'qish (bo'sh bo'lishi mumkin)
	Read(ctx context.Context, scope int64) (string, error)
}
