package repository

// AccessPolicy foydalanuvchiga ruxsat berilganini tekshirish
type AccessPolicy interface {
	IsAllowed(userID int64) bool
}
