package domain

import "time"

// UserStatus is the approval status stored in the identity sheet.
type UserStatus string

const (
	StatusPending  UserStatus = "Ожидает"
	StatusApproved UserStatus = "Подтвержден"
	StatusRejected UserStatus = "Отклонено"
)

// Availability tells whether a driver is currently out with a vehicle.
type Availability string

const (
	AvailabilityUnset  Availability = ""
	AvailabilityFree   Availability = "Свободен"
	AvailabilityOnTrip Availability = "В рейсе"
)

// UserRole is the free-form role column. Only RoleAdmin has meaning to the bot.
type UserRole string

const RoleAdmin UserRole = "Админ"

// User is one row of the identity sheet.
type User struct {
	TelegramID   int64
	Phone        string
	FullName     string
	RegisteredAt time.Time
	Status       UserStatus
	Availability Availability
	Role         UserRole
}

// IsAdmin reports whether the row grants administrator rights.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
