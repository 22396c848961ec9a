package models

import "time"

// User представляет зарегистрированного пользователя в системе
type User struct {
	CreatedAt      time.Time  `json:"created_at"`              // время создания, не меняется
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"` // время последнего успешного входа
	FullName       *string    `json:"full_name,omitempty"`     // отображаемое имя (опционально)
	Email          string     `json:"email"`                   // уникальный email
	HashedPassword string     `json:"-"`                       // bcrypt хеш, никогда не plaintext
	ID             int64      `json:"id"`                      // числовой идентификатор
	IsActive       bool       `json:"is_active"`               // false = пользователь деактивирован
}

// PublicUser is the user view returned to API clients.
// It never carries the password hash.
type PublicUser struct {
	FullName *string `json:"full_name"`
	Email    string  `json:"email"`
	ID       int64   `json:"id"`
	IsActive bool    `json:"is_active"`
}

// Public returns the client-facing view of the user
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		IsActive: u.IsActive,
	}
}
