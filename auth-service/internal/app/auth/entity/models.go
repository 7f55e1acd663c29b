package entity

import (
	"time"

	"github.com/google/uuid"
)

// User учетная запись покупателя, продавца или администратора
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // не возвращаем в JSON
	FullName     string    `json:"full_name" db:"full_name"`
	RoleID       int       `json:"role_id" db:"role_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Role роль пользователя (customer, seller, admin)
type Role struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
}

// Permission разрешение вида domain:action (например, catalog:write)
type Permission struct {
	ID          int    `json:"id" db:"id"`
	Code        string `json:"code" db:"code"`
	Description string `json:"description,omitempty" db:"description"`
}

// RefreshToken запись refresh токена, хранится в Redis с TTL
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни access токена в секундах
}

// UserWithRole пользователь вместе с ролью и разрешениями
type UserWithRole struct {
	User
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
}
