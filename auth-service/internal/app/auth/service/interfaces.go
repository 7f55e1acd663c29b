package service

import (
	"context"

	"velora/auth-service/internal/app/auth/entity"
	"velora/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
)

// AuthServiceInterface то, что нужно обработчикам и middleware от сервиса аутентификации
type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.UserWithRole, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error)
}

// UserServiceInterface операции администратора над пользователями
type UserServiceInterface interface {
	List(ctx context.Context) ([]entity.UserWithRole, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.UserWithRole, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
