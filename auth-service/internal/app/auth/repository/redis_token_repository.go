package repository

import (
	"context"
	"fmt"
	"time"

	"velora/auth-service/internal/app/auth/entity"
	"velora/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const serviceName = "auth-service"

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает Redis репозиторий для токенов.
// Refresh токены и черный список живут только до истечения TTL,
// отдельной чистки не требуется.
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// SaveRefreshToken сохраняет refresh токен с TTL до expiresAt
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	timer := metrics.NewRedisTimer(serviceName, "set")
	defer timer.ObserveDuration()

	key := fmt.Sprintf("auth:refresh_token:%s", token)

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}

	if err := r.client.Set(ctx, key, userID.String(), ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	// Токен также попадает в множество токенов пользователя,
	// чтобы logout мог отозвать все сессии разом
	userTokensKey := fmt.Sprintf("auth:user_tokens:%s", userID.String())
	if err := r.client.SAdd(ctx, userTokensKey, token).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "sadd")
		return fmt.Errorf("failed to add token to user tokens set: %w", err)
	}
	r.client.Expire(ctx, userTokensKey, ttl)

	return nil
}

// GetRefreshToken получает refresh токен из Redis
func (r *redisTokenRepository) GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	timer := metrics.NewRedisTimer(serviceName, "get")
	defer timer.ObserveDuration()

	key := fmt.Sprintf("auth:refresh_token:%s", token)

	userIDStr, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("refresh token not found: %w", redis.Nil)
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, "get")
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in refresh token record: %w", err)
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, "ttl")
		return nil, fmt.Errorf("failed to get token ttl: %w", err)
	}

	return &entity.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// DeleteRefreshToken удаляет конкретный refresh токен
func (r *redisTokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	timer := metrics.NewRedisTimer(serviceName, "del")
	defer timer.ObserveDuration()

	key := fmt.Sprintf("auth:refresh_token:%s", token)

	userIDStr, err := r.client.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		metrics.RecordRedisError(serviceName, "get")
		return fmt.Errorf("failed to get user id for token: %w", err)
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	if userIDStr != "" {
		userTokensKey := fmt.Sprintf("auth:user_tokens:%s", userIDStr)
		r.client.SRem(ctx, userTokensKey, token)
	}

	return nil
}

// DeleteUserRefreshTokens удаляет все refresh токены пользователя
func (r *redisTokenRepository) DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	timer := metrics.NewRedisTimer(serviceName, "del")
	defer timer.ObserveDuration()

	userTokensKey := fmt.Sprintf("auth:user_tokens:%s", userID.String())

	tokens, err := r.client.SMembers(ctx, userTokensKey).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, "smembers")
		return fmt.Errorf("failed to get user tokens: %w", err)
	}

	for _, token := range tokens {
		r.client.Del(ctx, fmt.Sprintf("auth:refresh_token:%s", token))
	}

	if err := r.client.Del(ctx, userTokensKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		return fmt.Errorf("failed to delete user tokens set: %w", err)
	}

	return nil
}

// AddToBlacklist добавляет access токен в черный список до истечения его срока
func (r *redisTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	timer := metrics.NewRedisTimer(serviceName, "set")
	defer timer.ObserveDuration()

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Токен уже истек, блокировать нечего
		return nil
	}

	key := fmt.Sprintf("auth:blacklist:%s", token)
	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

// IsBlacklisted проверяет, отозван ли токен
func (r *redisTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, "exists")
	defer timer.ObserveDuration()

	key := fmt.Sprintf("auth:blacklist:%s", token)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, "exists")
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists > 0, nil
}
