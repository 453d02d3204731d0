package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
)

// Compile-time check to ensure redisSessionRepository implements SessionRepository
var _ SessionRepository = (*redisSessionRepository)(nil)

type redisSessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSessionRepository создает Redis-хранилище refresh-сессий.
// Каждая сессия - ключ session:{refreshUUID} со значением username и TTL,
// совпадающим со временем жизни refresh-токена.
func NewRedisSessionRepository(client *redis.Client, logger *zap.Logger) SessionRepository {
	return &redisSessionRepository{
		client: client,
		logger: logger.Named("RedisSessionRepo"),
	}
}

func sessionKey(refreshUUID string) string {
	return fmt.Sprintf("session:%s", refreshUUID)
}

func (r *redisSessionRepository) Set(ctx context.Context, session model.Session, ttl time.Duration) error {
	key := sessionKey(session.RefreshUUID)
	r.logger.Debug("Setting session in Redis",
		zap.String("username", session.Username),
		zap.String("refreshUUID", session.RefreshUUID),
		zap.Duration("ttl", ttl),
	)
	if err := r.client.Set(ctx, key, session.Username, ttl).Err(); err != nil {
		r.logger.Error("Failed to set session in redis", zap.Error(err), zap.String("username", session.Username))
		return fmt.Errorf("failed to set session in redis: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) GetUsername(ctx context.Context, refreshUUID string) (string, error) {
	key := sessionKey(refreshUUID)
	username, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Debug("Session not found in Redis", zap.String("refreshUUID", refreshUUID))
			return "", model.ErrSessionNotFound
		}
		r.logger.Error("Failed to get session from redis", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("failed to get session from redis: %w", err)
	}
	return username, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, refreshUUID string) error {
	key := sessionKey(refreshUUID)
	deleted, err := r.client.Del(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to delete session from redis", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	if deleted == 0 {
		// Идемпотентность: повторный logout не ошибка.
		r.logger.Warn("Attempted to delete non-existent session", zap.String("refreshUUID", refreshUUID))
	}
	return nil
}
