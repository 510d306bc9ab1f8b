package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore хранит токены в хешах session:<id> с TTL и индексом user_sessions:<user>
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(tokenID string) string {
	return "session:" + tokenID
}

func userIndexKey(userID string) string {
	return "user_sessions:" + userID
}

func (s *RedisStore) Put(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	now := time.Now()
	key := sessionKey(tokenID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID.String(),
		"created_at": now.Format(time.RFC3339),
		"expires_at": now.Add(ttl).Format(time.RFC3339),
	})
	pipe.Expire(ctx, key, ttl)
	pipe.SAdd(ctx, userIndexKey(userID.String()), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("сохранение сессии: %w", err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, tokenID string) (uuid.UUID, bool, error) {
	raw, err := s.client.HGet(ctx, sessionKey(tokenID), "user_id").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("чтение сессии: %w", err)
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("повреждённая сессия: %w", err)
	}
	return userID, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, tokenID string) error {
	key := sessionKey(tokenID)

	userID, err := s.client.HGet(ctx, key, "user_id").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("чтение сессии: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.SRem(ctx, userIndexKey(userID), key)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("удаление сессии: %w", err)
	}
	return nil
}

// DeleteAllForUser завершает все сессии пользователя
func (s *RedisStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	index := userIndexKey(userID.String())

	keys, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("индекс сессий: %w", err)
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("удаление сессий: %w", err)
		}
	}
	return s.client.Del(ctx, index).Err()
}

// Sweep сами сессии истекают по TTL, а индексы пользователей нет: убираем из
// них ссылки на исчезнувшие ключи
func (s *RedisStore) Sweep(ctx context.Context) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, userIndexKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		index := iter.Val()

		keys, err := s.client.SMembers(ctx, index).Result()
		if err != nil {
			return removed, fmt.Errorf("индекс сессий: %w", err)
		}
		for _, key := range keys {
			exists, err := s.client.Exists(ctx, key).Result()
			if err != nil {
				return removed, fmt.Errorf("проверка сессии: %w", err)
			}
			if exists > 0 {
				continue
			}
			if err := s.client.SRem(ctx, index, key).Err(); err != nil {
				return removed, fmt.Errorf("очистка индекса: %w", err)
			}
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("обход индексов: %w", err)
	}
	return removed, nil
}
