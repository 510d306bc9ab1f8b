package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend общий кеш для нескольких экземпляров сервера. Записи хранятся
// в JSON без срока жизни, как и в памяти. Версия ключа лежит в отдельном
// счётчике <prefix>version:<key>, запись идёт в транзакции под WATCH на нём
type RedisBackend[V any] struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend[V any](client *redis.Client, prefix string) *RedisBackend[V] {
	return &RedisBackend[V]{client: client, prefix: prefix}
}

func (r *RedisBackend[V]) valueKey(key string) string {
	return r.prefix + key
}

func (r *RedisBackend[V]) versionKey(key string) string {
	return r.prefix + "version:" + key
}

func (r *RedisBackend[V]) Load(ctx context.Context, key string) (V, bool, error) {
	var value V

	data, err := r.client.Get(ctx, r.valueKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return value, true, nil
}

func (r *RedisBackend[V]) Version(ctx context.Context, key string) (uint64, error) {
	return parseVersion(r.client.Get(ctx, r.versionKey(key)))
}

// отсутствующий счётчик означает версию 0
func parseVersion(cmd *redis.StringCmd) (uint64, error) {
	version, err := cmd.Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("cache version: %w", err)
	}
	return version, nil
}

func (r *RedisBackend[V]) Store(ctx context.Context, key string, value V, version uint64) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("cache marshal: %w", err)
	}

	stored := false
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := parseVersion(tx.Get(ctx, r.versionKey(key)))
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.valueKey(key), data, 0)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, r.versionKey(key))

	if errors.Is(err, redis.TxFailedErr) {
		// версию поменяли между WATCH и EXEC
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return stored, nil
}

func (r *RedisBackend[V]) Delete(ctx context.Context, keys ...string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Del(ctx, r.valueKey(k))
			pipe.Incr(ctx, r.versionKey(k))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
