package lock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const slotKeyPrefix = "booking:slot:"

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseFunc снимает блокировку; безопасна для повторного вызова
type ReleaseFunc func(ctx context.Context)

// RedisLocker короткая блокировка слота на время бронирования
// Не заменяет проверку в БД: блокировка отсекает параллельные попытки до открытия транзакции.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker создает RedisLocker; ttl ограничивает время жизни блокировки при падении процесса
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// AcquireSlot пытается захватить слот instant
// acquired=false без ошибки означает, что слот сейчас бронирует другой запрос
func (l *RedisLocker) AcquireSlot(ctx context.Context, instant time.Time) (ReleaseFunc, bool, error) {
	key := SlotKey(instant)
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: AcquireSlot - setnx %s: %v", ErrLockBackend, key, err)
	}
	if !acquired {
		return nil, false, nil
	}

	released := false
	release := func(ctx context.Context) {
		if released {
			return
		}
		released = true
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

// Noop блокировка без redis: всегда успешна
type Noop struct{}

// AcquireSlot всегда захватывает слот
func (Noop) AcquireSlot(context.Context, time.Time) (ReleaseFunc, bool, error) {
	return func(context.Context) {}, true, nil
}

// SlotKey ключ блокировки для момента времени
func SlotKey(instant time.Time) string {
	return slotKeyPrefix + strconv.FormatInt(instant.UTC().Unix(), 10)
}
