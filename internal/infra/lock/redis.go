package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrAcquire возвращается, когда Redis недоступен при захвате блокировки
	ErrAcquire = errors.New("lock: failed to acquire")

	// ErrRelease возвращается при ошибке освобождения блокировки
	ErrRelease = errors.New("lock: failed to release")
)

// releaseScript удаляет ключ, только если он все еще принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Client команды Redis, которые использует блокировка (*redis.Client)
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redis.Scripter
}

// RedisLocker блокировка одного запуска задачи между экземплярами сервиса
type RedisLocker struct {
	client Client
	key    string
	ttl    time.Duration
}

// NewRedisLocker создает блокировку на ключе key
// ttl ограничивает время удержания, если экземпляр упал, не освободив ключ
func NewRedisLocker(client Client, key string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, key: key, ttl: ttl}
}

// TTL время удержания блокировки
func (l *RedisLocker) TTL() time.Duration {
	return l.ttl
}

// TryLock пытается захватить блокировку без ожидания
// Если блокировка занята, возвращает acquired=false без ошибки
func (l *RedisLocker) TryLock(ctx context.Context) (release func(context.Context) error, acquired bool, err error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: key=%s: %v", ErrAcquire, l.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("%w: key=%s: %v", ErrRelease, l.key, err)
		}
		return nil
	}
	return release, true, nil
}
