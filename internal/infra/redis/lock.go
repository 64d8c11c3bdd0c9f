package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLocked = errors.New("lock already held")

// Locker guards the daily issuance run against a double invocation on
// the same node. It is best-effort: correctness against double issuance
// still rests on the per-user issuance flag.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

var _ Locker = (*RedisLocker)(nil)

type RedisLocker struct {
	client RedisClient
}

func NewLocker(client RedisClient) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrLocked
	}
	return token, nil
}

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	// Unlock only if we still hold our token; a stale unlock after TTL
	// expiry must not clobber the next holder.
	val, err := l.client.Get(ctx, key)
	if err != nil {
		if IsNil(err) {
			return nil
		}
		return err
	}
	if val != token {
		return errors.New("unlock token mismatch")
	}
	return l.client.Del(ctx, key)
}
