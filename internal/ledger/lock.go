package ledger

import (
	"context"
	"time"

	"github.com/bsm/redislock"
)

const (
	lockTTL        = 30 * time.Second
	lockRetryEvery = 100 * time.Millisecond
	lockRetryMax   = 50
)

// ScopeLocker serializes ledger operations per account scope. Two concurrent
// writes against the same account would otherwise interleave the
// fetch-compute-write sequence and corrupt the balance chain.
type ScopeLocker interface {
	// Lock blocks until the key is held and returns the release func.
	Lock(ctx context.Context, key string) (func(), error)
}

// RedisLocker holds the scope lock in Redis so the guarantee survives
// multiple server processes sharing one database.
type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(client *redislock.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.client == nil {
		// Redis not configured: single-process deployments fall through.
		return func() {}, nil
	}

	lock, err := l.client.Obtain(ctx, key, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryEvery), lockRetryMax),
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = lock.Release(ctx) }, nil
}

// NoopLocker is used by tests.
type NoopLocker struct{}

func (NoopLocker) Lock(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}
