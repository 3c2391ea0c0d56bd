package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TickLock guards a sweep so concurrent replicas do not double-escalate the
// same issues. A nil TickLock means single-process operation.
type TickLock interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type redisTickLock struct {
	client *redis.Client
	key    string
	owner  string
	ttl    time.Duration
}

// NewRedisTickLock builds a SETNX-based lock. The TTL bounds how long a
// crashed holder can block other replicas.
func NewRedisTickLock(client *redis.Client, key string, ttl time.Duration) TickLock {
	return &redisTickLock{
		client: client,
		key:    key,
		owner:  uuid.NewString(),
		ttl:    ttl,
	}
}

func (l *redisTickLock) TryAcquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
}

// Release deletes the lock only when this instance still owns it.
func (l *redisTickLock) Release(ctx context.Context) error {
	const script = `
        if redis.call("GET", KEYS[1]) == ARGV[1] then
            return redis.call("DEL", KEYS[1])
        end
        return 0`
	return l.client.Eval(ctx, script, []string{l.key}, l.owner).Err()
}
