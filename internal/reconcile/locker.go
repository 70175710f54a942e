package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKey = "reconcile:sweep:lock"

// releaseScript deletes the lock only when we still own it, so a
// replica whose lock expired mid-sweep cannot release its successor's.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock elects a single sweeper across replicas with SET NX. The
// TTL doubles as crash recovery: a dead holder's lock simply expires.
type RedisLock struct {
	rdb   *redis.Client
	ttl   time.Duration
	token string
}

func NewRedisLock(rdb *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisLock{
		rdb:   rdb,
		ttl:   ttl,
		token: uuid.NewString(),
	}
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	return l.rdb.SetNX(ctx, lockKey, l.token, l.ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.rdb, []string{lockKey}, l.token).Err()
}
