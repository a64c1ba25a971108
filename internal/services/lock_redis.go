package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// unlockScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by someone else is never released by us.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// RedisLocker is a Locker shared by every process using the same Redis.
// A lock expires after TTL even if its holder dies.
type RedisLocker struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
	Wait   time.Duration
	Retry  time.Duration
}

// NewRedisLocker returns a RedisLocker with a 100ms polling interval.
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		Client: client,
		Prefix: "health-assistant:lock:",
		TTL:    ttl,
		Wait:   wait,
		Retry:  100 * time.Millisecond,
	}
}

// Lock polls SET NX until it wins, Wait elapses (ErrLockTimeout) or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	full := l.Prefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.Wait)
	defer cancel()

	for {
		ok, err := l.Client.SetNX(waitCtx, full, token, l.TTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrLockTimeout
			}
			return nil, err
		}
		if ok {
			return l.unlocker(full, token), nil
		}

		timer := time.NewTimer(l.Retry)
		select {
		case <-waitCtx.Done():
			timer.Stop()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		case <-timer.C:
		}
	}
}

func (l *RedisLocker) unlocker(key, token string) func() {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(ctx, l.Client, []string{key}, token).Err()
	}
}
