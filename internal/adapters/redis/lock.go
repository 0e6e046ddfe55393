package redisad

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-node SET NX lease. The lease expires after ttl even if
// the holder dies.
type Locker struct{ c *redis.Client }

func NewLocker(c *redis.Client) *Locker { return &Locker{c: c} }

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.c.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	unlock := func() {
		// the caller's ctx may already be cancelled at shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.c, []string{key}, token).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("release lock failed")
		}
	}
	return unlock, true, nil
}
