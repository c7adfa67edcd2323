package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainerrors "github.com/wekeepgrowing/semo-fleet/internal/domain/errors"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

const (
	redisKeyPrefix   = "fleet:compliance:lock:"
	redisRetryPeriod = 50 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes owners across instances with SET NX PX.
// The TTL bounds how long a crashed holder can block others.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisLocker waits up to ttl for a busy lock before giving up with ErrOwnerLocked.
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: ttl, logger: logger}
}

func (l *RedisLocker) Lock(ctx context.Context, ownerID string) (func(), error) {
	key := redisKeyPrefix + ownerID
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrUnavailable, "owner lock backend unavailable", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, domainerrors.Detail(domainerrors.ErrOwnerLocked, "owner %s", ownerID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(redisRetryPeriod):
		}
	}

	return func() {
		// release with a fresh context so a cancelled request still frees the lock
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			l.logger.Warn("Failed to release owner lock", zap.String("owner_id", ownerID), zap.Error(err))
		}
	}, nil
}
