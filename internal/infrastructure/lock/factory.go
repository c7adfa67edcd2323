package lock

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/config"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
)

// New picks the locker for cfg.LockBackend. client is only used by the redis backend.
func New(cfg config.ComplianceConfig, client *redis.Client, logger *zap.Logger) (interfaces.OwnerLocker, error) {
	switch cfg.LockBackend {
	case config.LockBackendRedis:
		if client == nil {
			return nil, fmt.Errorf("redis lock backend requires a redis client")
		}
		return NewRedisLocker(client, cfg.LockTTL, logger.Named("lock")), nil
	case config.LockBackendMemory, "":
		return NewMemoryLocker(), nil
	}
	return nil, fmt.Errorf("unknown lock backend %q", cfg.LockBackend)
}
