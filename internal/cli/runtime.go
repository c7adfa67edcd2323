package cli

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/config"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/database"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/lock"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase"
	"github.com/wekeepgrowing/semo-fleet/pkg/logger"
	"github.com/wekeepgrowing/semo-fleet/pkg/messaging"
)

// runtime is the wired engine for one command invocation.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	useCases *usecase.UseCases
	redis    messaging.RedisClient
	closers  []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.logger.Sync()
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// newLogger logs to stderr so command output on stdout stays parseable.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logCfg := cfg.Log
	logCfg.Output = "stderr"
	logCfg.Format = "console"
	logCfg.Level = logLevel
	return logger.NewZapLogger(logCfg)
}

// newRuntime connects to the database (and Redis when configured) and wires the use cases.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: log}

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, func() { _ = database.Close(db, log) })

	deps := usecase.Dependencies{}
	var rawRedis *redis.Client
	if cfg.Redis.Enabled() {
		client, err := messaging.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.redis = client
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		deps.Publisher = client
		rawRedis = client.Raw()
	}

	if deps.Locker, err = lock.New(cfg.Compliance, rawRedis, log); err != nil {
		rt.Close()
		return nil, err
	}

	rt.useCases = usecase.SetupUseCases(log, cfg, database.NewRepositories(db, log), deps)
	return rt, nil
}
