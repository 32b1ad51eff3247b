package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/sinew/internal/logging"
	"github.com/aretw0/sinew/pkg/adapters/file"
	"github.com/aretw0/sinew/pkg/adapters/redis"
	"github.com/aretw0/sinew/pkg/persistence/middleware"
	"github.com/aretw0/sinew/pkg/ports"
)

// StoreConfig selects and configures a curve document store.
type StoreConfig struct {
	Kind string // "file" or "redis"

	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	RedisTTL      time.Duration
}

// OpenStore returns the configured store, wrapped with validation and
// call logging, and a function that releases it.
func OpenStore(cfg StoreConfig, logger *slog.Logger) (ports.CurveStore, func() error, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	store, closeFn, err := openBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	store = middleware.Chain(store,
		middleware.NewLoggingMiddleware(logger.With("store", cfg.Kind)),
		middleware.NewValidationMiddleware(),
	)
	return store, closeFn, nil
}

func openBackend(cfg StoreConfig) (ports.CurveStore, func() error, error) {
	switch cfg.Kind {
	case "", "file":
		return file.New(cfg.Dir), func() error { return nil }, nil
	case "redis":
		var opts []redis.Option
		if cfg.RedisPrefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.RedisPrefix))
		}
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		s := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q: want file or redis", cfg.Kind)
}
