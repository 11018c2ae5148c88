package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/smarttask/internal/config"
)

const (
	pingTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

// NewClient connects to the snapshot key's server. An unreachable server is
// logged, not returned: the snapshot buffer covers writes until it is back.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*goRedis.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := goRedis.NewClient(opts)

	addr := zap.String("addr", opts.Addr)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis not reachable yet", addr, zap.Error(err))
		return client, nil
	}

	logger.Info("connected to redis", addr, zap.Int("db", opts.DB), zap.String("key", cfg.Key))
	return client, nil
}

// clientOptions parses REDIS_URL; REDIS_PASSWORD and REDIS_DB win over the
// values embedded in the URL.
func clientOptions(cfg config.RedisConfig) (*goRedis.Options, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.ReadTimeout = ioTimeout
	opts.WriteTimeout = ioTimeout
	return opts, nil
}
