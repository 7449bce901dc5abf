package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	appconfig "github.com/wolfman30/mindmate-ai/internal/config"
	"github.com/wolfman30/mindmate-ai/internal/dangerwords"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

const (
	LedgerBackendMemory = "memory"
	LedgerBackendRedis  = "redis"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildLedger picks the danger-word ledger backend. The Redis backend refuses
// to start without a reachable client rather than silently losing counts.
func BuildLedger(cfg *appconfig.Config, redisClient *redis.Client, tracer trace.Tracer, logger *logging.Logger) (dangerwords.Ledger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch backend := strings.ToLower(strings.TrimSpace(cfg.LedgerBackend)); backend {
	case "", LedgerBackendMemory:
		logger.Info("using in-memory danger-word ledger")
		return dangerwords.NewMemoryLedger(), nil
	case LedgerBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("bootstrap: redis ledger requires a reachable redis at %q", cfg.RedisAddr)
		}
		logger.Info("using redis danger-word ledger", "redis", cfg.RedisAddr)
		return dangerwords.NewRedisLedger(redisClient, tracer), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown ledger backend %q", backend)
	}
}
