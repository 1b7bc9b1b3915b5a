// Package bootstrap centralizes the wiring shared by the API server and the
// reminder worker so both binaries build their dependencies the same way.
package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/dentalworks/dental-clinic-platform/internal/chart"
	appconfig "github.com/dentalworks/dental-clinic-platform/internal/config"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// BuildDatabase opens the shared pgx pool and a database/sql view of it for
// the repositories that speak the stdlib interface. The returned *sql.DB is
// backed by the pool, so closing the pool closes both.
func BuildDatabase(ctx context.Context, cfg *appconfig.Config) (*pgxpool.Pool, *sql.DB, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil, fmt.Errorf("bootstrap: DATABASE_URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("bootstrap: ping database: %w", err)
	}
	return pool, stdlib.OpenDBFromPool(pool), nil
}

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil so callers
// fall back to uncached operation.
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
		logger.Warn("redis not available, chart snapshots disabled", "error", err)
		return nil
	}
	return client
}

// BuildChartCache returns the snapshot cache when Redis is available.
func BuildChartCache(redisClient *redis.Client, cfg *appconfig.Config) *chart.SnapshotCache {
	if redisClient == nil || cfg == nil {
		return nil
	}
	return chart.NewSnapshotCache(redisClient, cfg.ChartCacheTTL, nil)
}
