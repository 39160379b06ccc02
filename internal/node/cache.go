package node

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	traceCacheKeyPrefix = "memtrace:trace:"
	defaultCacheTTL     = 24 * time.Hour
)

// CacheConfig configures the optional Redis trace cache.
type CacheConfig struct {
	Addr string
	TTL  time.Duration
}

// NewRedisClient connects to Redis at cfg.Addr and checks the connection.
// It returns nil, nil when no address is configured.
func NewRedisClient(ctx context.Context, cfg CacheConfig) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// CachedGateway serves traces from a cache before asking the wrapped Source.
// Blocks are never cached. Cache failures only degrade to a direct fetch.
type CachedGateway struct {
	Source
	cache  Cache
	mode   TraceMode
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGateway(source Source, cache Cache, mode TraceMode, ttl time.Duration, logger *zap.Logger) *CachedGateway {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedGateway{
		Source: source,
		cache:  cache,
		mode:   mode,
		ttl:    ttl,
		logger: logger,
	}
}

func (g *CachedGateway) FetchTrace(ctx context.Context, hash string) (*model.TraceResult, error) {
	key := traceCacheKey(g.mode, hash)
	cached, err := g.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		trace, decodeErr := decodeTracerResult(cached)
		if decodeErr == nil {
			return trace, nil
		}
		g.logger.Warn("discarding undecodable cached trace", zap.String("tx_hash", hash), zap.Error(decodeErr))
	case !errors.Is(err, redis.Nil):
		g.logger.Warn("trace cache read failed", zap.String("tx_hash", hash), zap.Error(err))
	}

	trace, err := g.Source.FetchTrace(ctx, hash)
	if err != nil {
		return nil, err
	}
	payload, err := encodeTracerResult(trace)
	if err != nil {
		return trace, nil
	}
	if err := g.cache.Set(ctx, key, payload, g.ttl).Err(); err != nil {
		g.logger.Warn("trace cache write failed", zap.String("tx_hash", hash), zap.Error(err))
	}
	return trace, nil
}

func traceCacheKey(mode TraceMode, hash string) string {
	return traceCacheKeyPrefix + string(mode) + ":" + strings.ToLower(hash)
}
