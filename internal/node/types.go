package node

import (
	"context"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCClient is the JSON-RPC session shared by every worker. *rpc.Client satisfies it.
	RPCClient interface {
		CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	}
	// Source is the node contract the pipeline stages depend on.
	Source interface {
		FetchBlock(ctx context.Context, number uint64) (*model.Block, error)
		FetchTrace(ctx context.Context, hash string) (*model.TraceResult, error)
	}
	// Metrics records metrics for node calls.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
	// Cache stores encoded traces. *redis.Client satisfies it.
	Cache interface {
		Get(ctx context.Context, key string) *redis.StringCmd
		Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	}
)
