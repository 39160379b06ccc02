// Package node talks to an Ethereum execution node over JSON-RPC.
package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/memtrace/internal/clock"
	"github.com/goodnatureofminers/memtrace/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	methodGetBlockByNumber = "eth_getBlockByNumber"
	methodTraceTransaction = "debug_traceTransaction"

	defaultRetryInterval = 500 * time.Millisecond
)

// Config tunes a Gateway.
type Config struct {
	Mode TraceMode
	// Tracer is the JavaScript tracer sent in ModeJS. Empty means DefaultTracer.
	Tracer string
	// TraceTimeout is forwarded to the node as the tracer timeout.
	TraceTimeout time.Duration
	// RPS caps outgoing requests per second; zero disables the limit.
	RPS int
	// Retries is the number of extra attempts after a transport failure.
	Retries       int
	RetryInterval time.Duration
}

// Gateway fetches blocks and memory traces. It is safe for concurrent use.
type Gateway struct {
	client        RPCClient
	mode          TraceMode
	traceOptions  map[string]any
	limiter       ratelimit.Limiter
	retries       int
	retryInterval time.Duration
	sleep         clock.Sleeper
	tracer        trace.Tracer
	logger        *zap.Logger
}

// NewGateway builds a Gateway over an established RPC session.
func NewGateway(client RPCClient, cfg Config, logger *zap.Logger) (*Gateway, error) {
	if client == nil {
		return nil, errors.New("rpc client is required")
	}
	mode, err := ParseTraceMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	script := cfg.Tracer
	if script == "" {
		script = DefaultTracer
	}
	if mode == ModeJS {
		if err := CompileTracer(script); err != nil {
			return nil, err
		}
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	return &Gateway{
		client:        client,
		mode:          mode,
		traceOptions:  traceOptions(mode, script, cfg.TraceTimeout),
		limiter:       limiter,
		retries:       max(cfg.Retries, 0),
		retryInterval: retryInterval,
		sleep:         clock.Sleep,
		tracer:        otel.Tracer("memtrace/node"),
		logger:        logger,
	}, nil
}

// Mode returns the configured trace mode.
func (g *Gateway) Mode() TraceMode {
	return g.mode
}

// FetchBlock returns the block at number with its full transaction list.
func (g *Gateway) FetchBlock(ctx context.Context, number uint64) (*model.Block, error) {
	target := fmt.Sprintf("block %d", number)

	var raw json.RawMessage
	if err := g.call(ctx, "fetch_block", target, &raw, methodGetBlockByNumber, hexutil.EncodeUint64(number), true); err != nil {
		return nil, err
	}
	block, err := decodeBlock(number, raw)
	if err != nil {
		return nil, &Error{Op: "fetch_block", Target: target, Err: err}
	}
	return block, nil
}

// FetchTrace returns the memory-relevant steps of the transaction with the given hash.
func (g *Gateway) FetchTrace(ctx context.Context, hash string) (*model.TraceResult, error) {
	target := "tx " + hash

	var raw json.RawMessage
	if err := g.call(ctx, "fetch_trace", target, &raw, methodTraceTransaction, hash, g.traceOptions); err != nil {
		return nil, err
	}

	var (
		result *model.TraceResult
		err    error
	)
	switch g.mode {
	case ModeStructLog:
		result, err = decodeStructLog(raw)
	default:
		result, err = decodeTracerResult(raw)
	}
	if err != nil {
		return nil, &Error{Op: "fetch_trace", Target: target, Err: err}
	}
	return result, nil
}

func (g *Gateway) call(ctx context.Context, op, target string, result any, method string, args ...any) error {
	ctx, span := g.tracer.Start(ctx, "node."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("rpc.method", method),
		attribute.String("node.target", target),
	)

	pacer := clock.NewPacer(g.retryInterval, g.sleep)

	for attempt := 0; ; attempt++ {
		g.limiter.Take()
		err := g.client.CallContext(ctx, result, method, args...)
		if err == nil {
			return nil
		}
		if attempt >= g.retries || !retryable(ctx, err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return &Error{Op: op, Target: target, Err: err}
		}

		wait, sleepErr := pacer.Wait(ctx)
		if sleepErr != nil {
			return &Error{Op: op, Target: target, Err: errors.Join(err, sleepErr)}
		}
		g.logger.Debug("retrying node call",
			zap.String("method", method),
			zap.String("target", target),
			zap.Int("attempt", attempt+2),
			zap.Duration("waited", wait),
			zap.Error(err),
		)
	}
}

// retryable reports whether err is a transport failure worth another attempt.
// Error payloads returned by the node are final.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var remote rpc.Error
	return !errors.As(err, &remote)
}
