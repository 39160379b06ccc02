// Command memtrace reconstructs the memory activity of every transaction in a block range.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/memtrace/internal/metrics"
	"github.com/goodnatureofminers/memtrace/internal/model"
	"github.com/goodnatureofminers/memtrace/internal/node"
	"github.com/goodnatureofminers/memtrace/internal/repository/clickhouse"
	"github.com/goodnatureofminers/memtrace/internal/service/pipeline"
	"github.com/goodnatureofminers/memtrace/internal/storage/csvstore"
	"github.com/goodnatureofminers/memtrace/internal/telemetry"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "memtrace"

type config struct {
	RPCURL       string        `long:"rpc-url" env:"MEMTRACE_RPC_URL" description:"node endpoint: HTTP(S) or WebSocket URL, or IPC socket path"`
	APIKey       string        `long:"api-key" env:"MEMTRACE_RPC_API_KEY" description:"value of the x-api-key header sent to the node"`
	TraceMode    string        `long:"trace-mode" env:"MEMTRACE_TRACE_MODE" default:"js" choice:"js" choice:"structlog" description:"how traces are requested from the node"`
	TracerFile   string        `long:"tracer-file" env:"MEMTRACE_TRACER_FILE" description:"JavaScript tracer used in js mode instead of the embedded one"`
	TraceTimeout time.Duration `long:"trace-timeout" env:"MEMTRACE_TRACE_TIMEOUT" default:"60s" description:"tracer timeout forwarded to the node"`
	Workers      int           `long:"workers" env:"MEMTRACE_WORKERS" default:"1000" description:"maximum in-flight node requests per stage"`
	RPS          int           `long:"rps" env:"MEMTRACE_RPS" default:"0" description:"node requests per second, 0 for unlimited"`
	Retries      int           `long:"retries" env:"MEMTRACE_RETRIES" default:"0" description:"extra attempts after a node transport failure"`
	OutputDir    string        `long:"output-dir" env:"MEMTRACE_OUTPUT_DIR" default:"data" description:"directory receiving the record streams"`

	RedisAddr string        `long:"redis-addr" env:"MEMTRACE_REDIS_ADDR" description:"redis address for the trace cache, empty disables it"`
	CacheTTL  time.Duration `long:"cache-ttl" env:"MEMTRACE_CACHE_TTL" default:"24h" description:"trace cache entry lifetime"`

	ClickhouseDSN           string        `long:"clickhouse-dsn" env:"MEMTRACE_CLICKHOUSE_DSN" description:"ClickHouse DSN for the mirror, empty disables it"`
	ClickhouseFlushSize     int           `long:"clickhouse-flush-size" env:"MEMTRACE_CLICKHOUSE_FLUSH_SIZE" default:"10000" description:"rows per ClickHouse insert"`
	ClickhouseFlushInterval time.Duration `long:"clickhouse-flush-interval" env:"MEMTRACE_CLICKHOUSE_FLUSH_INTERVAL" default:"5s" description:"maximum delay before queued rows are inserted"`

	MetricsAddr  string `long:"metrics-addr" env:"MEMTRACE_METRICS_ADDR" default:":2112" description:"address for metrics server, empty disables it"`
	OTLPEndpoint string `long:"otlp-endpoint" env:"MEMTRACE_OTLP_ENDPOINT" description:"OTLP/HTTP trace collector, empty disables tracing"`

	Args struct {
		Start uint64 `positional-arg-name:"start-block" description:"first block of the range"`
		End   uint64 `positional-arg-name:"end-block" description:"last block of the range, inclusive"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := loadDotEnv(".env"); err != nil {
		logger.Fatal("failed to load .env", zap.Error(err))
	}
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("memtrace failed", zap.Error(err))
	}
}

// loadDotEnv applies path over the process environment when the file exists.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Overload(path)
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	blocks := model.BlockRange{Start: cfg.Args.Start, End: cfg.Args.End}
	if err := blocks.Validate(); err != nil {
		return err
	}
	if cfg.RPCURL == "" {
		return errors.New("rpc url is required")
	}
	mode, err := node.ParseTraceMode(cfg.TraceMode)
	if err != nil {
		return err
	}
	tracer, err := node.LoadTracer(cfg.TracerFile)
	if err != nil {
		return err
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Error("failed to shutdown tracer", zap.Error(err))
		}
	}()

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger)
	}

	client, err := node.Dial(ctx, cfg.RPCURL, cfg.APIKey)
	if err != nil {
		return err
	}
	// the session outlives both stages
	defer client.Close()

	gateway, err := node.NewGateway(client, node.Config{
		Mode:         mode,
		Tracer:       tracer,
		TraceTimeout: cfg.TraceTimeout,
		RPS:          cfg.RPS,
		Retries:      cfg.Retries,
	}, logger.Named("node"))
	if err != nil {
		return fmt.Errorf("init node gateway: %w", err)
	}
	var source node.Source = node.NewObservedGateway(gateway, metrics.NewNodeGateway(string(mode)))

	rdb, err := node.NewRedisClient(ctx, node.CacheConfig{Addr: cfg.RedisAddr, TTL: cfg.CacheTTL})
	if err != nil {
		return fmt.Errorf("init trace cache: %w", err)
	}
	if rdb != nil {
		defer func() {
			_ = rdb.Close()
		}()
		source = node.NewCachedGateway(source, rdb, mode, cfg.CacheTTL, logger.Named("cache"))
	}

	store, err := csvstore.Open(cfg.OutputDir, blocks.Start, blocks.End)
	if err != nil {
		return err
	}

	var mirror *clickhouse.Mirror
	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init repository: %w", err)
		}
		defer func() {
			_ = repo.Close()
		}()
		mirror = clickhouse.NewMirror(repo, blocks, clickhouse.MirrorConfig{
			FlushSize:     cfg.ClickhouseFlushSize,
			FlushInterval: cfg.ClickhouseFlushInterval,
		}, logger.Named("clickhouse"))
		mirror.Start(ctx)
		defer func() {
			stats := mirror.Stop()
			logger.Info("clickhouse mirror stopped",
				zap.Uint64("transactions_flushed", stats.TransactionsFlushed),
				zap.Uint64("transactions_dropped", stats.TransactionsDropped),
				zap.Uint64("events_flushed", stats.EventsFlushed),
				zap.Uint64("events_dropped", stats.EventsDropped),
			)
		}()
	}

	logger.Info("starting run",
		zap.Stringer("range", blocks),
		zap.String("trace_mode", string(mode)),
		zap.Int("workers", cfg.Workers),
		zap.String("output", store.Dir()),
	)

	txSummary, err := runTransactionStage(ctx, cfg, blocks, source, store, mirror, logger)
	if err != nil {
		return err
	}
	logger.Info("transaction stage finished",
		zap.Uint64("blocks", txSummary.Blocks),
		zap.Uint64("transactions", txSummary.Transactions),
		zap.Uint64("first_id", txSummary.FirstID),
		zap.Uint64("last_id", txSummary.LastID),
	)

	cfSummary, err := runCallFrameStage(ctx, cfg, source, store, mirror, logger)
	if err != nil {
		return err
	}
	logger.Info("call frame stage finished",
		zap.Uint64("attempted", cfSummary.Attempted),
		zap.Uint64("succeeded", cfSummary.Succeeded),
		zap.Uint64("reverted", cfSummary.Reverted),
		zap.Uint64("failed", cfSummary.Failed),
		zap.Uint64("events", cfSummary.Events),
	)
	return nil
}

func runTransactionStage(
	ctx context.Context,
	cfg config,
	blocks model.BlockRange,
	source node.Source,
	store *csvstore.Store,
	mirror *clickhouse.Mirror,
	logger *zap.Logger,
) (pipeline.TransactionSummary, error) {
	file, err := store.CreateTransactionWriter()
	if err != nil {
		return pipeline.TransactionSummary{}, err
	}
	var writer pipeline.TransactionWriter = file
	if mirror != nil {
		writer = pipeline.TeeTransactions(file, mirror.Transactions())
	}

	stage, err := pipeline.NewTransactionStage(source, writer, metrics.NewTransactionStage(), cfg.Workers, logger.Named("transaction_stage"))
	if err != nil {
		return pipeline.TransactionSummary{}, errors.Join(err, file.Close())
	}
	summary, err := stage.Run(ctx, blocks.Start, blocks.End)
	if err = errors.Join(err, file.Close()); err != nil {
		return summary, fmt.Errorf("transaction stage: %w", err)
	}
	return summary, nil
}

func runCallFrameStage(
	ctx context.Context,
	cfg config,
	source node.Source,
	store *csvstore.Store,
	mirror *clickhouse.Mirror,
	logger *zap.Logger,
) (pipeline.CallFrameSummary, error) {
	file, err := store.CreateEventWriter()
	if err != nil {
		return pipeline.CallFrameSummary{}, err
	}
	var writer pipeline.EventWriter = file
	if mirror != nil {
		writer = pipeline.TeeEvents(file, mirror.Events())
	}

	stage, err := pipeline.NewCallFrameStage(source, writer, metrics.NewCallFrameStage(), cfg.Workers, logger.Named("call_frame_stage"))
	if err != nil {
		return pipeline.CallFrameSummary{}, errors.Join(err, file.Close())
	}
	summary, err := stage.Run(ctx, csvstore.ReadTransactions(store.TransactionsPath()))
	if err = errors.Join(err, file.Close()); err != nil {
		return summary, fmt.Errorf("call frame stage: %w", err)
	}
	return summary, nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
