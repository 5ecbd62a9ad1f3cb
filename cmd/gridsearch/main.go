// Command gridsearch sweeps the configured threshold lattice over a set
// of games and reports the best pair's held-out performance.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/psycho789/bball-sub002/internal/config"
	"github.com/psycho789/bball-sub002/internal/decision"
	"github.com/psycho789/bball-sub002/internal/gridsearch"
	"github.com/psycho789/bball-sub002/internal/observability"
	"github.com/psycho789/bball-sub002/internal/reporting"
	"github.com/psycho789/bball-sub002/internal/storage"
	chstore "github.com/psycho789/bball-sub002/internal/storage/clickhouse"
	"github.com/psycho789/bball-sub002/internal/storage/memory"
	pgstore "github.com/psycho789/bball-sub002/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	gameIDsArg := flag.String("game-ids", "", "Comma-separated game IDs in time order (required)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry runs and tests)")
	persist := flag.Bool("persist", false, "Persist trades and the grid result to storage")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint (disabled when empty)")
	outputMD := flag.Bool("markdown", false, "Output a Markdown summary instead of JSON")
	gate := flag.Bool("gate", false, "Run the GO/NO-GO decision gate on the result (exit 2 on NO-GO)")

	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	gameIDs := splitGameIDs(*gameIDsArg)
	if len(gameIDs) == 0 {
		logger.Error("--game-ids is required")
		os.Exit(1)
	}

	pairs := cfg.ThresholdPairs()
	if len(pairs) == 0 {
		logger.Error("grid.entry_thresholds and grid.exit_thresholds must be set")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	promMetrics := observability.NewMetrics("")
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	var quoteStore storage.QuoteStore = memory.NewQuoteStore()
	var probStore storage.ProbabilityStore = memory.NewProbabilityStore()
	var tradeStore storage.TradeStore = memory.NewTradeStore()
	var gridStore storage.GridResultStore = memory.NewGridResultStore()

	if !*useMemory {
		pool, err := pgstore.NewPool(ctx, postgresDSN(cfg))
		if err != nil {
			logger.Error("connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		quoteStore = pgstore.NewQuoteStore(pool)
		probStore = pgstore.NewProbabilityStore(pool)

		conn, err := chstore.NewConn(ctx, clickhouseDSN(cfg))
		if err != nil {
			logger.Error("connect to clickhouse", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		tradeStore = chstore.NewTradeStore(conn)
		gridStore = chstore.NewGridResultStore(conn)
	}

	opts := gridsearch.OptimizerOptions{
		QuoteStore:       quoteStore,
		ProbabilityStore: probStore,
		BaseConfig:       cfg.SimConfig(),
		Workers:          cfg.Grid.Workers,
		Logger:           logger,
		Metrics:          promMetrics,
	}
	if *persist {
		opts.TradeStore = tradeStore
		opts.GridResultStore = gridStore
	}

	optimizer := gridsearch.NewOptimizer(opts)
	ratios := gridsearch.SplitRatios{Train: cfg.Grid.TrainRatio, Valid: cfg.Grid.ValidRatio}

	result, err := optimizer.Search(ctx, gameIDs, pairs, ratios)
	if err != nil {
		logger.Error("grid search failed", "error", err)
		os.Exit(1)
	}

	report := reporting.NewGenerator(tradeStore, gridStore).GridReport(result)
	if *outputMD {
		fmt.Print(reporting.RenderMarkdown(report))
	} else if err := reporting.WriteJSON(os.Stdout, report); err != nil {
		logger.Error("write report", "error", err)
		os.Exit(1)
	}

	if *gate {
		input, err := decision.NewBuilder().Build(result)
		if err != nil {
			logger.Error("build decision input", "error", err)
			os.Exit(1)
		}
		verdict := decision.NewEvaluator().Evaluate(input)
		fmt.Print(decision.RenderMarkdown(input, verdict))
		if verdict.Decision == decision.DecisionNOGO {
			os.Exit(2)
		}
	}
}

func splitGameIDs(arg string) []string {
	var out []string
	for _, id := range strings.Split(arg, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func postgresDSN(cfg *config.Config) string {
	pg := cfg.Database.Postgres
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		pg.User, pg.Password, pg.Host, pg.Port, pg.Name, pg.SSLMode, pg.MaxConns)
}

func clickhouseDSN(cfg *config.Config) string {
	ch := cfg.Database.ClickHouse
	return fmt.Sprintf("clickhouse://%s:%s@%s/%s", ch.Username, ch.Password, ch.Addr, ch.Database)
}
