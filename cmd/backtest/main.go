// Command backtest simulates one or more games at a fixed threshold
// pair and prints the resulting trades.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/psycho789/bball-sub002/internal/candles"
	"github.com/psycho789/bball-sub002/internal/config"
	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/metrics"
	"github.com/psycho789/bball-sub002/internal/observability"
	"github.com/psycho789/bball-sub002/internal/reporting"
	"github.com/psycho789/bball-sub002/internal/simulation"
	"github.com/psycho789/bball-sub002/internal/storage"
	chstore "github.com/psycho789/bball-sub002/internal/storage/clickhouse"
	"github.com/psycho789/bball-sub002/internal/storage/memory"
	pgstore "github.com/psycho789/bball-sub002/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	gameIDsArg := flag.String("game-ids", "", "Comma-separated game IDs to simulate (required)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry runs and tests)")
	persist := flag.Bool("persist", false, "Persist trade records to storage")
	outputCSV := flag.Bool("csv", false, "Output trades as CSV instead of JSON")
	quoteSource := flag.String("quote-source", "official", "Market quote source: official (per-minute samples) or ticks (candle-derived)")
	candleResolution := flag.Int("candle-resolution", 60, "Candle resolution in seconds for -quote-source=ticks")
	candleSpread := flag.Float64("candle-spread", 0.02, "Synthetic spread around candle closes for -quote-source=ticks")

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	var quoteStore storage.QuoteStore = memory.NewQuoteStore()
	var probStore storage.ProbabilityStore = memory.NewProbabilityStore()
	var tradeStore storage.TradeStore = memory.NewTradeStore()
	var tickStore storage.TickStore = memory.NewTickStore()

	if !*useMemory {
		pool, err := pgstore.NewPool(ctx, postgresDSN(cfg))
		if err != nil {
			logger.Error("connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		quoteStore = pgstore.NewQuoteStore(pool)
		probStore = pgstore.NewProbabilityStore(pool)
		tickStore = pgstore.NewTickStore(pool)

		conn, err := chstore.NewConn(ctx, clickhouseDSN(cfg))
		if err != nil {
			logger.Error("connect to clickhouse", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		tradeStore = chstore.NewTradeStore(conn)
	}

	switch *quoteSource {
	case "official":
	case "ticks":
		cache := candles.NewCache(candles.CacheOptions{
			Service: candles.NewService(candles.ServiceOptions{
				TickStore:    tickStore,
				MaxPoints:    cfg.Candles.MaxPointsPerQuery,
				FetchTimeout: time.Duration(cfg.Candles.FetchTimeoutSeconds) * time.Second,
			}),
			TTL:        time.Duration(cfg.Candles.CacheTTLSeconds) * time.Second,
			MaxEntries: cfg.Candles.CacheMaxEntries,
		})
		quoteStore = candles.NewQuoteSource(candles.QuoteSourceOptions{
			Cache:             cache,
			ProbabilityStore:  probStore,
			ResolutionSeconds: *candleResolution,
			Spread:            *candleSpread,
		})
	default:
		logger.Error("unknown quote source", "quote_source", *quoteSource)
		os.Exit(1)
	}

	var persistStore storage.TradeStore
	if *persist {
		persistStore = tradeStore
	}

	runner := simulation.NewRunner(simulation.RunnerOptions{
		QuoteStore:       quoteStore,
		ProbabilityStore: probStore,
		TradeStore:       persistStore,
		Logger:           logger,
	})

	simCfg := cfg.SimConfig()
	logger.Info("running backtest",
		"games", len(gameIDs),
		"entry_threshold", simCfg.EntryThreshold,
		"exit_threshold", simCfg.ExitThreshold,
	)

	var trades []*domain.TradeRecord
	skipped := 0
	for _, gameID := range gameIDs {
		result, err := runner.Run(ctx, gameID, simCfg)
		if err != nil {
			logger.Error("backtest failed", "game_id", gameID, "error", err)
			os.Exit(1)
		}
		if result.Skipped {
			skipped++
			continue
		}
		trades = append(trades, result.Trades...)
	}

	summary := metrics.Compute(trades, len(gameIDs), skipped)
	logger.Info("backtest complete",
		"trades", summary.TradeCount,
		"net_profit", summary.NetProfit,
		"win_rate", summary.WinRate,
		"max_drawdown", summary.MaxDrawdown,
		"skipped_games", summary.SkippedGames,
	)

	report := reporting.NewGenerator(tradeStore, nil).TradeReport(trades)
	if *outputCSV {
		fmt.Print(reporting.RenderTradesCSV(report))
		return
	}
	if err := reporting.WriteJSON(os.Stdout, report); err != nil {
		logger.Error("write report", "error", err)
		os.Exit(1)
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
