// Command report renders persisted runs: trade records as JSON or CSV
// and grid results as JSON or Markdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/psycho789/bball-sub002/internal/config"
	"github.com/psycho789/bball-sub002/internal/decision"
	"github.com/psycho789/bball-sub002/internal/metrics"
	"github.com/psycho789/bball-sub002/internal/observability"
	"github.com/psycho789/bball-sub002/internal/reporting"
	chstore "github.com/psycho789/bball-sub002/internal/storage/clickhouse"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	runID := flag.String("run-id", "", "Run ID to report on (required)")
	kind := flag.String("kind", "grid", "Report kind: grid or trades")
	format := flag.String("format", "json", "Output format: json, csv, or markdown (grid only)")
	gate := flag.Bool("gate", false, "Run the GO/NO-GO decision gate on a grid run (exit 2 on NO-GO)")

	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	if *runID == "" {
		logger.Error("--run-id is required")
		os.Exit(1)
	}

	ctx := context.Background()

	ch := cfg.Database.ClickHouse
	dsn := fmt.Sprintf("clickhouse://%s:%s@%s/%s", ch.Username, ch.Password, ch.Addr, ch.Database)
	conn, err := chstore.NewConn(ctx, dsn)
	if err != nil {
		logger.Error("connect to clickhouse", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	tradeStore := chstore.NewTradeStore(conn)
	gridStore := chstore.NewGridResultStore(conn)
	generator := reporting.NewGenerator(tradeStore, gridStore)

	switch *kind {
	case "trades":
		report, err := generator.TradeReportForRun(ctx, *runID)
		if err != nil {
			logger.Error("build trade report", "run_id", *runID, "error", err)
			os.Exit(1)
		}

		summary, err := metrics.NewAggregator(tradeStore).ComputeForRun(ctx, *runID)
		if err == nil {
			logger.Info("run summary",
				"trades", summary.TradeCount,
				"net_profit", summary.NetProfit,
				"win_rate", summary.WinRate,
				"max_drawdown", summary.MaxDrawdown,
			)
		}

		if *format == "csv" {
			fmt.Print(reporting.RenderTradesCSV(report))
			return
		}
		if err := reporting.WriteJSON(os.Stdout, report); err != nil {
			logger.Error("write report", "error", err)
			os.Exit(1)
		}

	case "grid":
		if *gate {
			result, err := gridStore.GetByRunID(ctx, *runID)
			if err != nil {
				logger.Error("load grid result", "run_id", *runID, "error", err)
				os.Exit(1)
			}
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
			return
		}

		report, err := generator.GridReportForRun(ctx, *runID)
		if err != nil {
			logger.Error("build grid report", "run_id", *runID, "error", err)
			os.Exit(1)
		}

		if *format == "markdown" {
			fmt.Print(reporting.RenderMarkdown(report))
			return
		}
		if *format == "csv" {
			fmt.Print(reporting.RenderGridCSV(report))
			return
		}
		if err := reporting.WriteJSON(os.Stdout, report); err != nil {
			logger.Error("write report", "error", err)
			os.Exit(1)
		}

	default:
		logger.Error("unknown report kind", "kind", *kind)
		os.Exit(1)
	}
}
