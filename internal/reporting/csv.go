package reporting

import (
	"fmt"
	"strings"
)

// RenderTradesCSV renders trade rows as a CSV string.
func RenderTradesCSV(report *TradeReport) string {
	var sb strings.Builder

	sb.WriteString("trade_id,game_id,run_id,side,entry_timestamp_micros,exit_timestamp_micros,")
	sb.WriteString("entry_price,exit_price,contracts,gross_profit,fees,slippage,net_profit,")
	sb.WriteString("exit_reason,fallback_exit,game_phase,entry_threshold,exit_threshold\n")

	for _, t := range report.Trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%s,%t,%s,%.6f,%.6f\n",
			t.TradeID,
			t.GameID,
			t.RunID,
			t.Side,
			t.EntryMicros,
			t.ExitMicros,
			t.EntryPrice,
			t.ExitPrice,
			t.Contracts,
			t.GrossProfit,
			t.Fees,
			t.Slippage,
			t.NetProfit,
			t.ExitReason,
			t.FallbackExit,
			t.GamePhase,
			t.EntryThreshold,
			t.ExitThreshold,
		))
	}

	return sb.String()
}

// RenderGridCSV renders grid points as a CSV string, one row per
// threshold pair with all three splits inlined.
func RenderGridCSV(report *GridReport) string {
	var sb strings.Builder

	sb.WriteString("entry_threshold,exit_threshold,")
	sb.WriteString("train_net_profit,train_win_rate,train_trades,train_drawdown,train_skipped,")
	sb.WriteString("valid_net_profit,valid_win_rate,valid_trades,valid_drawdown,valid_skipped,")
	sb.WriteString("test_net_profit,test_win_rate,test_trades,test_drawdown,test_skipped\n")

	for _, p := range report.Points {
		sb.WriteString(fmt.Sprintf("%.6f,%.6f,", p.EntryThreshold, p.ExitThreshold))
		for i, m := range []SplitMetricsRow{p.TrainMetrics, p.ValidMetrics, p.TestMetrics} {
			sb.WriteString(fmt.Sprintf("%.6f,%.6f,%d,%.6f,%d", m.NetProfit, m.WinRate, m.TradeCount, m.MaxDrawdown, m.SkippedGames))
			if i < 2 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
