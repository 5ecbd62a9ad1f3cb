package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a grid report as a Markdown summary.
func RenderMarkdown(report *GridReport) string {
	var sb strings.Builder

	generated := time.UnixMicro(report.GeneratedAtMicros).UTC().Format(time.RFC3339)
	sb.WriteString(fmt.Sprintf("# Grid Search %s\n\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generated))
	sb.WriteString(fmt.Sprintf("Games: %d train / %d valid / %d test\n\n",
		len(report.TrainGameIDs), len(report.ValidGameIDs), len(report.TestGameIDs)))

	sb.WriteString("## Best Pair (by validation net profit)\n\n")
	sb.WriteString(fmt.Sprintf("- entry_threshold: %.4f\n", report.Best.EntryThreshold))
	sb.WriteString(fmt.Sprintf("- exit_threshold: %.4f\n", report.Best.ExitThreshold))
	sb.WriteString(fmt.Sprintf("- validation net profit: %.2f\n", report.Best.ValidMetrics.NetProfit))
	sb.WriteString(fmt.Sprintf("- held-out test net profit: %.2f\n", report.Best.TestMetrics.NetProfit))
	sb.WriteString(fmt.Sprintf("- held-out test win rate: %.4f\n\n", report.Best.TestMetrics.WinRate))

	sb.WriteString("## All Pairs\n\n")
	sb.WriteString("| entry | exit | train net | valid net | test net | valid trades | valid win rate |\n")
	sb.WriteString("|-------|------|-----------|-----------|----------|--------------|----------------|\n")
	for _, p := range report.Points {
		sb.WriteString(fmt.Sprintf("| %.4f | %.4f | %.2f | %.2f | %.2f | %d | %.4f |\n",
			p.EntryThreshold,
			p.ExitThreshold,
			p.TrainMetrics.NetProfit,
			p.ValidMetrics.NetProfit,
			p.TestMetrics.NetProfit,
			p.ValidMetrics.TradeCount,
			p.ValidMetrics.WinRate,
		))
	}

	return sb.String()
}
