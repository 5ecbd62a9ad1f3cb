// Package reporting renders closed trades and grid search results as
// JSON, CSV and Markdown for downstream consumers.
package reporting

// TradeRow is one trade in the JSON result contract.
type TradeRow struct {
	TradeID        string  `json:"trade_id"`
	GameID         string  `json:"game_id"`
	RunID          string  `json:"run_id,omitempty"`
	Side           string  `json:"side"`
	EntryMicros    int64   `json:"entry_timestamp_micros"`
	ExitMicros     int64   `json:"exit_timestamp_micros"`
	EntryPrice     float64 `json:"entry_price"`
	ExitPrice      float64 `json:"exit_price"`
	Contracts      float64 `json:"contracts"`
	GrossProfit    float64 `json:"gross_profit"`
	Fees           float64 `json:"fees"`
	Slippage       float64 `json:"slippage"`
	NetProfit      float64 `json:"net_profit"`
	ExitReason     string  `json:"exit_reason"`
	FallbackExit   bool    `json:"fallback_exit"`
	GamePhase      string  `json:"game_phase,omitempty"`
	EntryThreshold float64 `json:"entry_threshold"`
	ExitThreshold  float64 `json:"exit_threshold"`
}

// TradeReport is the per-trade JSON document.
type TradeReport struct {
	GeneratedAtMicros int64      `json:"generated_at_micros"`
	TradeCount        int        `json:"trade_count"`
	Trades            []TradeRow `json:"trades"`
}

// SplitMetricsRow mirrors one split's aggregate metrics.
type SplitMetricsRow struct {
	Games        int     `json:"games"`
	SkippedGames int     `json:"skipped_games"`
	TradeCount   int     `json:"trade_count"`
	NetProfit    float64 `json:"net_profit"`
	WinRate      float64 `json:"win_rate"`
	MaxDrawdown  float64 `json:"max_drawdown"`
}

// GridPointRow is one threshold pair in the JSON result contract.
type GridPointRow struct {
	EntryThreshold float64         `json:"entry_threshold"`
	ExitThreshold  float64         `json:"exit_threshold"`
	TrainMetrics   SplitMetricsRow `json:"train_metrics"`
	ValidMetrics   SplitMetricsRow `json:"valid_metrics"`
	TestMetrics    SplitMetricsRow `json:"test_metrics"`
}

// GridReport is the grid search JSON document. Best carries the pair
// chosen on validation; its test metrics are the held-out estimate.
type GridReport struct {
	RunID             string         `json:"run_id"`
	GeneratedAtMicros int64          `json:"generated_at_micros"`
	Points            []GridPointRow `json:"points"`
	Best              GridPointRow   `json:"best"`
	TrainGameIDs      []string       `json:"train_game_ids"`
	ValidGameIDs      []string       `json:"valid_game_ids"`
	TestGameIDs       []string       `json:"test_game_ids"`
}
