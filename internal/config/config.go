// Package config loads the backtest configuration from YAML.
package config

import "github.com/psycho789/bball-sub002/internal/domain"

// Config is the root configuration for the backtest and grid search
// commands.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Trading  TradingConfig  `yaml:"trading"`
	Candles  CandlesConfig  `yaml:"candles"`
	Grid     GridConfig     `yaml:"grid"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds the storage backends. Postgres serves the tick
// and quote warehouse; ClickHouse holds trade records and grid results.
type DatabaseConfig struct {
	Postgres   PostgresConfig   `yaml:"postgres"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// PostgresConfig holds a single Postgres connection.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
}

// ClickHouseConfig holds a single ClickHouse connection.
type ClickHouseConfig struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TradingConfig holds the simulation parameters. Penalties are given in
// cents to match how traders talk about them; SimConfig converts to
// probability units.
type TradingConfig struct {
	BetAmountDollars         float64 `yaml:"bet_amount_dollars"`
	FeeRate                  float64 `yaml:"fee_rate"`
	EntryThreshold           float64 `yaml:"entry_threshold"`
	ExitThreshold            float64 `yaml:"exit_threshold"`
	MinHoldSeconds           int     `yaml:"min_hold_seconds"`
	SlippageRate             float64 `yaml:"slippage_rate"`
	FallbackSlippageCents    float64 `yaml:"fallback_slippage_cents"`
	ForcedCloseSlippageCents float64 `yaml:"forced_close_slippage_cents"`
	AlignmentToleranceSecs   int     `yaml:"alignment_tolerance_seconds"`
}

// CandlesConfig holds the aggregation service and cache settings.
type CandlesConfig struct {
	CacheTTLSeconds     int `yaml:"cache_ttl_seconds"`
	CacheMaxEntries     int `yaml:"cache_max_entries"`
	MaxPointsPerQuery   int `yaml:"max_points_per_query"`
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
}

// GridConfig holds the grid search sweep definition.
type GridConfig struct {
	EntryThresholds []float64 `yaml:"entry_thresholds"`
	ExitThresholds  []float64 `yaml:"exit_thresholds"`
	TrainRatio      float64   `yaml:"train_ratio"`
	ValidRatio      float64   `yaml:"valid_ratio"`
	Workers         int       `yaml:"workers"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SimConfig converts the trading section into the simulation parameter
// set, translating cent penalties into probability units.
func (c *Config) SimConfig() domain.SimConfig {
	return domain.SimConfig{
		BetAmount:          c.Trading.BetAmountDollars,
		FeeRate:            c.Trading.FeeRate,
		EntryThreshold:     c.Trading.EntryThreshold,
		ExitThreshold:      c.Trading.ExitThreshold,
		MinHoldSeconds:     c.Trading.MinHoldSeconds,
		SlippageRate:       c.Trading.SlippageRate,
		FallbackPenalty:    c.Trading.FallbackSlippageCents / 100,
		ForcedClosePenalty: c.Trading.ForcedCloseSlippageCents / 100,
		ToleranceSeconds:   c.Trading.AlignmentToleranceSecs,
	}
}

// ThresholdPairs expands the grid section into the full cartesian
// lattice of entry/exit pairs, in declaration order.
func (c *Config) ThresholdPairs() []domain.ThresholdPair {
	pairs := make([]domain.ThresholdPair, 0, len(c.Grid.EntryThresholds)*len(c.Grid.ExitThresholds))
	for _, entry := range c.Grid.EntryThresholds {
		for _, exit := range c.Grid.ExitThresholds {
			pairs = append(pairs, domain.ThresholdPair{EntryThreshold: entry, ExitThreshold: exit})
		}
	}
	return pairs
}
