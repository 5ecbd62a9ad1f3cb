package config

import "github.com/psycho789/bball-sub002/internal/domain"

// Default values for optional configuration fields.
const (
	DefaultDBPort                   = 5432
	DefaultDBSSLMode                = "prefer"
	DefaultMaxConns                 = 10
	DefaultFallbackSlippageCents    = 1.5
	DefaultForcedCloseSlippageCents = 2.0
	DefaultCacheTTLSeconds          = 3600
	DefaultCacheMaxEntries          = 256
	DefaultMaxPointsPerQuery        = 3600
	DefaultFetchTimeoutSeconds      = 10
	DefaultTrainRatio               = 0.6
	DefaultValidRatio               = 0.2
	DefaultLogLevel                 = "info"
	DefaultLogFormat                = "text"
)

func (c *Config) applyDefaults() {
	if c.Database.Postgres.Port == 0 {
		c.Database.Postgres.Port = DefaultDBPort
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.Database.Postgres.MaxConns == 0 {
		c.Database.Postgres.MaxConns = DefaultMaxConns
	}

	if c.Trading.BetAmountDollars == 0 {
		c.Trading.BetAmountDollars = domain.DefaultBetAmount
	}
	if c.Trading.FeeRate == 0 {
		c.Trading.FeeRate = domain.DefaultFeeRate
	}
	if c.Trading.MinHoldSeconds == 0 {
		c.Trading.MinHoldSeconds = domain.DefaultMinHoldSeconds
	}
	if c.Trading.FallbackSlippageCents == 0 {
		c.Trading.FallbackSlippageCents = DefaultFallbackSlippageCents
	}
	if c.Trading.ForcedCloseSlippageCents == 0 {
		c.Trading.ForcedCloseSlippageCents = DefaultForcedCloseSlippageCents
	}
	if c.Trading.AlignmentToleranceSecs == 0 {
		c.Trading.AlignmentToleranceSecs = domain.DefaultToleranceSeconds
	}

	if c.Candles.CacheTTLSeconds == 0 {
		c.Candles.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.Candles.CacheMaxEntries == 0 {
		c.Candles.CacheMaxEntries = DefaultCacheMaxEntries
	}
	if c.Candles.MaxPointsPerQuery == 0 {
		c.Candles.MaxPointsPerQuery = DefaultMaxPointsPerQuery
	}
	if c.Candles.FetchTimeoutSeconds == 0 {
		c.Candles.FetchTimeoutSeconds = DefaultFetchTimeoutSeconds
	}

	if c.Grid.TrainRatio == 0 {
		c.Grid.TrainRatio = DefaultTrainRatio
	}
	if c.Grid.ValidRatio == 0 {
		c.Grid.ValidRatio = DefaultValidRatio
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}
