package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Trading.BetAmountDollars <= 0 {
		return errors.New("trading.bet_amount_dollars must be > 0")
	}
	if c.Trading.FeeRate < 0 {
		return errors.New("trading.fee_rate must be >= 0")
	}
	if c.Trading.EntryThreshold <= 0 || c.Trading.EntryThreshold >= 1 {
		return fmt.Errorf("trading.entry_threshold must be in (0, 1), got %f", c.Trading.EntryThreshold)
	}
	if c.Trading.ExitThreshold <= 0 || c.Trading.ExitThreshold >= 1 {
		return fmt.Errorf("trading.exit_threshold must be in (0, 1), got %f", c.Trading.ExitThreshold)
	}
	if c.Trading.MinHoldSeconds < 0 {
		return errors.New("trading.min_hold_seconds must be >= 0")
	}
	if c.Trading.SlippageRate < 0 {
		return errors.New("trading.slippage_rate must be >= 0")
	}
	if c.Trading.AlignmentToleranceSecs < 1 {
		return errors.New("trading.alignment_tolerance_seconds must be >= 1")
	}

	if c.Candles.MaxPointsPerQuery < 1 {
		return errors.New("candles.max_points_per_query must be >= 1")
	}
	if c.Candles.CacheMaxEntries < 1 {
		return errors.New("candles.cache_max_entries must be >= 1")
	}

	if c.Grid.TrainRatio <= 0 || c.Grid.ValidRatio <= 0 || c.Grid.TrainRatio+c.Grid.ValidRatio >= 1 {
		return fmt.Errorf("grid ratios must be positive and sum below 1, got train=%f valid=%f",
			c.Grid.TrainRatio, c.Grid.ValidRatio)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}
