package domain

// SimConfig carries the per-simulation trading parameters. All price
// penalties are expressed in probability units (1¢ = 0.01).
type SimConfig struct {
	BetAmount          float64 // dollars at risk per position
	FeeRate            float64 // exchange fee coefficient for fee = rate*p*(1-p)*bet
	EntryThreshold     float64 // minimum divergence to open
	ExitThreshold      float64 // band to re-enter before closing
	MinHoldSeconds     int     // minimum holding period before an exit may fire
	SlippageRate       float64 // slippage = rate*bet at entry and exit, 0 disables
	FallbackPenalty    float64 // penalty applied to the mid when a quote side is missing
	ForcedClosePenalty float64 // extra penalty on end-of-game forced closes
	ToleranceSeconds   int     // max quote age accepted during alignment
}

// Default trading parameters
const (
	DefaultBetAmount          = 100.0
	DefaultFeeRate            = 0.07 // Kalshi-style quadratic fee coefficient
	DefaultMinHoldSeconds     = 30
	DefaultSlippageRate       = 0.0   // disabled
	DefaultFallbackPenalty    = 0.015 // 1.5¢
	DefaultForcedClosePenalty = 0.02  // 2¢
	DefaultToleranceSeconds   = 60
)

// DefaultSimConfig returns a SimConfig with the documented defaults and
// the given thresholds.
func DefaultSimConfig(entry, exit float64) SimConfig {
	return SimConfig{
		BetAmount:          DefaultBetAmount,
		FeeRate:            DefaultFeeRate,
		EntryThreshold:     entry,
		ExitThreshold:      exit,
		MinHoldSeconds:     DefaultMinHoldSeconds,
		SlippageRate:       DefaultSlippageRate,
		FallbackPenalty:    DefaultFallbackPenalty,
		ForcedClosePenalty: DefaultForcedClosePenalty,
		ToleranceSeconds:   DefaultToleranceSeconds,
	}
}
