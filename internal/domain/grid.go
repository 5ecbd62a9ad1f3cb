package domain

// ThresholdPair is one point of the entry/exit parameter lattice.
type ThresholdPair struct {
	EntryThreshold float64 // minimum divergence to open a position
	ExitThreshold  float64 // band the divergence must re-enter to close
}

// SplitMetrics aggregates simulation results over one game split.
type SplitMetrics struct {
	Games        int     // games in the split, skipped included
	SkippedGames int     // games excluded (alignment failure, too few snapshots)
	TradeCount   int     // total trades across the split
	NetProfit    float64 // sum of trade net profits
	WinRate      float64 // fraction of trades with positive net profit
	MaxDrawdown  float64 // worst peak-to-trough equity drop, trades in time order
}

// GridPoint holds the aggregated result for one threshold pair.
type GridPoint struct {
	EntryThreshold float64
	ExitThreshold  float64
	TrainMetrics   SplitMetrics
	ValidMetrics   SplitMetrics
	TestMetrics    SplitMetrics
}

// GridResult is the persisted output of a full grid search run.
type GridResult struct {
	RunID        string      // search run identifier
	Points       []GridPoint // every evaluated threshold pair
	Best         GridPoint   // best pair by validation net profit
	TrainGameIDs []string    // split membership, recorded for auditability
	ValidGameIDs []string
	TestGameIDs  []string
}

// Split name constants
const (
	SplitTrain = "train"
	SplitValid = "valid"
	SplitTest  = "test"
)
