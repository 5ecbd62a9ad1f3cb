package domain

// Candle represents OHLCV data aggregated from ticks at a fixed
// resolution. Candles are sparse: one exists only for periods that saw
// at least one tick. All prices are integer cents; VWAP uses integer
// division and never touches floating point.
type Candle struct {
	Ticker            string // market ticker
	PeriodStartMicros int64  // window start (µs since epoch, inclusive)
	PeriodEndMicros   int64  // window end (µs since epoch, exclusive)
	ResolutionSeconds int    // aggregation resolution
	OpenCents         int    // first trade price in window (arrival order breaks ties)
	HighCents         int    // max trade price in window
	LowCents          int    // min trade price in window
	CloseCents        int    // last trade price in window
	Volume            uint64 // sum of trade sizes
	VWAPCents         int    // sum(price*size) / sum(size), integer division
}

// Supported candle resolutions (in seconds)
const (
	CandleResolution1Sec = 1
	CandleResolution1Min = 60
)
