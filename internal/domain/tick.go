package domain

// TakerSide identifies which side of the book the aggressor hit.
type TakerSide string

// Taker side constants
const (
	TakerSideYes TakerSide = "yes"
	TakerSideNo  TakerSide = "no"
)

// Tick represents a single executed trade on a binary market.
// Ticks are produced externally and ordered by TimestampMicros; the
// ordering is not guaranteed strictly increasing, ties are broken by
// arrival order.
type Tick struct {
	Ticker          string    // market ticker (e.g., "NBA-LAL-BOS-H1")
	TimestampMicros int64     // execution time (µs since epoch)
	PriceCents      int       // trade price in cents, 0..100
	Size            uint32    // number of contracts
	TakerSide       TakerSide // aggressor side
}

// Quote represents an official market quote sample for one game side.
// Quotes come from the warehouse at roughly one-minute cadence and are
// expressed in the quoted market's own probability space.
type Quote struct {
	GameID          string  // game identifier
	Ticker          string  // market ticker the quote came from
	TimestampMicros int64   // sample time (µs since epoch)
	Bid             float64 // best bid as probability, 0..1
	Ask             float64 // best ask as probability, 0..1
	Side            Side    // which team's market was quoted
}

// ProbabilityPoint is one sample of the reference win-probability
// stream, always expressed for the home team.
type ProbabilityPoint struct {
	GameID          string  // game identifier
	TimestampMicros int64   // sample time (µs since epoch)
	HomeWinProb     float64 // reference probability, 0..1
	ElapsedSeconds  int     // game clock elapsed at the sample, for phase labels
}
