package domain

// Side identifies which team a market quote prices.
type Side string

// Side constants
const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Snapshot is one aligned observation of the reference probability and
// the market quote, always expressed in home probability space. Bid and
// Ask are nil when no quote existed within the alignment tolerance;
// such snapshots are retained for display but never trade.
type Snapshot struct {
	GameID          string   // game identifier
	TimestampMicros int64    // reference sample time (µs since epoch)
	ReferenceProb   float64  // home win probability from the oracle, 0..1
	MarketBid       *float64 // home-space bid, nil when no quote in tolerance
	MarketAsk       *float64 // home-space ask, nil when no quote in tolerance
	ElapsedSeconds  int      // game clock elapsed, display metadata only
}

// HasQuote reports whether both sides of the market quote are present.
func (s *Snapshot) HasQuote() bool {
	return s.MarketBid != nil && s.MarketAsk != nil
}

// Mid returns the market mid price. Only valid when HasQuote is true.
func (s *Snapshot) Mid() float64 {
	return (*s.MarketBid + *s.MarketAsk) / 2
}

// Divergence returns reference probability minus market mid.
// Only valid when HasQuote is true.
func (s *Snapshot) Divergence() float64 {
	return s.ReferenceProb - s.Mid()
}

// HomeQuote converts a quote into home probability space.
// Away-side quotes are complemented AND swapped: the home bid is what a
// buyer of home exposure gets by selling the away side, so
// homeBid = 1 - awayAsk and homeAsk = 1 - awayBid. Complementing
// without swapping inverts the spread sign.
func HomeQuote(q *Quote) (bid, ask float64) {
	if q.Side == SideAway {
		return 1 - q.Ask, 1 - q.Bid
	}
	return q.Bid, q.Ask
}
