package domain

// PositionSide identifies the direction of an open position.
type PositionSide string

// Position side constants
const (
	PositionLong  PositionSide = "long"  // bought home exposure at the ask
	PositionShort PositionSide = "short" // sold home exposure at the bid
)

// Position represents a single open position. At most one position is
// open per game per parameter combination; it is created by the signal
// engine and consumed exactly once by the accountant.
type Position struct {
	GameID            string       // game identifier
	Side              PositionSide // long or short
	EntryMicros       int64        // entry snapshot time (µs since epoch)
	EntryPrice        float64      // executed entry price (ask for long, bid for short)
	Contracts         float64      // contract count from risk-neutral sizing
	DivergenceAtEntry float64      // divergence that triggered entry
}

// Exit reason codes
const (
	ExitReasonThresholdCross = "THRESHOLD_CROSS"
	ExitReasonEndOfGame      = "END_OF_GAME"
)

// PriceSource tags how an execution price was obtained, so missing
// quotes flow through the accountant as penalized fallbacks instead of
// silently optimistic mids.
type PriceSource struct {
	Firm    bool    // true when a real quote side was available
	Price   float64 // executable price, penalty already applied when !Firm
	Mid     float64 // last known mid the fallback was derived from (when !Firm)
	Penalty float64 // penalty applied to the mid (when !Firm)
}

// FirmPrice builds a PriceSource from an available quote side.
func FirmPrice(price float64) PriceSource {
	return PriceSource{Firm: true, Price: price}
}

// FallbackPrice builds a penalized PriceSource from the last known mid.
// The penalty moves the price against the position: subtracted when
// selling, added when buying.
func FallbackPrice(mid, penalty float64, selling bool) PriceSource {
	p := mid + penalty
	if selling {
		p = mid - penalty
	}
	return PriceSource{Firm: false, Price: p, Mid: mid, Penalty: penalty}
}

// TradeRecord is the write-once record of a closed position.
type TradeRecord struct {
	TradeID        string // deterministic hash
	GameID         string // game identifier
	RunID          string // grid-search run the trade belongs to, empty for single runs
	Side           PositionSide
	EntryMicros    int64   // entry snapshot time (µs since epoch)
	ExitMicros     int64   // exit snapshot time (µs since epoch)
	EntryPrice     float64 // executed entry price
	ExitPrice      float64 // executed exit price
	Contracts      float64 // contract count
	GrossProfit    float64 // price movement * contracts, spread already paid in execution prices
	Fees           float64 // entry fee + exit fee
	Slippage       float64 // entry + exit slippage, plus forced-close penalty cost
	NetProfit      float64 // gross - fees - slippage, never clamped
	ExitReason     string  // THRESHOLD_CROSS | END_OF_GAME
	FallbackExit   bool    // exit priced from a penalized mid, not a firm quote
	GamePhase      string  // display-only phase label at entry
	EntryThreshold float64 // parameters the trade was produced under
	ExitThreshold  float64
}
