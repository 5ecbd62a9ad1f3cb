// Package accounting turns opened positions into closed trade records:
// risk-neutral contract sizing, execution at the touch, quadratic fees,
// optional slippage, and penalized fallback pricing when the market
// disappears before the position does.
package accounting

import (
	"errors"
	"log/slog"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/idhash"
)

// Accounting errors
var (
	ErrNoQuote     = errors.New("snapshot has no quote")
	ErrUnknownSide = errors.New("unknown position side")
)

// Accountant prices entries and exits for one parameter combination.
// It is stateless per trade and safe for concurrent use.
type Accountant struct {
	cfg    domain.SimConfig
	logger *slog.Logger
}

// New creates an Accountant. A nil logger falls back to slog.Default.
func New(cfg domain.SimConfig, logger *slog.Logger) *Accountant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accountant{cfg: cfg, logger: logger}
}

// Contracts returns the risk-neutral contract count for an entry at the
// given price: bet/price for longs and bet/(1-price) for shorts, so the
// maximum possible loss equals the bet for both sides. A short's worst
// case is price going to 1, not 0, which is why the short formula
// divides by the complement.
func (a *Accountant) Contracts(side domain.PositionSide, entryPrice float64) (float64, error) {
	switch side {
	case domain.PositionLong:
		return a.cfg.BetAmount / entryPrice, nil
	case domain.PositionShort:
		return a.cfg.BetAmount / (1 - entryPrice), nil
	default:
		return 0, ErrUnknownSide
	}
}

// Fee returns the exchange fee for one execution at the given price:
// rate * price * (1-price) * bet. Maximal at price 0.5, symmetric, and
// vanishing toward the extremes.
func (a *Accountant) Fee(price float64) float64 {
	return a.cfg.FeeRate * price * (1 - price) * a.cfg.BetAmount
}

// OpenPosition executes an entry on the given snapshot: longs buy at
// the ask, shorts sell at the bid. The snapshot must carry a firm
// quote; the signal engine never emits an entry without one.
func (a *Accountant) OpenPosition(snapshot *domain.Snapshot, side domain.PositionSide) (*domain.Position, error) {
	if !snapshot.HasQuote() {
		return nil, ErrNoQuote
	}

	entryPrice := *snapshot.MarketAsk
	if side == domain.PositionShort {
		entryPrice = *snapshot.MarketBid
	}

	contracts, err := a.Contracts(side, entryPrice)
	if err != nil {
		return nil, err
	}

	return &domain.Position{
		GameID:            snapshot.GameID,
		Side:              side,
		EntryMicros:       snapshot.TimestampMicros,
		EntryPrice:        entryPrice,
		Contracts:         contracts,
		DivergenceAtEntry: snapshot.Divergence(),
	}, nil
}

// ExitPrice selects the execution price for closing the position on the
// given snapshot. Longs sell at the bid and shorts buy at the ask; when
// the quote is missing the price falls back to the last known mid moved
// against the position by the configured penalty, and the event is
// logged.
func (a *Accountant) ExitPrice(side domain.PositionSide, snapshot *domain.Snapshot, lastMid float64) domain.PriceSource {
	selling := side == domain.PositionLong

	if snapshot.HasQuote() {
		if selling {
			return domain.FirmPrice(*snapshot.MarketBid)
		}
		return domain.FirmPrice(*snapshot.MarketAsk)
	}

	source := domain.FallbackPrice(lastMid, a.cfg.FallbackPenalty, selling)
	a.logger.Warn("missing quote at exit, using penalized fallback price",
		"game_id", snapshot.GameID,
		"side", side,
		"last_mid", lastMid,
		"penalty", a.cfg.FallbackPenalty,
		"price", source.Price,
	)
	return source
}

// CloseTrade books the closed position as a write-once trade record.
// Gross profit is pure price movement times contracts; the spread is
// already paid through the execution prices and is never charged again.
// Net profit is gross minus fees minus slippage, with no clamp.
func (a *Accountant) CloseTrade(position *domain.Position, exit domain.PriceSource, exitMicros int64, reason string) *domain.TradeRecord {
	gross := (exit.Price - position.EntryPrice) * position.Contracts
	if position.Side == domain.PositionShort {
		gross = (position.EntryPrice - exit.Price) * position.Contracts
	}

	fees := a.Fee(position.EntryPrice) + a.Fee(exit.Price)
	slippage := 2 * a.cfg.SlippageRate * a.cfg.BetAmount

	return &domain.TradeRecord{
		TradeID:        idhash.ComputeTradeID(position.GameID, a.cfg.EntryThreshold, a.cfg.ExitThreshold, position.EntryMicros),
		GameID:         position.GameID,
		Side:           position.Side,
		EntryMicros:    position.EntryMicros,
		ExitMicros:     exitMicros,
		EntryPrice:     position.EntryPrice,
		ExitPrice:      exit.Price,
		Contracts:      position.Contracts,
		GrossProfit:    gross,
		Fees:           fees,
		Slippage:       slippage,
		NetProfit:      gross - fees - slippage,
		ExitReason:     reason,
		FallbackExit:   !exit.Firm,
		EntryThreshold: a.cfg.EntryThreshold,
		ExitThreshold:  a.cfg.ExitThreshold,
	}
}

// ForcedClose books an end-of-game close of a still-open position at
// the final available price. The forced-close penalty is charged as
// extra slippage even when the final quote was firm, modeling the
// liquidity collapse at stream end.
func (a *Accountant) ForcedClose(position *domain.Position, final *domain.Snapshot, lastMid float64) *domain.TradeRecord {
	exit := a.ExitPrice(position.Side, final, lastMid)
	record := a.CloseTrade(position, exit, final.TimestampMicros, domain.ExitReasonEndOfGame)

	penaltyCost := a.cfg.ForcedClosePenalty * position.Contracts
	record.Slippage += penaltyCost
	record.NetProfit -= penaltyCost
	return record
}
