package candles

import (
	"github.com/psycho789/bball-sub002/internal/domain"
)

// QuotePoints converts candles into synthetic market quotes for the
// aligner, giving it a finer-grained price source than the official
// per-minute samples. The candle close becomes the mid; a synthetic
// spread is laid symmetrically around it and clamped to [0, 1].
func QuotePoints(candleSeries []*domain.Candle, gameID string, side domain.Side, spread float64) []*domain.Quote {
	if len(candleSeries) == 0 {
		return nil
	}

	half := spread / 2
	result := make([]*domain.Quote, 0, len(candleSeries))
	for _, c := range candleSeries {
		mid := float64(c.CloseCents) / 100
		result = append(result, &domain.Quote{
			GameID:          gameID,
			Ticker:          c.Ticker,
			TimestampMicros: c.PeriodEndMicros,
			Bid:             clamp01(mid - half),
			Ask:             clamp01(mid + half),
			Side:            side,
		})
	}

	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
