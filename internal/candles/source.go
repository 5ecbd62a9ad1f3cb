package candles

import (
	"context"
	"errors"
	"fmt"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// ErrReadOnly is returned when a write is attempted on a QuoteSource.
var ErrReadOnly = errors.New("candle quote source is read-only")

// QuoteSource adapts cached candle aggregation to the QuoteStore read
// interface, so the simulation runner can consume tick-derived quotes
// in place of the official per-minute samples. Each game's aggregation
// window is derived from its reference probability series.
type QuoteSource struct {
	cache             *Cache
	probs             storage.ProbabilityStore
	ticker            func(gameID string) string
	resolutionSeconds int
	spread            float64
	side              domain.Side
}

// QuoteSourceOptions contains configuration for creating a QuoteSource.
type QuoteSourceOptions struct {
	Cache             *Cache
	ProbabilityStore  storage.ProbabilityStore
	Ticker            func(gameID string) string // default: the game ID itself
	ResolutionSeconds int                        // default 60
	Spread            float64                    // synthetic spread around the close, default 0.02
	Side              domain.Side                // default home
}

// NewQuoteSource creates a candle-backed quote source.
func NewQuoteSource(opts QuoteSourceOptions) *QuoteSource {
	s := &QuoteSource{
		cache:             opts.Cache,
		probs:             opts.ProbabilityStore,
		ticker:            opts.Ticker,
		resolutionSeconds: opts.ResolutionSeconds,
		spread:            opts.Spread,
		side:              opts.Side,
	}
	if s.ticker == nil {
		s.ticker = func(gameID string) string { return gameID }
	}
	if s.resolutionSeconds <= 0 {
		s.resolutionSeconds = 60
	}
	if s.spread <= 0 {
		s.spread = 0.02
	}
	if s.side == "" {
		s.side = domain.SideHome
	}
	return s
}

var _ storage.QuoteStore = (*QuoteSource)(nil)

// InsertBulk always fails; quotes are derived, never stored.
func (s *QuoteSource) InsertBulk(ctx context.Context, quotes []*domain.Quote) error {
	return ErrReadOnly
}

// GetByGameID aggregates the game's ticks over the span of its
// reference probability series and converts the candle closes into
// synthetic quotes. A game with no reference points yields no quotes.
func (s *QuoteSource) GetByGameID(ctx context.Context, gameID string) ([]*domain.Quote, error) {
	points, err := s.probs.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load reference window: %w", err)
	}
	if len(points) == 0 {
		return nil, nil
	}

	periodMicros := int64(s.resolutionSeconds) * microsPerSecond
	startMicros := points[0].TimestampMicros
	// End of the period containing the last reference point, so the
	// final candle's close is still usable by the aligner.
	endMicros := (points[len(points)-1].TimestampMicros/periodMicros + 1) * periodMicros

	series, err := s.cache.Candles(ctx, s.ticker(gameID), s.resolutionSeconds, startMicros, endMicros)
	if err != nil {
		return nil, fmt.Errorf("aggregate candles: %w", err)
	}

	return QuotePoints(series, gameID, s.side, s.spread), nil
}
