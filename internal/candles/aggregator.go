// Package candles converts raw execution ticks into OHLCV candles over
// bounded time windows, with a TTL+LRU cache in front for concurrent
// simulation workers.
package candles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// Errors returned by the aggregation service.
var (
	// ErrWindowTooLarge is returned when a query would produce more
	// candle points than the configured limit. The caller must narrow
	// the window; the service never degrades silently.
	ErrWindowTooLarge = errors.New("window too large for resolution")

	// ErrInvalidResolution is returned for non-positive resolutions.
	ErrInvalidResolution = errors.New("resolution must be positive")
)

const microsPerSecond = 1_000_000

// Aggregate groups ticks into sparse OHLCV candles at the given
// resolution. Ticks must be ordered by timestamp ASC with ties in
// arrival order; the first tick of a period is its open and the last
// its close. VWAP is sum(price*size)/sum(size) in integer arithmetic;
// a period whose ticks carry no volume takes its close as the VWAP.
// Periods without ticks produce no candle (no forward fill).
func Aggregate(ticks []*domain.Tick, resolutionSeconds int) ([]*domain.Candle, error) {
	if resolutionSeconds <= 0 {
		return nil, ErrInvalidResolution
	}
	if len(ticks) == 0 {
		return nil, nil
	}

	periodMicros := int64(resolutionSeconds) * microsPerSecond

	var result []*domain.Candle
	var current *domain.Candle
	var notional, volume uint64 // VWAP accumulators for the current period

	flush := func() {
		if current == nil {
			return
		}
		// A period of zero-size ticks has no traded volume; the close
		// stands in for the undefined VWAP.
		if volume == 0 {
			current.VWAPCents = current.CloseCents
		} else {
			current.VWAPCents = int(notional / volume)
		}
		result = append(result, current)
		current = nil
	}

	for _, t := range ticks {
		periodStart := (t.TimestampMicros / periodMicros) * periodMicros

		if current == nil || current.PeriodStartMicros != periodStart {
			flush()
			current = &domain.Candle{
				Ticker:            t.Ticker,
				PeriodStartMicros: periodStart,
				PeriodEndMicros:   periodStart + periodMicros,
				ResolutionSeconds: resolutionSeconds,
				OpenCents:         t.PriceCents,
				HighCents:         t.PriceCents,
				LowCents:          t.PriceCents,
				CloseCents:        t.PriceCents,
			}
			notional, volume = 0, 0
		}

		if t.PriceCents > current.HighCents {
			current.HighCents = t.PriceCents
		}
		if t.PriceCents < current.LowCents {
			current.LowCents = t.PriceCents
		}
		current.CloseCents = t.PriceCents
		current.Volume += uint64(t.Size)
		notional += uint64(t.PriceCents) * uint64(t.Size)
		volume += uint64(t.Size)
	}
	flush()

	return result, nil
}

// Service fetches ticks over bounded windows and aggregates them.
type Service struct {
	ticks        storage.TickStore
	maxPoints    int
	fetchTimeout time.Duration
}

// ServiceOptions contains configuration for creating a Service.
type ServiceOptions struct {
	TickStore    storage.TickStore
	MaxPoints    int           // max candle points per query, default 3600
	FetchTimeout time.Duration // applies to the tick fetch only, default 10s
}

// Default guardrails
const (
	DefaultMaxPoints    = 3600
	DefaultFetchTimeout = 10 * time.Second
)

// NewService creates an aggregation service.
func NewService(opts ServiceOptions) *Service {
	s := &Service{
		ticks:        opts.TickStore,
		maxPoints:    opts.MaxPoints,
		fetchTimeout: opts.FetchTimeout,
	}
	if s.maxPoints <= 0 {
		s.maxPoints = DefaultMaxPoints
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = DefaultFetchTimeout
	}
	return s
}

// Candles fetches ticks for [startMicros, endMicros) and aggregates
// them at the given resolution. The window is validated before any
// fetch happens; oversized windows fail with ErrWindowTooLarge.
func (s *Service) Candles(ctx context.Context, ticker string, resolutionSeconds int, startMicros, endMicros int64) ([]*domain.Candle, error) {
	if resolutionSeconds <= 0 {
		return nil, ErrInvalidResolution
	}
	if endMicros <= startMicros {
		return nil, storage.ErrInvalidInput
	}

	points := (endMicros - startMicros) / (int64(resolutionSeconds) * microsPerSecond)
	if points > int64(s.maxPoints) {
		return nil, fmt.Errorf("%w: %d points at %ds resolution, limit %d",
			ErrWindowTooLarge, points, resolutionSeconds, s.maxPoints)
	}

	// The timeout covers the warehouse fetch only; in-memory
	// aggregation runs to completion once ticks are loaded.
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	ticks, err := s.ticks.GetByTimeRange(fetchCtx, ticker, startMicros, endMicros)
	if err != nil {
		return nil, fmt.Errorf("fetch ticks: %w", err)
	}

	return Aggregate(ticks, resolutionSeconds)
}
