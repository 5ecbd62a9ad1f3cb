// Package align merges the reference win-probability stream and the
// market quote stream into one ordered sequence of snapshots, all in
// home probability space.
package align

import (
	"errors"
	"sort"

	"github.com/psycho789/bball-sub002/internal/domain"
)

// Alignment errors.
var (
	// ErrEmptyReferenceStream is returned when a game has no reference
	// probability points at all. A game without quotes degrades to
	// quoteless snapshots instead of erroring.
	ErrEmptyReferenceStream = errors.New("empty reference stream")
)

const microsPerSecond = 1_000_000

// Align produces one snapshot per reference update. Each snapshot
// carries the most recent market quote at or before the reference
// timestamp, if one exists within toleranceSeconds; otherwise bid and
// ask are nil and the snapshot is display-only. Away-side quotes are
// complemented and swapped into home space before use. Output is
// deduplicated by timestamp (last value wins) and sorted ascending.
func Align(reference []*domain.ProbabilityPoint, market []*domain.Quote, toleranceSeconds int) ([]*domain.Snapshot, error) {
	if len(reference) == 0 {
		return nil, ErrEmptyReferenceStream
	}

	ref := make([]*domain.ProbabilityPoint, len(reference))
	copy(ref, reference)
	sort.SliceStable(ref, func(i, j int) bool {
		return ref[i].TimestampMicros < ref[j].TimestampMicros
	})

	quotes := make([]*domain.Quote, len(market))
	copy(quotes, market)
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].TimestampMicros < quotes[j].TimestampMicros
	})

	toleranceMicros := int64(toleranceSeconds) * microsPerSecond

	var result []*domain.Snapshot
	qi := 0
	for _, p := range ref {
		// Advance to the last quote at or before the reference time.
		for qi < len(quotes) && quotes[qi].TimestampMicros <= p.TimestampMicros {
			qi++
		}

		snapshot := &domain.Snapshot{
			GameID:          p.GameID,
			TimestampMicros: p.TimestampMicros,
			ReferenceProb:   p.HomeWinProb,
			ElapsedSeconds:  p.ElapsedSeconds,
		}

		if qi > 0 {
			q := quotes[qi-1]
			if p.TimestampMicros-q.TimestampMicros <= toleranceMicros {
				bid, ask := domain.HomeQuote(q)
				snapshot.MarketBid = &bid
				snapshot.MarketAsk = &ask
			}
		}

		// Dedupe by timestamp: the later reference value wins.
		if n := len(result); n > 0 && result[n-1].TimestampMicros == snapshot.TimestampMicros {
			result[n-1] = snapshot
			continue
		}
		result = append(result, snapshot)
	}

	return result, nil
}
