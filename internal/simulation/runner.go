// Package simulation runs the full per-game pipeline: load streams,
// align, walk the signal machine, and book trades. One game is strictly
// sequential; concurrency lives above, in the grid searcher.
package simulation

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/psycho789/bball-sub002/internal/accounting"
	"github.com/psycho789/bball-sub002/internal/align"
	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/signal"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// ErrInsufficientData marks a game with too few quoted snapshots to
// trade. Callers skip and count such games instead of failing a batch.
var ErrInsufficientData = errors.New("too few aligned snapshots to trade")

// MinTradableSnapshots is the minimum number of quoted snapshots a game
// needs before the signal machine is given a chance to run.
const MinTradableSnapshots = 2

// GameResult is the outcome of simulating one game. Skipped games carry
// a reason and no trades.
type GameResult struct {
	GameID     string
	Trades     []*domain.TradeRecord
	Snapshots  int
	Skipped    bool
	SkipReason string
}

// Runner loads game streams from storage and simulates them. All
// fetches happen before the simulation loop; the loop itself touches
// memory only.
type Runner struct {
	quoteStore storage.QuoteStore
	probStore  storage.ProbabilityStore
	tradeStore storage.TradeStore
	logger     *slog.Logger
}

// RunnerOptions contains configuration for creating a Runner.
// TradeStore is optional; when nil, trades are returned but not
// persisted.
type RunnerOptions struct {
	QuoteStore       storage.QuoteStore
	ProbabilityStore storage.ProbabilityStore
	TradeStore       storage.TradeStore
	Logger           *slog.Logger
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		quoteStore: opts.QuoteStore,
		probStore:  opts.ProbabilityStore,
		tradeStore: opts.TradeStore,
		logger:     logger,
	}
}

// Run simulates one game end to end: both streams are loaded
// concurrently, aligned, and fed through the signal machine. Alignment
// failures and games with insufficient data produce a skipped result,
// not an error; only storage failures are returned as errors.
func (r *Runner) Run(ctx context.Context, gameID string, cfg domain.SimConfig) (*GameResult, error) {
	var (
		quotes []*domain.Quote
		points []*domain.ProbabilityPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quotes, err = r.quoteStore.GetByGameID(gctx, gameID)
		return err
	})
	g.Go(func() error {
		var err error
		points, err = r.probStore.GetByGameID(gctx, gameID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshots, err := align.Align(points, quotes, cfg.ToleranceSeconds)
	if err != nil {
		r.logger.Warn("skipping game, alignment failed", "game_id", gameID, "error", err)
		return &GameResult{GameID: gameID, Skipped: true, SkipReason: err.Error()}, nil
	}

	trades, err := Simulate(gameID, snapshots, cfg, r.logger)
	if errors.Is(err, ErrInsufficientData) {
		r.logger.Warn("skipping game, insufficient data", "game_id", gameID, "snapshots", len(snapshots))
		return &GameResult{GameID: gameID, Snapshots: len(snapshots), Skipped: true, SkipReason: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}

	if r.tradeStore != nil && len(trades) > 0 {
		if err := r.tradeStore.InsertBulk(ctx, trades); err != nil {
			return nil, err
		}
	}

	return &GameResult{GameID: gameID, Trades: trades, Snapshots: len(snapshots)}, nil
}

// Simulate walks aligned snapshots through the signal machine and books
// every resulting trade. A position still open when the stream ends is
// force-closed at the final snapshot with the forced-close penalty.
// Returns ErrInsufficientData when fewer than MinTradableSnapshots
// snapshots carry a quote.
func Simulate(gameID string, snapshots []*domain.Snapshot, cfg domain.SimConfig, logger *slog.Logger) ([]*domain.TradeRecord, error) {
	quoted := 0
	for _, s := range snapshots {
		if s.HasQuote() {
			quoted++
		}
	}
	if quoted < MinTradableSnapshots {
		return nil, ErrInsufficientData
	}

	engine := signal.NewEngine(cfg.EntryThreshold, cfg.ExitThreshold, cfg.MinHoldSeconds)
	accountant := accounting.New(cfg, logger)

	state := signal.NewState()
	var (
		position   *domain.Position
		entryPhase string
		lastMid    float64
		trades     []*domain.TradeRecord
	)

	for _, snapshot := range snapshots {
		next, action := engine.Step(state, snapshot)

		switch action {
		case signal.ActionEnterLong, signal.ActionEnterShort:
			side := domain.PositionLong
			if action == signal.ActionEnterShort {
				side = domain.PositionShort
			}
			opened, err := accountant.OpenPosition(snapshot, side)
			if err != nil {
				return nil, err
			}
			position = opened
			entryPhase = domain.PhaseLabel(snapshot.ElapsedSeconds)

		case signal.ActionExit:
			exit := accountant.ExitPrice(position.Side, snapshot, lastMid)
			record := accountant.CloseTrade(position, exit, snapshot.TimestampMicros, domain.ExitReasonThresholdCross)
			record.GamePhase = entryPhase
			trades = append(trades, record)
			position = nil
		}

		if snapshot.HasQuote() {
			lastMid = snapshot.Mid()
		}
		state = next
	}

	if position != nil {
		final := snapshots[len(snapshots)-1]
		record := accountant.ForcedClose(position, final, lastMid)
		record.GamePhase = entryPhase
		trades = append(trades, record)
	}

	return trades, nil
}
