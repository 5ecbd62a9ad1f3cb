package gridsearch

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/metrics"
	"github.com/psycho789/bball-sub002/internal/observability"
	"github.com/psycho789/bball-sub002/internal/simulation"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// ErrNoThresholdPairs is returned when the parameter grid is empty.
var ErrNoThresholdPairs = errors.New("no threshold pairs to search")

// Optimizer runs the aligner/signal/accounting pipeline for every
// (game, threshold pair) combination on a bounded worker pool and
// aggregates the results per split.
type Optimizer struct {
	quoteStore storage.QuoteStore
	probStore  storage.ProbabilityStore
	tradeStore storage.TradeStore
	gridStore  storage.GridResultStore
	baseConfig domain.SimConfig
	workers    int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// OptimizerOptions contains configuration for creating an Optimizer.
// TradeStore and GridResultStore are optional; when set, every trade of
// the run and the final aggregate are persisted. Workers <= 0 uses
// twice the CPU count. BaseConfig supplies everything except the
// thresholds, which come from the grid.
type OptimizerOptions struct {
	QuoteStore       storage.QuoteStore
	ProbabilityStore storage.ProbabilityStore
	TradeStore       storage.TradeStore
	GridResultStore  storage.GridResultStore
	BaseConfig       domain.SimConfig
	Workers          int
	Logger           *slog.Logger
	Metrics          *observability.Metrics
}

// NewOptimizer creates a grid search optimizer.
func NewOptimizer(opts OptimizerOptions) *Optimizer {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{
		quoteStore: opts.QuoteStore,
		probStore:  opts.ProbabilityStore,
		tradeStore: opts.TradeStore,
		gridStore:  opts.GridResultStore,
		baseConfig: opts.BaseConfig,
		workers:    workers,
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

// task is one (threshold pair, game) simulation unit.
type task struct {
	pairIdx int
	split   string
	gameID  string
}

// taskResult carries a finished simulation back to the aggregator.
type taskResult struct {
	pairIdx int
	split   string
	result  *simulation.GameResult
	err     error
}

// Search partitions gameIDs (which callers pass in time order), runs
// every threshold pair over every game, and returns the aggregated
// grid. The disjointness check runs before any simulation; a leaking
// split aborts the whole search. Per-game failures inside a simulation
// only skip that game and are counted in the split metrics.
func (o *Optimizer) Search(ctx context.Context, gameIDs []string, pairs []domain.ThresholdPair, ratios SplitRatios) (*domain.GridResult, error) {
	if len(pairs) == 0 {
		return nil, ErrNoThresholdPairs
	}

	train, valid, test, err := Partition(gameIDs, ratios)
	if err != nil {
		return nil, err
	}
	if err := ValidateDisjoint(train, valid, test); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	started := time.Now()
	o.logger.Info("starting grid search",
		"run_id", runID,
		"pairs", len(pairs),
		"train_games", len(train),
		"valid_games", len(valid),
		"test_games", len(test),
		"workers", o.workers,
	)

	splits := map[string][]string{
		domain.SplitTrain: train,
		domain.SplitValid: valid,
		domain.SplitTest:  test,
	}

	taskCount := len(pairs) * len(gameIDs)
	taskCh := make(chan task, taskCount)
	resultCh := make(chan taskResult, taskCount)

	runner := simulation.NewRunner(simulation.RunnerOptions{
		QuoteStore:       o.quoteStore,
		ProbabilityStore: o.probStore,
		Logger:           o.logger,
	})

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				cfg := o.baseConfig
				cfg.EntryThreshold = pairs[t.pairIdx].EntryThreshold
				cfg.ExitThreshold = pairs[t.pairIdx].ExitThreshold

				result, err := runner.Run(ctx, t.gameID, cfg)
				resultCh <- taskResult{pairIdx: t.pairIdx, split: t.split, result: result, err: err}
			}
		}()
	}

	for pairIdx := range pairs {
		for split, ids := range splits {
			for _, gameID := range ids {
				taskCh <- task{pairIdx: pairIdx, split: split, gameID: gameID}
			}
		}
	}
	close(taskCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Per pair, per split accumulation.
	type bucket struct {
		trades  []*domain.TradeRecord
		skipped int
	}
	buckets := make(map[int]map[string]*bucket, len(pairs))
	for i := range pairs {
		buckets[i] = map[string]*bucket{
			domain.SplitTrain: {},
			domain.SplitValid: {},
			domain.SplitTest:  {},
		}
	}

	var allTrades []*domain.TradeRecord
	var firstErr error
	simulated, skipped := 0, 0
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}

		b := buckets[r.pairIdx][r.split]
		if r.result.Skipped {
			b.skipped++
			skipped++
			continue
		}
		simulated++
		for _, trade := range r.result.Trades {
			trade.RunID = runID
		}
		b.trades = append(b.trades, r.result.Trades...)
		allTrades = append(allTrades, r.result.Trades...)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	result := &domain.GridResult{
		RunID:        runID,
		Points:       make([]domain.GridPoint, len(pairs)),
		TrainGameIDs: train,
		ValidGameIDs: valid,
		TestGameIDs:  test,
	}

	bestIdx := 0
	for i, pair := range pairs {
		point := domain.GridPoint{
			EntryThreshold: pair.EntryThreshold,
			ExitThreshold:  pair.ExitThreshold,
			TrainMetrics:   metrics.Compute(buckets[i][domain.SplitTrain].trades, len(train), buckets[i][domain.SplitTrain].skipped),
			ValidMetrics:   metrics.Compute(buckets[i][domain.SplitValid].trades, len(valid), buckets[i][domain.SplitValid].skipped),
			TestMetrics:    metrics.Compute(buckets[i][domain.SplitTest].trades, len(test), buckets[i][domain.SplitTest].skipped),
		}
		result.Points[i] = point

		if point.ValidMetrics.NetProfit > result.Points[bestIdx].ValidMetrics.NetProfit {
			bestIdx = i
		}
	}
	result.Best = result.Points[bestIdx]

	if o.metrics != nil {
		o.metrics.GamesSimulated.Add(float64(simulated))
		o.metrics.GamesSkipped.Add(float64(skipped))
		o.metrics.GridPointsEvaluated.Add(float64(len(pairs)))
		o.metrics.GridSearchesTotal.Inc()
		o.metrics.GridSearchDuration.Observe(time.Since(started).Seconds())

		fallbacks, forced := 0, 0
		for _, trade := range allTrades {
			if trade.FallbackExit {
				fallbacks++
			}
			if trade.ExitReason == domain.ExitReasonEndOfGame {
				forced++
			}
		}
		o.metrics.RecordTrades(len(allTrades), fallbacks, forced)
	}

	o.logger.Info("grid search complete",
		"run_id", runID,
		"best_entry", result.Best.EntryThreshold,
		"best_exit", result.Best.ExitThreshold,
		"best_valid_net", result.Best.ValidMetrics.NetProfit,
		"test_net", result.Best.TestMetrics.NetProfit,
	)

	if o.tradeStore != nil && len(allTrades) > 0 {
		if err := o.tradeStore.InsertBulk(ctx, allTrades); err != nil {
			return nil, err
		}
	}
	if o.gridStore != nil {
		if err := o.gridStore.Insert(ctx, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}
