package clickhouse

import (
	"context"
	"fmt"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// GridResultStore implements storage.GridResultStore using ClickHouse.
// A run is persisted as one row per grid point plus one run row that
// records split membership and the selected best pair.
type GridResultStore struct {
	conn *Conn
}

// NewGridResultStore creates a new GridResultStore.
func NewGridResultStore(conn *Conn) *GridResultStore {
	return &GridResultStore{conn: conn}
}

// Compile-time interface check.
var _ storage.GridResultStore = (*GridResultStore)(nil)

// Insert adds a full run result. Returns ErrDuplicateKey if run_id exists.
func (s *GridResultStore) Insert(ctx context.Context, r *domain.GridResult) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM grid_runs WHERE run_id = ?`, r.RunID).Scan(&count)
	if err != nil {
		return fmt.Errorf("count runs: %w", err)
	}
	if count > 0 {
		return storage.ErrDuplicateKey
	}

	err = s.conn.Exec(ctx, `
		INSERT INTO grid_runs (
			run_id, best_entry_threshold, best_exit_threshold,
			train_game_ids, valid_game_ids, test_game_ids
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		r.RunID, r.Best.EntryThreshold, r.Best.ExitThreshold,
		r.TrainGameIDs, r.ValidGameIDs, r.TestGameIDs,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO grid_points (
			run_id, entry_threshold, exit_threshold,
			train_games, train_skipped, train_trades, train_net_profit, train_win_rate, train_max_drawdown,
			valid_games, valid_skipped, valid_trades, valid_net_profit, valid_win_rate, valid_max_drawdown,
			test_games, test_skipped, test_trades, test_net_profit, test_win_rate, test_max_drawdown
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range r.Points {
		err = batch.Append(
			r.RunID, p.EntryThreshold, p.ExitThreshold,
			uint32(p.TrainMetrics.Games), uint32(p.TrainMetrics.SkippedGames), uint32(p.TrainMetrics.TradeCount),
			p.TrainMetrics.NetProfit, p.TrainMetrics.WinRate, p.TrainMetrics.MaxDrawdown,
			uint32(p.ValidMetrics.Games), uint32(p.ValidMetrics.SkippedGames), uint32(p.ValidMetrics.TradeCount),
			p.ValidMetrics.NetProfit, p.ValidMetrics.WinRate, p.ValidMetrics.MaxDrawdown,
			uint32(p.TestMetrics.Games), uint32(p.TestMetrics.SkippedGames), uint32(p.TestMetrics.TradeCount),
			p.TestMetrics.NetProfit, p.TestMetrics.WinRate, p.TestMetrics.MaxDrawdown,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves a run result. Returns ErrNotFound if not exists.
func (s *GridResultStore) GetByRunID(ctx context.Context, runID string) (*domain.GridResult, error) {
	result := &domain.GridResult{RunID: runID}

	var bestEntry, bestExit float64
	err := s.conn.QueryRow(ctx, `
		SELECT best_entry_threshold, best_exit_threshold,
			train_game_ids, valid_game_ids, test_game_ids
		FROM grid_runs
		WHERE run_id = ?
	`, runID).Scan(&bestEntry, &bestExit, &result.TrainGameIDs, &result.ValidGameIDs, &result.TestGameIDs)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	rows, err := s.conn.Query(ctx, `
		SELECT entry_threshold, exit_threshold,
			train_games, train_skipped, train_trades, train_net_profit, train_win_rate, train_max_drawdown,
			valid_games, valid_skipped, valid_trades, valid_net_profit, valid_win_rate, valid_max_drawdown,
			test_games, test_skipped, test_trades, test_net_profit, test_win_rate, test_max_drawdown
		FROM grid_points
		WHERE run_id = ?
		ORDER BY entry_threshold ASC, exit_threshold ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.GridPoint
		var trainGames, trainSkipped, trainTrades uint32
		var validGames, validSkipped, validTrades uint32
		var testGames, testSkipped, testTrades uint32
		if err := rows.Scan(
			&p.EntryThreshold, &p.ExitThreshold,
			&trainGames, &trainSkipped, &trainTrades,
			&p.TrainMetrics.NetProfit, &p.TrainMetrics.WinRate, &p.TrainMetrics.MaxDrawdown,
			&validGames, &validSkipped, &validTrades,
			&p.ValidMetrics.NetProfit, &p.ValidMetrics.WinRate, &p.ValidMetrics.MaxDrawdown,
			&testGames, &testSkipped, &testTrades,
			&p.TestMetrics.NetProfit, &p.TestMetrics.WinRate, &p.TestMetrics.MaxDrawdown,
		); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		p.TrainMetrics.Games, p.TrainMetrics.SkippedGames, p.TrainMetrics.TradeCount = int(trainGames), int(trainSkipped), int(trainTrades)
		p.ValidMetrics.Games, p.ValidMetrics.SkippedGames, p.ValidMetrics.TradeCount = int(validGames), int(validSkipped), int(validTrades)
		p.TestMetrics.Games, p.TestMetrics.SkippedGames, p.TestMetrics.TradeCount = int(testGames), int(testSkipped), int(testTrades)
		result.Points = append(result.Points, p)

		if p.EntryThreshold == bestEntry && p.ExitThreshold == bestExit {
			result.Best = p
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points: %w", err)
	}

	return result, nil
}
