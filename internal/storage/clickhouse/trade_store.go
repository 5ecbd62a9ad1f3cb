package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// TradeStore implements storage.TradeStore using ClickHouse.
// Trade records are the analytics sink of the simulator; they are
// written in batches and queried per game or per grid-search run.
type TradeStore struct {
	conn *Conn
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(conn *Conn) *TradeStore {
	return &TradeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a single trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	return s.InsertBulk(ctx, []*domain.TradeRecord{t})
}

// InsertBulk adds multiple trades. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[t.TradeID] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, t := range trades {
		exists, err := s.exists(ctx, t.TradeID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_records (
			trade_id, game_id, run_id, side,
			entry_micros, exit_micros, entry_price, exit_price, contracts,
			gross_profit, fees, slippage, net_profit,
			exit_reason, fallback_exit, game_phase,
			entry_threshold, exit_threshold
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		err = batch.Append(
			t.TradeID, t.GameID, t.RunID, string(t.Side),
			t.EntryMicros, t.ExitMicros, t.EntryPrice, t.ExitPrice, t.Contracts,
			t.GrossProfit, t.Fees, t.Slippage, t.NetProfit,
			t.ExitReason, t.FallbackExit, t.GamePhase,
			t.EntryThreshold, t.ExitThreshold,
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

// GetByGameID retrieves all trades for a game, ordered by entry time ASC.
func (s *TradeStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.TradeRecord, error) {
	query := selectTradeColumns + `
		WHERE game_id = ?
		ORDER BY entry_micros ASC, trade_id ASC
	`

	rows, err := s.conn.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query trades by game id: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByRunID retrieves all trades for a grid-search run, ordered by entry time ASC.
func (s *TradeStore) GetByRunID(ctx context.Context, runID string) ([]*domain.TradeRecord, error) {
	query := selectTradeColumns + `
		WHERE run_id = ?
		ORDER BY entry_micros ASC, trade_id ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query trades by run id: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

const selectTradeColumns = `
	SELECT trade_id, game_id, run_id, side,
		entry_micros, exit_micros, entry_price, exit_price, contracts,
		gross_profit, fees, slippage, net_profit,
		exit_reason, fallback_exit, game_phase,
		entry_threshold, exit_threshold
	FROM trade_records
`

// exists checks if a trade with the given id exists.
func (s *TradeStore) exists(ctx context.Context, tradeID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM trade_records WHERE trade_id = ?`, tradeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count trades: %w", err)
	}
	return count > 0, nil
}

// scanTrades reads trade rows into domain records.
func scanTrades(rows driver.Rows) ([]*domain.TradeRecord, error) {
	var result []*domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var side string
		if err := rows.Scan(
			&t.TradeID, &t.GameID, &t.RunID, &side,
			&t.EntryMicros, &t.ExitMicros, &t.EntryPrice, &t.ExitPrice, &t.Contracts,
			&t.GrossProfit, &t.Fees, &t.Slippage, &t.NetProfit,
			&t.ExitReason, &t.FallbackExit, &t.GamePhase,
			&t.EntryThreshold, &t.ExitThreshold,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = domain.PositionSide(side)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return result, nil
}
