package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a ClickHouse container and returns a connection
// with the result-sink schema applied. Returns a cleanup function that
// must be called when done.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port())

	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)

	applySchema(t, conn)

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}

// applySchema creates the result-sink tables.
func applySchema(t *testing.T, conn *Conn) {
	t.Helper()
	ctx := context.Background()

	err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trade_records (
			trade_id        String,
			game_id         String,
			run_id          String,
			side            String,
			entry_micros    Int64,
			exit_micros     Int64,
			entry_price     Float64,
			exit_price      Float64,
			contracts       Float64,
			gross_profit    Float64,
			fees            Float64,
			slippage        Float64,
			net_profit      Float64,
			exit_reason     String,
			fallback_exit   Bool,
			game_phase      String,
			entry_threshold Float64,
			exit_threshold  Float64
		) ENGINE = MergeTree()
		ORDER BY (run_id, game_id, entry_micros, trade_id)
		SETTINGS index_granularity = 8192
	`)
	require.NoError(t, err)

	err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS grid_runs (
			run_id               String,
			best_entry_threshold Float64,
			best_exit_threshold  Float64,
			train_game_ids       Array(String),
			valid_game_ids       Array(String),
			test_game_ids        Array(String),
			created_at           DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY run_id
		SETTINGS index_granularity = 8192
	`)
	require.NoError(t, err)

	err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS grid_points (
			run_id             String,
			entry_threshold    Float64,
			exit_threshold     Float64,
			train_games        UInt32,
			train_skipped      UInt32,
			train_trades       UInt32,
			train_net_profit   Float64,
			train_win_rate     Float64,
			train_max_drawdown Float64,
			valid_games        UInt32,
			valid_skipped      UInt32,
			valid_trades       UInt32,
			valid_net_profit   Float64,
			valid_win_rate     Float64,
			valid_max_drawdown Float64,
			test_games         UInt32,
			test_skipped       UInt32,
			test_trades        UInt32,
			test_net_profit    Float64,
			test_win_rate      Float64,
			test_max_drawdown  Float64
		) ENGINE = MergeTree()
		ORDER BY (run_id, entry_threshold, exit_threshold)
		SETTINGS index_granularity = 8192
	`)
	require.NoError(t, err)
}
