package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(game_id|entry_threshold|exit_threshold|entry_micros)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(
	gameID string,
	entryThreshold float64,
	exitThreshold float64,
	entryMicros int64,
) string {
	data := fmt.Sprintf("%s|%.6f|%.6f|%d",
		gameID,
		entryThreshold,
		exitThreshold,
		entryMicros,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
