// Package gridsearch sweeps threshold pairs over disjoint train,
// validation and test game splits and picks the best pair by held-out
// validation performance.
package gridsearch

import (
	"errors"
	"fmt"
	"strings"
)

// Split errors
var (
	ErrNoGames         = errors.New("no game ids to split")
	ErrBadSplitRatios  = errors.New("split ratios must be positive and sum below 1")
	ErrEmptyTrainSplit = errors.New("train split is empty, not enough games for the ratios")
)

// SplitRatios configures the train/validation fraction of the game
// list; the remainder becomes the test split.
type SplitRatios struct {
	Train float64
	Valid float64
}

// SplitLeakageError reports a game id that appears in more than one
// split. It aborts a grid search before any simulation runs.
type SplitLeakageError struct {
	GameID string
	Splits []string
}

func (e *SplitLeakageError) Error() string {
	return fmt.Sprintf("game %s appears in multiple splits: %s", e.GameID, strings.Join(e.Splits, ", "))
}

// Partition divides gameIDs into train/validation/test, preserving the
// input order. Callers pass the list ordered by time so the validation
// and test splits are strictly later than train and never leak future
// information backwards. Games are never split across partitions; the
// game is the atomic unit.
func Partition(gameIDs []string, ratios SplitRatios) (train, valid, test []string, err error) {
	if len(gameIDs) == 0 {
		return nil, nil, nil, ErrNoGames
	}
	if ratios.Train <= 0 || ratios.Valid <= 0 || ratios.Train+ratios.Valid >= 1 {
		return nil, nil, nil, ErrBadSplitRatios
	}

	n := len(gameIDs)
	trainEnd := int(float64(n) * ratios.Train)
	validEnd := trainEnd + int(float64(n)*ratios.Valid)
	if trainEnd == 0 {
		return nil, nil, nil, ErrEmptyTrainSplit
	}
	if validEnd > n {
		validEnd = n
	}

	return gameIDs[:trainEnd], gameIDs[trainEnd:validEnd], gameIDs[validEnd:], nil
}

// ValidateDisjoint fails with a SplitLeakageError if any game id is a
// member of more than one split. Run before any simulation work.
func ValidateDisjoint(train, valid, test []string) error {
	parts := []struct {
		name string
		ids  []string
	}{
		{"train", train},
		{"valid", valid},
		{"test", test},
	}

	seen := make(map[string]string)
	for _, part := range parts {
		for _, id := range part.ids {
			if prev, ok := seen[id]; ok && prev != part.name {
				return &SplitLeakageError{GameID: id, Splits: []string{prev, part.name}}
			}
			seen[id] = part.name
		}
	}
	return nil
}
