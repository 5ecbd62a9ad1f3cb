// Package decision gates a grid search result: GO means the best
// threshold pair showed enough held-out evidence to trade live, NO-GO
// means it did not.
package decision

// Decision represents the final GO/NO-GO result.
type Decision string

const (
	DecisionGO   Decision = "GO"
	DecisionNOGO Decision = "NO-GO"
)

// DecisionInput contains the numeric evidence for one grid run's best
// threshold pair.
type DecisionInput struct {
	RunID          string
	EntryThreshold float64
	ExitThreshold  float64

	// Validation split performance (used for selection).
	ValidNetProfit float64

	// Held-out test split performance (unbiased estimate).
	TestNetProfit   float64
	TestWinRate     float64
	TestTradeCount  int
	TestMaxDrawdown float64

	// Data quality across all splits.
	SkippedGameRatio float64

	// True when the best pair sits on the edge of the swept lattice,
	// suggesting the real optimum lies outside it.
	BestAtGridEdge bool
}

// CriterionResult represents pass/fail for one criterion.
type CriterionResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// DecisionResult contains the final decision with checklist.
type DecisionResult struct {
	Decision   Decision
	GOCriteria []CriterionResult
	NOGOChecks []CriterionResult
}
