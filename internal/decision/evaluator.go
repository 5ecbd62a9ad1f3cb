package decision

import "fmt"

// Evaluation thresholds. Deliberately conservative: a pair has to earn
// its way past the held-out split, not just the validation split.
const (
	MinTestTrades       = 10
	MinTestWinRate      = 0.40
	MaxSkippedGameRatio = 0.25
)

// Evaluator evaluates decision criteria.
type Evaluator struct{}

// NewEvaluator creates a new decision evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate produces DecisionResult from DecisionInput.
// GO if ALL criteria pass and NO NO-GO triggers.
// NO-GO if ANY criterion fails or ANY trigger fires.
func (e *Evaluator) Evaluate(input DecisionInput) *DecisionResult {
	goCriteria := e.evaluateGOCriteria(input)
	nogoChecks := e.evaluateNOGOTriggers(input)

	allGOPass := true
	for _, c := range goCriteria {
		if !c.Pass {
			allGOPass = false
			break
		}
	}

	anyNOGOTriggered := false
	for _, c := range nogoChecks {
		if !c.Pass { // Pass=false means triggered
			anyNOGOTriggered = true
			break
		}
	}

	decision := DecisionGO
	if !allGOPass || anyNOGOTriggered {
		decision = DecisionNOGO
	}

	return &DecisionResult{
		Decision:   decision,
		GOCriteria: goCriteria,
		NOGOChecks: nogoChecks,
	}
}

func (e *Evaluator) evaluateGOCriteria(input DecisionInput) []CriterionResult {
	criteria := make([]CriterionResult, 4)

	criteria[0] = CriterionResult{
		Name:      "Validation net profit",
		Threshold: "> 0",
		Actual:    fmt.Sprintf("%.2f", input.ValidNetProfit),
		Pass:      input.ValidNetProfit > 0,
	}

	criteria[1] = CriterionResult{
		Name:      "Held-out test net profit",
		Threshold: "> 0",
		Actual:    fmt.Sprintf("%.2f", input.TestNetProfit),
		Pass:      input.TestNetProfit > 0,
	}

	criteria[2] = CriterionResult{
		Name:      "Test win rate",
		Threshold: fmt.Sprintf(">= %.2f", MinTestWinRate),
		Actual:    fmt.Sprintf("%.4f", input.TestWinRate),
		Pass:      input.TestWinRate >= MinTestWinRate,
	}

	criteria[3] = CriterionResult{
		Name:      "Test sample size",
		Threshold: fmt.Sprintf(">= %d trades", MinTestTrades),
		Actual:    fmt.Sprintf("%d", input.TestTradeCount),
		Pass:      input.TestTradeCount >= MinTestTrades,
	}

	return criteria
}

func (e *Evaluator) evaluateNOGOTriggers(input DecisionInput) []CriterionResult {
	checks := make([]CriterionResult, 3)

	// 1. Drawdown swallows the profit: test drawdown >= test net.
	drawdownOK := input.TestNetProfit > 0 && input.TestMaxDrawdown < input.TestNetProfit
	checks[0] = CriterionResult{
		Name:      "Drawdown exceeds profit",
		Threshold: "test drawdown >= test net profit",
		Actual:    fmt.Sprintf("drawdown=%.2f net=%.2f", input.TestMaxDrawdown, input.TestNetProfit),
		Pass:      drawdownOK,
	}

	// 2. Too many games were skipped to trust the aggregates.
	checks[1] = CriterionResult{
		Name:      "Skipped game ratio",
		Threshold: fmt.Sprintf("> %.2f", MaxSkippedGameRatio),
		Actual:    fmt.Sprintf("%.4f", input.SkippedGameRatio),
		Pass:      input.SkippedGameRatio <= MaxSkippedGameRatio,
	}

	// 3. Best pair sits on the edge of the lattice: the sweep was too
	// narrow and the selected optimum is untrustworthy.
	checks[2] = CriterionResult{
		Name:      "Best pair at grid edge",
		Threshold: "best pair on lattice boundary",
		Actual:    fmt.Sprintf("%t", input.BestAtGridEdge),
		Pass:      !input.BestAtGridEdge,
	}

	return checks
}
