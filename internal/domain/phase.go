package domain

// Game phase labels. Display metadata only: phase never feeds trading
// decisions, and overtime elapsed time is not renormalized.
const (
	PhaseQ1       = "Q1"
	PhaseQ2Q3     = "Q2-Q3"
	PhaseQ4       = "Q4"
	PhaseOvertime = "OT"
)

// Regulation timing (NBA: four 12-minute quarters)
const (
	quarterSeconds    = 12 * 60
	regulationSeconds = 4 * quarterSeconds
)

// PhaseLabel buckets elapsed game-clock seconds into a coarse phase
// label for reporting.
func PhaseLabel(elapsedSeconds int) string {
	switch {
	case elapsedSeconds < quarterSeconds:
		return PhaseQ1
	case elapsedSeconds < 3*quarterSeconds:
		return PhaseQ2Q3
	case elapsedSeconds < regulationSeconds:
		return PhaseQ4
	default:
		return PhaseOvertime
	}
}
