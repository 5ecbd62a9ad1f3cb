// Package signal implements the divergence state machine that decides
// when to open and close positions. The engine is a pure function of
// (state, snapshot): it carries no hidden mutable fields, so a single
// Engine can serve many games concurrently.
package signal

import (
	"math"

	"github.com/psycho789/bball-sub002/internal/domain"
)

const microsPerSecond = 1_000_000

// Action is the decision emitted for one snapshot.
type Action int

// Actions
const (
	ActionNone Action = iota
	ActionEnterLong
	ActionEnterShort
	ActionExit
)

// String returns a human-readable action name for logs.
func (a Action) String() string {
	switch a {
	case ActionEnterLong:
		return "ENTER_LONG"
	case ActionEnterShort:
		return "ENTER_SHORT"
	case ActionExit:
		return "EXIT"
	default:
		return "NONE"
	}
}

// Phase is the machine's position phase.
type Phase string

// Phases
const (
	PhaseFlat  Phase = "flat"
	PhaseLong  Phase = "long"
	PhaseShort Phase = "short"
)

// State is the full per-game machine state. DivergencePrev is updated
// on every snapshot that carries a quote, including snapshots where no
// action fires; hysteresis and direction confirmation both depend on it.
type State struct {
	Phase          Phase
	EntryMicros    int64 // entry time, zero when flat
	DivergencePrev float64
	HasPrev        bool
}

// NewState returns the initial flat state for a game.
func NewState() State {
	return State{Phase: PhaseFlat}
}

// Engine holds the threshold parameters. All methods are safe for
// concurrent use; per-game state lives entirely in State.
type Engine struct {
	entryThreshold float64
	exitThreshold  float64
	minHoldMicros  int64
}

// NewEngine creates an engine with the given thresholds. minHoldSeconds
// is the minimum time a position must be held before an exit may fire.
func NewEngine(entryThreshold, exitThreshold float64, minHoldSeconds int) *Engine {
	return &Engine{
		entryThreshold: entryThreshold,
		exitThreshold:  exitThreshold,
		minHoldMicros:  int64(minHoldSeconds) * microsPerSecond,
	}
}

// Step advances the machine by one snapshot and returns the new state
// and the action to take. Snapshots without a quote have no defined
// divergence and never trigger a transition; previous divergence is
// left untouched for them.
//
// Entry requires the divergence to exceed the entry threshold AND to be
// widening relative to the previous snapshot. A divergence that merely
// touches its previous peak does not open a position. The first quoted
// snapshot of a game can never enter: there is no previous divergence
// to confirm direction against.
//
// Exit requires the absolute divergence to cross from at-or-outside the
// exit band to inside it, and the position to have been held for at
// least the minimum hold time. Hovering inside the band never re-fires
// an exit.
func (e *Engine) Step(state State, snapshot *domain.Snapshot) (State, Action) {
	if !snapshot.HasQuote() {
		return state, ActionNone
	}

	divergence := snapshot.Divergence()
	next := state
	action := ActionNone

	switch state.Phase {
	case PhaseFlat:
		if state.HasPrev {
			switch {
			case divergence > e.entryThreshold && divergence > state.DivergencePrev:
				next.Phase = PhaseLong
				next.EntryMicros = snapshot.TimestampMicros
				action = ActionEnterLong
			case divergence < -e.entryThreshold && divergence < state.DivergencePrev:
				next.Phase = PhaseShort
				next.EntryMicros = snapshot.TimestampMicros
				action = ActionEnterShort
			}
		}

	case PhaseLong, PhaseShort:
		crossed := math.Abs(divergence) < e.exitThreshold &&
			state.HasPrev && math.Abs(state.DivergencePrev) >= e.exitThreshold
		held := snapshot.TimestampMicros - state.EntryMicros
		if crossed && held >= e.minHoldMicros {
			next.Phase = PhaseFlat
			next.EntryMicros = 0
			action = ActionExit
		}
	}

	next.DivergencePrev = divergence
	next.HasPrev = true
	return next, action
}
