// apps/go-client/internal/game/state.go
//
// Client state and the options that shape it.

package game

import "time"

// Options are the client-side knobs that shape a game.
type Options struct {
	Rows       int
	Cols       int
	Mode       string
	RetryDelay time.Duration
	Retries    int // consecutive transport retries before giving up
}

// DefaultOptions mirrors the judge's defaults.
func DefaultOptions() Options {
	return Options{Rows: 6, Cols: 5, Mode: "normal", RetryDelay: time.Second, Retries: 1}
}

// Phase tracks which request, if any, the client is waiting on.
type Phase uint8

const (
	PhaseIdle       Phase = iota // no session, nothing outstanding
	PhaseFetching                // GET /v1/game/{id} outstanding (or waiting to retry)
	PhaseCreating                // GET /v1/game/new outstanding (or waiting to retry)
	PhasePlaying                 // accepting input
	PhaseSubmitting              // guess in flight; input locked
	PhaseOver                    // won or lost; input locked
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseCreating:
		return "creating"
	case PhasePlaying:
		return "playing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseOver:
		return "over"
	}
	return "idle"
}

// State is everything the client knows about the game on screen. It is a value:
// Apply returns a new one and never mutates its argument.
type State struct {
	Opts      Options
	SessionID string
	UserID    string
	Board     Board
	Keys      KeyColors
	Phase     Phase
	Outcome   Outcome
	Answer    string

	failures int // consecutive transport failures, reset on success
}

// NewState returns an idle client with an empty board.
func NewState(opts Options) State {
	return State{
		Opts:  opts,
		Board: NewBoard(opts.Rows, opts.Cols),
		Keys:  KeyColors{},
	}
}

// Active reports whether key input is accepted.
func (s State) Active() bool {
	return s.Phase == PhasePlaying && s.Outcome == OutcomePlaying && !s.Board.Exhausted()
}

func (s State) clone() State {
	s.Board = s.Board.clone()
	s.Keys = s.Keys.clone()
	return s
}
