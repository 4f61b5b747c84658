// apps/go-client/internal/game/events.go
//
// Inputs to and outputs of the reducer.
// Events arrive from the keyboards and from judge responses; effects are
// drawing, I/O and timers for the host to run.

package game

import "time"

// Event is anything that can move the state machine: input from either
// keyboard, or the arrival of a judge response.
type Event interface{ isEvent() }

// Start boots the client with whatever identity was persisted.
type Start struct {
	SessionID string
	UserID    string
}

// KeyPress comes from the physical keyboard: a single letter, or one of
// "ENTER", "BACKSPACE", "DELETE".
type KeyPress struct{ Key string }

// KeyClick comes from the on-screen keyboard: a letter, "ENTER" or "⌫".
type KeyClick struct{ Key string }

// NewGameRequested resets the board and asks the judge for a fresh game.
type NewGameRequested struct{}

// FetchResult answers a FetchGame effect.
type FetchResult struct {
	ID      string
	Session Session
	History []HistoryEntry
	Err     error
}

// NewGameResult answers a NewGame effect.
type NewGameResult struct {
	ID     string
	UserID string
	Err    error
}

// SubmitResult answers a SubmitGuess effect.
type SubmitResult struct {
	ID     string
	Guess  string
	Hint   string
	Answer string
	IsEnd  bool // the judge closed the game
	Err    error
}

func (Start) isEvent()            {}
func (KeyPress) isEvent()         {}
func (KeyClick) isEvent()         {}
func (NewGameRequested) isEvent() {}
func (FetchResult) isEvent()      {}
func (NewGameResult) isEvent()    {}
func (SubmitResult) isEvent()     {}

// Effect is work the reducer asks its host to perform.
type Effect interface{ isEffect() }

// Rendering sink effects.
type (
	SetCell struct {
		Row, Col int
		Letter   rune // 0 clears the cell
		Color    Color
	}
	SetKeyColor struct {
		Letter rune
		Color  Color
	}
	SetMessage struct {
		Text  string
		Color Color
	}
	ResetBoard struct{ Rows, Cols int }
	ResetKeyboard struct{}
)

// I/O effects. Each network effect is answered by the matching result event.
type (
	FetchGame struct{ ID string }
	NewGame   struct {
		Mode     string
		Attempts int
		UserID   string
	}
	SubmitGuess struct {
		ID    string
		Guess string
	}
	SaveIdentity struct {
		SessionID string
		UserID    string
	}
	ClearIdentity struct{ KeepUser bool }
	// Delay runs Then after After has elapsed.
	Delay struct {
		After time.Duration
		Then  Effect
	}
)

func (SetCell) isEffect()       {}
func (SetKeyColor) isEffect()   {}
func (SetMessage) isEffect()    {}
func (ResetBoard) isEffect()    {}
func (ResetKeyboard) isEffect() {}
func (FetchGame) isEffect()     {}
func (NewGame) isEffect()       {}
func (SubmitGuess) isEffect()   {}
func (SaveIdentity) isEffect()  {}
func (ClearIdentity) isEffect() {}
func (Delay) isEffect()         {}
