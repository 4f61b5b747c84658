// apps/go-client/internal/game/types.go
//
// Core type definitions for the client-side game state.
// Defines:
//   - Verdict: per-letter judgment of a guess (hit/present/miss).
//   - Color:   what the rendering sink paints for a verdict.
//   - Session: the server's view of one game, as fetched.
//   - GuessRecord: one committed row of history.

package game

// Verdict represents the judge's evaluation of a single letter in a guess.
// The numeric order is the keyboard precedence: Unset < Miss < Present < Hit.
type Verdict uint8

const (
	VerdictUnset Verdict = iota
	VerdictMiss
	VerdictPresent
	VerdictHit
)

func (v Verdict) String() string {
	switch v {
	case VerdictHit:
		return "hit"
	case VerdictPresent:
		return "present"
	case VerdictMiss:
		return "miss"
	}
	return "unset"
}

// Color is the paint applied to a cell, a key or the message line.
type Color string

const (
	ColorNone   Color = ""
	ColorWhite  Color = "white"
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorGrey   Color = "grey"
	ColorRed    Color = "red"
)

// Color maps a verdict to its display color. Unset keys stay white.
func (v Verdict) Color() Color {
	switch v {
	case VerdictHit:
		return ColorGreen
	case VerdictPresent:
		return ColorOrange
	case VerdictMiss:
		return ColorGrey
	}
	return ColorWhite
}

// Session is the judge's record of a game. Answer is only populated once
// IsEnd is true.
type Session struct {
	ID          string
	UserID      string
	MaxRows     int
	MaxCols     int
	NumAttempts int
	IsEnd       bool
	Answer      string
}

// HistoryEntry is a guess as it arrives on the wire, before validation.
type HistoryEntry struct {
	Word string
	Hint string
}

// GuessRecord is a validated, immutable row of history.
type GuessRecord struct {
	Word     []rune
	Verdicts []Verdict
}

// Outcome is the coarse state of the game as the player sees it.
type Outcome uint8

const (
	OutcomePlaying Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	}
	return "playing"
}
