// apps/go-client/internal/game/reducer.go
//
// The client state machine as a single reducer.
// Responsibilities:
//   - Route key input from either keyboard into board edits and submissions.
//   - Drive the session lifecycle: fetch → replay, or create → play.
//   - Classify judge failures (identity / application / transport) and decide
//     whether to reset, retry, or just tell the player.
//
// Apply is pure. Every side effect is returned as an Effect for the host to
// run; its answer comes back as another Event.

package game

import (
	"errors"
	"fmt"
	"strings"
)

// Apply returns the state after ev and the effects the host must run.
func Apply(s State, ev Event) (State, []Effect) {
	s = s.clone()
	var eff []Effect
	switch ev := ev.(type) {
	case Start:
		eff = s.start(ev)
	case KeyPress:
		eff = s.key(pressAction(ev.Key))
	case KeyClick:
		eff = s.key(clickAction(ev.Key))
	case NewGameRequested:
		if s.Phase == PhaseCreating {
			return s, nil
		}
		eff = append([]Effect{ClearIdentity{KeepUser: true}}, s.createGame()...)
	case FetchResult:
		eff = s.fetched(ev)
	case NewGameResult:
		eff = s.created(ev)
	case SubmitResult:
		eff = s.submitted(ev)
	}
	return s, eff
}

func (s *State) start(ev Start) []Effect {
	s.UserID = ev.UserID
	if ev.SessionID == "" {
		return s.createGame()
	}
	s.SessionID = ev.SessionID
	s.Phase = PhaseFetching
	return []Effect{
		ResetBoard{Rows: s.Opts.Rows, Cols: s.Opts.Cols},
		ResetKeyboard{},
		FetchGame{ID: s.SessionID},
	}
}

// createGame wipes the local board and asks the judge for a new game.
func (s *State) createGame() []Effect {
	s.SessionID = ""
	s.Board = NewBoard(s.Opts.Rows, s.Opts.Cols)
	s.Keys = KeyColors{}
	s.Outcome = OutcomePlaying
	s.Answer = ""
	s.Phase = PhaseCreating
	s.failures = 0 // a superseded fetch does not spend the new request's budget
	return []Effect{
		ResetBoard{Rows: s.Opts.Rows, Cols: s.Opts.Cols},
		ResetKeyboard{},
		SetMessage{},
		s.newGameEffect(),
	}
}

func (s *State) newGameEffect() NewGame {
	return NewGame{Mode: s.Opts.Mode, Attempts: s.Opts.Rows, UserID: s.UserID}
}

// ------------------------------- input -------------------------------------

type actionKind uint8

const (
	actNone actionKind = iota
	actLetter
	actDelete
	actEnter
)

type action struct {
	kind   actionKind
	letter rune
}

// pressAction maps a physical key name.
func pressAction(key string) action {
	switch k := strings.ToUpper(key); k {
	case "BACKSPACE", "DELETE":
		return action{kind: actDelete}
	case "ENTER":
		return action{kind: actEnter}
	default:
		return letterAction(k)
	}
}

// clickAction maps an on-screen key label.
func clickAction(key string) action {
	switch k := strings.ToUpper(key); k {
	case "⌫":
		return action{kind: actDelete}
	case "ENTER":
		return action{kind: actEnter}
	default:
		return letterAction(k)
	}
}

func letterAction(k string) action {
	r := []rune(k)
	if len(r) == 1 && r[0] >= 'A' && r[0] <= 'Z' {
		return action{kind: actLetter, letter: r[0]}
	}
	return action{}
}

func (s *State) key(a action) []Effect {
	if !s.Active() {
		return nil
	}
	eff := []Effect{SetMessage{}}
	switch a.kind {
	case actLetter:
		eff = append(eff, s.Board.InsertLetter(a.letter)...)
	case actDelete:
		eff = append(eff, s.Board.DeleteLetter()...)
	case actEnter:
		eff = append(eff, s.submit()...)
	}
	return eff
}

// submit sends the pending row. Partial rows never reach the network.
func (s *State) submit() []Effect {
	if len(s.Board.Pending) == 0 || len(s.Board.Pending) != s.Board.Cols {
		return nil
	}
	s.Phase = PhaseSubmitting
	return []Effect{SubmitGuess{ID: s.SessionID, Guess: s.Board.Guess()}}
}

// ------------------------------ responses ----------------------------------

func (s *State) fetched(ev FetchResult) []Effect {
	if ev.ID != s.SessionID || s.Phase != PhaseFetching {
		return nil
	}
	if ev.Err != nil {
		if errors.Is(ev.Err, ErrNotFound) {
			// Identity error: forget everything and start over, silently.
			s.UserID = ""
			return append([]Effect{ClearIdentity{}}, s.createGame()...)
		}
		return s.fail(ev.Err, FetchGame{ID: s.SessionID})
	}

	sess := ev.Session
	if sess.MaxRows <= 0 {
		sess.MaxRows = s.Opts.Rows
	}
	if sess.MaxCols <= 0 {
		sess.MaxCols = s.Opts.Cols
	}
	r, err := Replay(sess, ev.History)
	if err != nil {
		return s.fail(err, FetchGame{ID: s.SessionID})
	}

	s.failures = 0
	s.Board, s.Keys, s.Outcome = r.Board, r.Keys, r.Outcome
	s.Answer = sess.Answer
	if sess.UserID != "" {
		s.UserID = sess.UserID
	}
	s.Phase = PhasePlaying
	if s.Outcome != OutcomePlaying {
		s.Phase = PhaseOver
	}
	return r.Effects
}

func (s *State) created(ev NewGameResult) []Effect {
	if s.Phase != PhaseCreating {
		return nil
	}
	if ev.Err == nil && ev.ID == "" {
		ev.Err = errors.New("judge returned no game id")
	}
	if ev.Err != nil {
		return s.fail(ev.Err, s.newGameEffect())
	}
	recovered := s.failures > 0
	s.failures = 0
	s.SessionID = ev.ID
	if ev.UserID != "" {
		s.UserID = ev.UserID
	}
	s.Phase = PhasePlaying
	eff := []Effect{SaveIdentity{SessionID: s.SessionID, UserID: s.UserID}}
	if recovered {
		eff = append(eff, SetMessage{}) // drop the stale error
	}
	return eff
}

func (s *State) submitted(ev SubmitResult) []Effect {
	if ev.ID != s.SessionID || s.Phase != PhaseSubmitting {
		return nil
	}
	s.Phase = PhasePlaying
	if ev.Err != nil {
		// The row stays editable so the player can fix it.
		return []Effect{errMessage(ev.Err)}
	}
	vs, err := DecodeHint(ev.Hint, s.Board.Cols)
	if err != nil {
		return []Effect{errMessage(fmt.Errorf("bad hint from judge: %w", err))}
	}

	row := s.Board.Cursor.Row
	word := append([]rune(nil), s.Board.Pending...)
	eff, err := s.Board.CommitRow(word, vs, s.Keys)
	if err != nil {
		return []Effect{errMessage(err)}
	}
	switch {
	case AllHit(vs):
		s.Outcome, s.Phase = OutcomeWon, PhaseOver
		eff = append(eff, winMessage())
	case ev.IsEnd, row >= s.Board.Rows-1:
		s.Outcome, s.Phase = OutcomeLost, PhaseOver
		s.Answer = ev.Answer
		eff = append(eff, revealMessage(ev.Answer))
	}
	return eff
}

// fail reports a transport failure and schedules retry if budget remains.
// With the budget spent the client goes idle until the player asks for a new
// game.
func (s *State) fail(err error, retry Effect) []Effect {
	eff := []Effect{errMessage(err)}
	if s.failures < s.Opts.Retries {
		s.failures++
		return append(eff, Delay{After: s.Opts.RetryDelay, Then: retry})
	}
	s.failures = 0
	s.Phase = PhaseIdle
	return eff
}

func errMessage(err error) SetMessage {
	return SetMessage{Text: errorMessage(err), Color: ColorRed}
}
