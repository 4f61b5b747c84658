package game

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// playing returns a state with session g1 open on an empty board.
func playing(t *testing.T) State {
	t.Helper()
	s, _ := Apply(NewState(DefaultOptions()), Start{UserID: "u1"})
	s, eff := Apply(s, NewGameResult{ID: "g1", UserID: "u1"})
	if !s.Active() {
		t.Fatalf("expected active state, phase %v", s.Phase)
	}
	if !reflect.DeepEqual(eff, []Effect{SaveIdentity{SessionID: "g1", UserID: "u1"}}) {
		t.Fatalf("unexpected effects after new game: %v", eff)
	}
	return s
}

func typeWord(s State, word string) State {
	for _, r := range word {
		s, _ = Apply(s, KeyPress{Key: string(r)})
	}
	return s
}

func find[T Effect](eff []Effect) (T, bool) {
	for _, e := range eff {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestStartWithoutSessionCreatesGame(t *testing.T) {
	s, eff := Apply(NewState(DefaultOptions()), Start{UserID: "u1"})
	if s.Phase != PhaseCreating {
		t.Fatalf("expected creating, got %v", s.Phase)
	}
	ng, ok := find[NewGame](eff)
	if !ok {
		t.Fatal("expected NewGame effect")
	}
	if ng != (NewGame{Mode: "normal", Attempts: 6, UserID: "u1"}) {
		t.Errorf("unexpected NewGame: %+v", ng)
	}
}

func TestStartWithSessionFetches(t *testing.T) {
	s, eff := Apply(NewState(DefaultOptions()), Start{SessionID: "g1", UserID: "u1"})
	if s.Phase != PhaseFetching {
		t.Fatalf("expected fetching, got %v", s.Phase)
	}
	if fg, ok := find[FetchGame](eff); !ok || fg.ID != "g1" {
		t.Fatalf("expected FetchGame g1, got %v", eff)
	}
	s, _ = Apply(s, KeyPress{Key: "a"})
	if len(s.Board.Pending) != 0 {
		t.Error("input accepted while fetching")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := typeWord(playing(t), "CRA")
	before := s.clone()
	_, _ = Apply(s, KeyPress{Key: "N"})
	_, _ = Apply(s, KeyPress{Key: "Backspace"})
	if !reflect.DeepEqual(before, s) {
		t.Error("Apply mutated its input state")
	}
}

func TestKeySources(t *testing.T) {
	s := playing(t)
	s, _ = Apply(s, KeyPress{Key: "c"})
	s, _ = Apply(s, KeyClick{Key: "R"})
	s, _ = Apply(s, KeyPress{Key: "1"})
	s, _ = Apply(s, KeyPress{Key: "Shift"})
	if got := s.Board.Guess(); got != "CR" {
		t.Fatalf("expected CR, got %q", got)
	}
	s, _ = Apply(s, KeyClick{Key: "⌫"})
	s, _ = Apply(s, KeyPress{Key: "Delete"})
	if got := s.Board.Guess(); got != "" {
		t.Fatalf("expected empty guess, got %q", got)
	}
	_, eff := Apply(s, KeyPress{Key: "x"})
	if m, ok := eff[0].(SetMessage); !ok || m.Text != "" {
		t.Errorf("expected key press to clear the message first, got %v", eff)
	}
}

func TestPartialGuessIsNotSubmitted(t *testing.T) {
	s := typeWord(playing(t), "CRA")
	s, eff := Apply(s, KeyPress{Key: "Enter"})
	if _, ok := find[SubmitGuess](eff); ok {
		t.Fatal("partial guess submitted")
	}
	if s.Phase != PhasePlaying {
		t.Errorf("expected playing, got %v", s.Phase)
	}
	s = playing(t)
	_, eff = Apply(s, KeyClick{Key: "ENTER"})
	if _, ok := find[SubmitGuess](eff); ok {
		t.Fatal("empty guess submitted")
	}
}

func TestSubmitLocksInput(t *testing.T) {
	s := typeWord(playing(t), "CRANE")
	s, eff := Apply(s, KeyPress{Key: "Enter"})
	sg, ok := find[SubmitGuess](eff)
	if !ok || sg != (SubmitGuess{ID: "g1", Guess: "CRANE"}) {
		t.Fatalf("expected SubmitGuess g1/CRANE, got %v", eff)
	}
	if s.Active() {
		t.Fatal("expected input locked while submitting")
	}
	s2, eff := Apply(s, KeyPress{Key: "Enter"})
	if eff != nil || s2.Phase != PhaseSubmitting {
		t.Error("second submit accepted while first in flight")
	}
	s2, _ = Apply(s, KeyPress{Key: "Backspace"})
	if s2.Board.Guess() != "CRANE" {
		t.Error("edit accepted while submitting")
	}
}

func TestSubmitContinues(t *testing.T) {
	s := typeWord(playing(t), "CRANE")
	s, _ = Apply(s, KeyPress{Key: "Enter"})
	s, eff := Apply(s, SubmitResult{ID: "g1", Guess: "CRANE", Hint: "0?___"})
	if !s.Active() {
		t.Fatal("expected game to continue")
	}
	if s.Board.Cursor != (Cursor{Row: 1, Index: 5}) {
		t.Errorf("expected cursor at row 1, got %+v", s.Board.Cursor)
	}
	if _, ok := find[SetMessage](eff); ok {
		t.Errorf("expected no message, got %v", eff)
	}
	if s.Keys['C'] != VerdictHit || s.Keys['R'] != VerdictPresent || s.Keys['E'] != VerdictMiss {
		t.Errorf("unexpected key colors %v", s.Keys)
	}
}

func TestSubmitWinningGuess(t *testing.T) {
	s := typeWord(playing(t), "CRANE")
	s, _ = Apply(s, KeyPress{Key: "Enter"})
	s, eff := Apply(s, SubmitResult{ID: "g1", Guess: "CRANE", Hint: "00000", Answer: "crane"})
	if s.Active() || s.Outcome != OutcomeWon {
		t.Fatalf("expected won and inactive, got %v/%v", s.Outcome, s.Phase)
	}
	if m, _ := find[SetMessage](eff); m != (SetMessage{Text: "You win!", Color: ColorGreen}) {
		t.Errorf("unexpected message %+v", m)
	}
	after, eff := Apply(s, KeyPress{Key: "A"})
	if eff != nil || after.Board.Cursor != s.Board.Cursor {
		t.Error("input accepted after win")
	}
}

func TestSubmitLastRowReveals(t *testing.T) {
	opts := DefaultOptions()
	opts.Rows = 2
	s, _ := Apply(NewState(opts), Start{})
	s, _ = Apply(s, NewGameResult{ID: "g1", UserID: "u1"})

	s = typeWord(s, "CRANE")
	s, _ = Apply(s, KeyPress{Key: "Enter"})
	s, _ = Apply(s, SubmitResult{ID: "g1", Guess: "CRANE", Hint: "_____"})
	if !s.Active() {
		t.Fatal("expected game to continue after first row")
	}

	s = typeWord(s, "FRESH")
	s, _ = Apply(s, KeyPress{Key: "Enter"})
	s, eff := Apply(s, SubmitResult{ID: "g1", Guess: "FRESH", Hint: "_____", Answer: "panic"})
	if s.Active() || s.Outcome != OutcomeLost {
		t.Fatalf("expected lost and inactive, got %v/%v", s.Outcome, s.Phase)
	}
	if m, _ := find[SetMessage](eff); m != (SetMessage{Text: "Answer: PANIC", Color: ColorGrey}) {
		t.Errorf("unexpected message %+v", m)
	}
}

func TestSubmitRejectedLeavesRowEditable(t *testing.T) {
	s := typeWord(playing(t), "QZQZQ")
	s, _ = Apply(s, KeyPress{Key: "Enter"})
	s, eff := Apply(s, SubmitResult{ID: "g1", Guess: "QZQZQ", Err: &RejectedError{Status: 400, Detail: "Not a valid word"}})
	if !reflect.DeepEqual(eff, []Effect{SetMessage{Text: "Not a valid word", Color: ColorRed}}) {
		t.Fatalf("unexpected effects %v", eff)
	}
	if !s.Active() || s.Board.Guess() != "QZQZQ" || s.Board.Cursor.Row != 0 {
		t.Fatalf("expected row 0 still editable, got %+v", s.Board.Cursor)
	}
	s, _ = Apply(s, KeyPress{Key: "Backspace"})
	if s.Board.Guess() != "QZQZ" {
		t.Errorf("expected delete to work after rejection, got %q", s.Board.Guess())
	}
}

func TestSubmitMalformedHintNotApplied(t *testing.T) {
	s := typeWord(playing(t), "CRANE")
	s, _ = Apply(s, KeyPress{Key: "Enter"})
	s, eff := Apply(s, SubmitResult{ID: "g1", Guess: "CRANE", Hint: "0?_"})
	if m, ok := find[SetMessage](eff); !ok || m.Color != ColorRed {
		t.Errorf("expected red error message, got %v", eff)
	}
	if s.Board.Cursor.Row != 0 || len(s.Keys) != 0 {
		t.Error("malformed hint partially applied")
	}
}

func TestStaleSubmitIgnored(t *testing.T) {
	s := typeWord(playing(t), "CRANE")
	s, _ = Apply(s, KeyPress{Key: "Enter"})
	s, _ = Apply(s, NewGameRequested{})
	s, _ = Apply(s, NewGameResult{ID: "g2", UserID: "u1"})

	after, eff := Apply(s, SubmitResult{ID: "g1", Guess: "CRANE", Hint: "00000"})
	if eff != nil {
		t.Errorf("expected stale result dropped, got %v", eff)
	}
	if after.Outcome != OutcomePlaying || after.Board.Cursor.Row != 0 {
		t.Error("stale result changed the new session")
	}
}

func TestNewGameRequestedKeepsUser(t *testing.T) {
	s := typeWord(playing(t), "CR")
	s, eff := Apply(s, NewGameRequested{})
	if _, ok := find[ClearIdentity](eff); !ok {
		t.Fatal("expected ClearIdentity")
	}
	if ci, _ := find[ClearIdentity](eff); !ci.KeepUser {
		t.Error("expected user identity kept")
	}
	if ng, _ := find[NewGame](eff); ng.UserID != "u1" {
		t.Errorf("expected new game for u1, got %+v", ng)
	}
	if len(s.Board.Pending) != 0 || s.SessionID != "" {
		t.Error("expected board and session reset")
	}
	if _, eff := Apply(s, NewGameRequested{}); eff != nil {
		t.Error("duplicate new game request while creating")
	}
}

func TestFetchNotFoundStartsOver(t *testing.T) {
	s, _ := Apply(NewState(DefaultOptions()), Start{SessionID: "gone", UserID: "u1"})
	s, eff := Apply(s, FetchResult{ID: "gone", Err: ErrNotFound})
	if ci, ok := find[ClearIdentity](eff); !ok || ci.KeepUser {
		t.Fatalf("expected full identity clear, got %v", eff)
	}
	ng, ok := find[NewGame](eff)
	if !ok {
		t.Fatal("expected automatic new game")
	}
	if ng.UserID != "" {
		t.Errorf("expected cleared user id, got %q", ng.UserID)
	}
	for _, e := range eff {
		if m, ok := e.(SetMessage); ok && m.Text != "" {
			t.Errorf("identity error must be silent, got %q", m.Text)
		}
	}
	if s.Phase != PhaseCreating {
		t.Errorf("expected creating, got %v", s.Phase)
	}
}

func TestFetchReplaysHistory(t *testing.T) {
	s, _ := Apply(NewState(DefaultOptions()), Start{SessionID: "g1"})
	s, _ = Apply(s, FetchResult{
		ID:      "g1",
		Session: Session{ID: "g1", UserID: "u9", MaxRows: 6, NumAttempts: 2},
		History: []HistoryEntry{{Word: "crane", Hint: "0?___"}, {Word: "cider", Hint: "0___?"}},
	})
	if !s.Active() {
		t.Fatalf("expected active, got %v", s.Phase)
	}
	if s.UserID != "u9" {
		t.Errorf("expected user id from session, got %q", s.UserID)
	}
	s = typeWord(s, "F")
	if got := s.Board.Cell(2, 0).Letter; got != 'F' {
		t.Errorf("expected input on row 2, got %q", got)
	}
}

func TestFetchTransportRetry(t *testing.T) {
	opts := DefaultOptions()
	opts.Retries = 2
	s, _ := Apply(NewState(opts), Start{SessionID: "g1"})
	boom := errors.New("connection refused")

	for i := 0; i < 2; i++ {
		var eff []Effect
		s, eff = Apply(s, FetchResult{ID: "g1", Err: boom})
		d, ok := find[Delay](eff)
		if !ok {
			t.Fatalf("attempt %d: expected retry", i)
		}
		if d.After != time.Second || d.Then != (FetchGame{ID: "g1"}) {
			t.Errorf("unexpected delay %+v", d)
		}
		if m, _ := find[SetMessage](eff); m != (SetMessage{Text: "connection refused", Color: ColorRed}) {
			t.Errorf("unexpected message %+v", m)
		}
	}
	s, eff := Apply(s, FetchResult{ID: "g1", Err: boom})
	if _, ok := find[Delay](eff); ok {
		t.Fatal("expected retry budget to be spent")
	}
	if s.Phase != PhaseIdle {
		t.Errorf("expected idle, got %v", s.Phase)
	}
	if _, eff := Apply(s, NewGameRequested{}); eff == nil {
		t.Error("expected new game to be possible after giving up")
	}
}

func TestFetchRetryBudgetResets(t *testing.T) {
	s, _ := Apply(NewState(DefaultOptions()), Start{SessionID: "g1"})
	s, _ = Apply(s, FetchResult{ID: "g1", Err: errors.New("timeout")})
	s, _ = Apply(s, FetchResult{ID: "g1", Session: Session{MaxRows: 6}})
	if s.failures != 0 {
		t.Errorf("expected failures reset, got %d", s.failures)
	}
}

func TestFetchMalformedHistoryIsTransportFailure(t *testing.T) {
	s, _ := Apply(NewState(DefaultOptions()), Start{SessionID: "g1"})
	s, eff := Apply(s, FetchResult{
		ID:      "g1",
		Session: Session{MaxRows: 6, NumAttempts: 1},
		History: []HistoryEntry{{Word: "crane", Hint: "0?"}},
	})
	if _, ok := find[Delay](eff); !ok {
		t.Fatal("expected retry")
	}
	if _, ok := find[SetCell](eff); ok {
		t.Error("malformed history partially rendered")
	}
	if s.Active() {
		t.Error("expected inactive after malformed history")
	}
}

func TestNewGameFailureRetries(t *testing.T) {
	s, _ := Apply(NewState(DefaultOptions()), Start{UserID: "u1"})
	s, eff := Apply(s, NewGameResult{Err: errors.New("503 service unavailable")})
	d, ok := find[Delay](eff)
	if !ok {
		t.Fatal("expected retry")
	}
	if d.Then != (NewGame{Mode: "normal", Attempts: 6, UserID: "u1"}) {
		t.Errorf("unexpected retry effect %+v", d.Then)
	}
	s, eff = Apply(s, NewGameResult{})
	if m, ok := find[SetMessage](eff); !ok || m.Color != ColorRed {
		t.Errorf("expected error for missing id, got %v", eff)
	}
	if s.Phase != PhaseIdle {
		t.Errorf("expected idle after budget spent, got %v", s.Phase)
	}
}

func TestNewGameRecoveryClearsError(t *testing.T) {
	s, _ := Apply(NewState(DefaultOptions()), Start{})
	s, _ = Apply(s, NewGameResult{Err: errors.New("dial tcp: connection refused")})
	s, eff := Apply(s, NewGameResult{ID: "g1", UserID: "u1"})
	if m, ok := find[SetMessage](eff); !ok || m.Text != "" {
		t.Errorf("expected the error line cleared, got %v", eff)
	}
	if s.Phase != PhasePlaying || s.failures != 0 {
		t.Errorf("expected playing with reset budget, got %v/%d", s.Phase, s.failures)
	}
}

func TestSubmitEndedByJudge(t *testing.T) {
	s := typeWord(playing(t), "SLATE")
	s, _ = Apply(s, KeyPress{Key: "Enter"})
	s, eff := Apply(s, SubmitResult{ID: "g1", Guess: "SLATE", Hint: "__0_0", Answer: "crane", IsEnd: true})
	if s.Outcome != OutcomeLost || s.Phase != PhaseOver || s.Active() {
		t.Fatalf("expected the judge to end the game, got %v/%v", s.Outcome, s.Phase)
	}
	if m, _ := find[SetMessage](eff); m != (SetMessage{Text: "Answer: CRANE", Color: ColorGrey}) {
		t.Errorf("unexpected message %+v", m)
	}
}

func TestNewGameAfterFailedFetchHasFullBudget(t *testing.T) {
	s, _ := Apply(NewState(DefaultOptions()), Start{SessionID: "g1", UserID: "u1"})
	s, eff := Apply(s, FetchResult{ID: "g1", Err: errors.New("connection refused")})
	if _, ok := find[Delay](eff); !ok {
		t.Fatal("expected fetch retry")
	}

	s, _ = Apply(s, NewGameRequested{})
	s, eff = Apply(s, NewGameResult{Err: errors.New("connection refused")})
	d, ok := find[Delay](eff)
	if !ok {
		t.Fatalf("expected new game retry, got %v (phase %v)", eff, s.Phase)
	}
	if _, ok := d.Then.(NewGame); !ok {
		t.Errorf("expected new game to be retried, got %#v", d.Then)
	}
	if s.Phase != PhaseCreating {
		t.Errorf("expected creating, got %v", s.Phase)
	}

	// The superseded fetch retry lands late and is ignored.
	if _, eff := Apply(s, FetchResult{ID: "g1", Session: Session{MaxRows: 6}}); eff != nil {
		t.Errorf("stale fetch applied: %v", eff)
	}
}
