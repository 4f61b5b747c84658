// apps/go-client/internal/game/replay.go
//
// History replay: rebuild the board and keyboard from the judge's record of a
// session, the same way live commits would have built them.
//
// Notes:
//   - The whole history is validated before the first cell is written, so a
//     malformed payload never leaves a half-painted board.
//   - The cursor lands on Session.NumAttempts, not len(history). The judge's
//     counter is authoritative even when the two disagree.
//   - Entries beyond MaxRows are reported via Dropped and otherwise ignored.

package game

import (
	"fmt"
	"strings"
)

// Replayed is the outcome of a replay.
type Replayed struct {
	Board   Board
	Keys    KeyColors
	Outcome Outcome
	Effects []Effect
	Dropped int
}

// Replay rebuilds client state from sess and its ordered history.
func Replay(sess Session, history []HistoryEntry) (Replayed, error) {
	rows, cols := sess.MaxRows, sess.MaxCols
	if rows <= 0 || cols <= 0 {
		return Replayed{}, fmt.Errorf("replay: invalid board %dx%d", rows, cols)
	}

	var dropped int
	if len(history) > rows {
		dropped = len(history) - rows
		history = history[:rows]
	}
	records := make([]GuessRecord, 0, len(history))
	for i, e := range history {
		rec, err := NewGuessRecord(e, cols)
		if err != nil {
			return Replayed{}, fmt.Errorf("replay: history row %d: %w", i, err)
		}
		records = append(records, rec)
	}

	b := NewBoard(rows, cols)
	keys := KeyColors{}
	effects := []Effect{ResetBoard{Rows: rows, Cols: cols}, ResetKeyboard{}}
	for _, rec := range records {
		eff, err := b.CommitRow(rec.Word, rec.Verdicts, keys)
		if err != nil {
			return Replayed{}, fmt.Errorf("replay: %w", err)
		}
		effects = append(effects, eff...)
	}

	row := sess.NumAttempts
	if row < 0 {
		row = 0
	}
	if row > rows {
		row = rows
	}
	b.Cursor = Cursor{Row: row, Index: CellIndex(row, 0, cols)}

	out := Replayed{Board: b, Keys: keys, Dropped: dropped}
	switch {
	case sess.IsEnd && len(records) > 0 && AllHit(records[len(records)-1].Verdicts):
		out.Outcome = OutcomeWon
		effects = append(effects, winMessage())
	case sess.IsEnd, row >= rows:
		out.Outcome = OutcomeLost
		effects = append(effects, revealMessage(sess.Answer))
	default:
		out.Outcome = OutcomePlaying
		effects = append(effects, SetMessage{})
	}
	out.Effects = effects
	return out, nil
}

func winMessage() SetMessage { return SetMessage{Text: "You win!", Color: ColorGreen} }

func revealMessage(answer string) SetMessage {
	if answer == "" {
		return SetMessage{Text: "Game over", Color: ColorGrey}
	}
	return SetMessage{Text: "Answer: " + strings.ToUpper(answer), Color: ColorGrey}
}
