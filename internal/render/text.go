// apps/go-client/internal/render/text.go
//
// Plain sink for --plain mode: whole frames on a writer, one guess per input
// line.

package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/robalobadob/wordle/apps/go-client/internal/game"
)

// Text is a line-oriented sink for terminals without cursor control, and for
// piping. It prints the whole board after every batch that changed it.
type Text struct {
	mu    sync.Mutex
	w     io.Writer
	model Model
	dirty bool
}

// NewText writes frames to w.
func NewText(w io.Writer) *Text { return &Text{w: w} }

// SetCell and the other sink methods update the model and mark it dirty.
func (t *Text) SetCell(row, col int, letter rune, color game.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.SetCell(row, col, letter, color)
	t.dirty = true
}

func (t *Text) SetKeyColor(letter rune, color game.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.SetKeyColor(letter, color)
	t.dirty = true
}

func (t *Text) SetMessage(text string, color game.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.model.Message != text {
		t.dirty = true
	}
	t.model.SetMessage(text, color)
}

func (t *Text) ResetBoard(rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.ResetBoard(rows, cols)
	t.dirty = true
}

func (t *Text) ResetKeyboard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.ResetKeyboard()
	t.dirty = true
}

// Flush prints a frame if anything changed since the last one.
func (t *Text) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dirty {
		return nil
	}
	t.dirty = false
	_, err := io.WriteString(t.w, FormatBoard(&t.model))
	return err
}

// FormatBoard renders m as plain text. Committed letters are marked by
// verdict: [C] hit, (R) present, -N- miss.
func FormatBoard(m *Model) string {
	var b strings.Builder
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatCell(m.Cell(r, c)))
		}
		b.WriteByte('\n')
	}
	for _, row := range Layout {
		var keys []string
		for _, label := range row {
			if label == KeyEnter || label == KeyBackspace {
				continue
			}
			keys = append(keys, formatCell(Cell{Letter: []rune(label)[0], Color: keyVerdictColor(m.KeyColor(label))}))
		}
		b.WriteString(strings.Join(keys, ""))
		b.WriteByte('\n')
	}
	if m.Message != "" {
		fmt.Fprintf(&b, "> %s\n", m.Message)
	}
	return b.String()
}

func keyVerdictColor(c game.Color) game.Color {
	if c == game.ColorWhite {
		return game.ColorNone
	}
	return c
}

func formatCell(c Cell) string {
	if c.Letter == 0 {
		return " _ "
	}
	l := string(c.Letter)
	switch c.Color {
	case game.ColorGreen:
		return "[" + l + "]"
	case game.ColorOrange:
		return "(" + l + ")"
	case game.ColorGrey:
		return "-" + l + "-"
	}
	return " " + l + " "
}

// Listen reads guesses line by line from r. Each line is typed letter by
// letter and then submitted; a line of the wrong length is refused without
// touching the board. ":new" asks for a new game; ":q" or EOF quits.
// do must block until the client has settled so frames stay in order.
func (t *Text) Listen(ctx context.Context, r io.Reader, do func(context.Context, ...game.Event) error) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case ":q", ":quit":
			return nil
		case ":new":
			if err := do(ctx, game.NewGameRequested{}); err != nil {
				return err
			}
			continue
		}
		t.mu.Lock()
		cols := t.model.Cols
		t.mu.Unlock()
		if n := utf8.RuneCountInString(line); n != cols {
			// Typing it would drop or leave out letters and submit something else.
			t.SetMessage(fmt.Sprintf("Guess must be %d letters", cols), game.ColorRed)
			if err := t.Flush(); err != nil {
				return err
			}
			continue
		}
		if err := do(ctx, lineEvents(line, cols)...); err != nil {
			return err
		}
	}
	return sc.Err()
}

// lineEvents clears up to cols pending letters, types line, and presses ENTER.
func lineEvents(line string, cols int) []game.Event {
	var evs []game.Event
	for i := 0; i < cols; i++ {
		evs = append(evs, game.KeyPress{Key: "BACKSPACE"})
	}
	for _, r := range line {
		evs = append(evs, game.KeyPress{Key: string(r)})
	}
	return append(evs, game.KeyPress{Key: "ENTER"})
}
