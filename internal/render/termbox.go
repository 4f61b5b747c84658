// apps/go-client/internal/render/termbox.go
//
// Full-screen sink on termbox.
// Responsibilities:
//   - Draw the grid, message line, on-screen keyboard and help line.
//   - Translate key presses and left clicks on the keyboard into events.

package render

import (
	"context"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/robalobadob/wordle/apps/go-client/internal/game"
)

const (
	marginX = 2
	marginY = 1
	cellW   = 3 // "[X]"
)

// hit is the screen span of one on-screen key.
type hit struct {
	x0, x1, y int // [x0, x1)
	label     string
}

// Termbox draws the game in the terminal and turns keyboard and mouse input
// into events.
type Termbox struct {
	mu    sync.Mutex
	model Model
	hits  []hit
}

// NewTermbox takes over the terminal. Call Close to give it back.
func NewTermbox() (*Termbox, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	return &Termbox{}, nil
}

// Close restores the terminal.
func (t *Termbox) Close() { termbox.Close() }

// SetCell and the other sink methods only update the model; Flush draws it.
func (t *Termbox) SetCell(row, col int, letter rune, color game.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.SetCell(row, col, letter, color)
}

func (t *Termbox) SetKeyColor(letter rune, color game.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.SetKeyColor(letter, color)
}

func (t *Termbox) SetMessage(text string, color game.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.SetMessage(text, color)
}

func (t *Termbox) ResetBoard(rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.ResetBoard(rows, cols)
}

func (t *Termbox) ResetKeyboard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.model.ResetKeyboard()
}

// Flush redraws the whole screen from the model.
func (t *Termbox) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	m := &t.model

	y := marginY
	for r := 0; r < m.Rows; r++ {
		x := marginX
		for c := 0; c < m.Cols; c++ {
			cell := m.Cell(r, c)
			ch := cell.Letter
			if ch == 0 {
				ch = ' '
			}
			if cell.Color == game.ColorNone {
				drawText(x, y, "["+string(ch)+"]", termbox.ColorDefault|termbox.AttrBold, termbox.ColorDefault)
			} else {
				drawText(x, y, " "+string(ch)+" ", termbox.ColorWhite|termbox.AttrBold, attr(cell.Color))
			}
			x += cellW + 1
		}
		y += 2
	}

	drawText(marginX, y, m.Message, attr(m.MessageColor), termbox.ColorDefault)
	y += 2

	t.hits = layoutKeyboard(marginX, y)
	for _, h := range t.hits {
		fg, bg := termbox.ColorWhite|termbox.AttrBold, attr(m.KeyColor(h.label))
		if m.KeyColor(h.label) == game.ColorWhite {
			fg = termbox.ColorBlack
		}
		drawText(h.x0, h.y, " "+h.label+" ", fg, bg)
	}
	y += 2 * len(Layout)
	drawText(marginX, y, "Enter submit · Backspace delete · Ctrl+N new game · Esc quit", termbox.ColorDefault, termbox.ColorDefault)

	return termbox.Flush()
}

// Listen polls terminal input until Esc/Ctrl+C, an input error, or ctx ends.
func (t *Termbox) Listen(ctx context.Context, send func(game.Event)) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			termbox.Interrupt()
		case <-done:
		}
	}()

	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventInterrupt:
			return ctx.Err()
		case termbox.EventError:
			return ev.Err
		case termbox.EventResize:
			_ = t.Flush()
		case termbox.EventMouse:
			if ev.Key != termbox.MouseLeft {
				continue
			}
			t.mu.Lock()
			label, ok := hitTest(t.hits, ev.MouseX, ev.MouseY)
			t.mu.Unlock()
			if ok {
				send(game.KeyClick{Key: label})
			}
		case termbox.EventKey:
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
				return nil
			}
			if e, ok := translateKey(ev); ok {
				send(e)
			}
		}
	}
}

// translateKey maps a termbox key event to a game event.
func translateKey(ev termbox.Event) (game.Event, bool) {
	switch ev.Key {
	case termbox.KeyEnter:
		return game.KeyPress{Key: "ENTER"}, true
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return game.KeyPress{Key: "BACKSPACE"}, true
	case termbox.KeyDelete:
		return game.KeyPress{Key: "DELETE"}, true
	case termbox.KeyCtrlN:
		return game.NewGameRequested{}, true
	}
	if ev.Ch != 0 {
		return game.KeyPress{Key: string(ev.Ch)}, true
	}
	return nil, false
}

// layoutKeyboard places the keys of Layout starting at (x, y).
func layoutKeyboard(x, y int) []hit {
	var out []hit
	for i, row := range Layout {
		cx := x + i // stagger rows like a physical keyboard
		for _, label := range row {
			w := runewidth.StringWidth(" " + label + " ")
			out = append(out, hit{x0: cx, x1: cx + w, y: y + 2*i, label: label})
			cx += w + 1
		}
	}
	return out
}

func hitTest(hits []hit, x, y int) (string, bool) {
	for _, h := range hits {
		if y == h.y && x >= h.x0 && x < h.x1 {
			return h.label, true
		}
	}
	return "", false
}

func drawText(x, y int, s string, fg, bg termbox.Attribute) {
	for _, r := range s {
		termbox.SetCell(x, y, r, fg, bg)
		x += runewidth.RuneWidth(r)
	}
}

func attr(c game.Color) termbox.Attribute {
	switch c {
	case game.ColorGreen:
		return termbox.ColorGreen
	case game.ColorOrange:
		return termbox.ColorYellow
	case game.ColorGrey:
		return termbox.ColorDarkGray
	case game.ColorRed:
		return termbox.ColorRed
	case game.ColorWhite:
		return termbox.ColorWhite
	}
	return termbox.ColorDefault
}
