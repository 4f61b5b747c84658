// apps/go-client/internal/render/model.go
//
// Rendering sinks for the client.
// Defines:
//   - Model:    the picture on screen (grid, key colors, message), shared by sinks.
//   - Layout:   the on-screen keyboard rows.
//   - Recorder: a sink that logs every call, for tests.
//
// Sinks only draw what they are told; none of them knows the game rules.

package render

import (
	"fmt"
	"sync"

	"github.com/robalobadob/wordle/apps/go-client/internal/game"
)

// Labels of the two control keys on the on-screen keyboard.
const (
	KeyEnter     = "ENTER"
	KeyBackspace = "⌫"
)

// Layout is the on-screen keyboard, top row first.
var Layout = [][]string{
	{"Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P"},
	{"A", "S", "D", "F", "G", "H", "J", "K", "L"},
	{KeyEnter, "Z", "X", "C", "V", "B", "N", "M", KeyBackspace},
}

// Cell is one drawn grid square.
type Cell struct {
	Letter rune
	Color  game.Color
}

// Model holds the current picture. Its methods have the sink signatures.
type Model struct {
	Rows, Cols   int
	Cells        []Cell
	Keys         map[rune]game.Color
	Message      string
	MessageColor game.Color
}

// SetCell paints one cell; writes outside the grid are dropped.
func (m *Model) SetCell(row, col int, letter rune, color game.Color) {
	if row < 0 || row >= m.Rows || col < 0 || col >= m.Cols {
		return
	}
	m.Cells[game.CellIndex(row, col, m.Cols)] = Cell{Letter: letter, Color: color}
}

func (m *Model) SetKeyColor(letter rune, color game.Color) {
	if m.Keys == nil {
		m.Keys = make(map[rune]game.Color)
	}
	m.Keys[letter] = color
}

func (m *Model) SetMessage(text string, color game.Color) {
	m.Message, m.MessageColor = text, color
}

func (m *Model) ResetBoard(rows, cols int) {
	m.Rows, m.Cols = rows, cols
	m.Cells = make([]Cell, rows*cols)
}

func (m *Model) ResetKeyboard() { m.Keys = make(map[rune]game.Color) }

// Cell returns the drawn cell at (row, col).
func (m Model) Cell(row, col int) Cell { return m.Cells[game.CellIndex(row, col, m.Cols)] }

// KeyColor returns the color of an on-screen key label. Control keys and
// untouched letters are white.
func (m Model) KeyColor(label string) game.Color {
	r := []rune(label)
	if len(r) != 1 {
		return game.ColorWhite
	}
	if c, ok := m.Keys[r[0]]; ok && c != game.ColorNone {
		return c
	}
	return game.ColorWhite
}

// Recorder is a Sink that keeps both the resulting Model and a log of calls.
type Recorder struct {
	mu    sync.Mutex
	model Model
	calls []string
}

func (r *Recorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) SetCell(row, col int, letter rune, color game.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.SetCell(row, col, letter, color)
	r.record("cell %d %d %q %s", row, col, letter, color)
}

func (r *Recorder) SetKeyColor(letter rune, color game.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.SetKeyColor(letter, color)
	r.record("key %c %s", letter, color)
}

func (r *Recorder) SetMessage(text string, color game.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.SetMessage(text, color)
	r.record("message %q %s", text, color)
}

func (r *Recorder) ResetBoard(rows, cols int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.ResetBoard(rows, cols)
	r.record("reset board %dx%d", rows, cols)
}

func (r *Recorder) ResetKeyboard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.ResetKeyboard()
	r.record("reset keyboard")
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Model returns a copy of the current picture.
func (r *Recorder) Model() Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.model
	m.Cells = append([]Cell(nil), r.model.Cells...)
	m.Keys = make(map[rune]game.Color, len(r.model.Keys))
	for k, v := range r.model.Keys {
		m.Keys[k] = v
	}
	return m
}
