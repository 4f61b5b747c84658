// apps/go-client/internal/game/board.go
//
// Cursor and board state for the guess grid.
// Responsibilities:
//   - Map (row, col) to a flat cell index with no UI involved.
//   - Accept live letter edits on the current row (insert/delete).
//   - Commit a judged row: paint cells, feed the keyboard, advance the cursor.
//
// Invariants (checked by tests after every operation):
//   - Cursor.Index == CellIndex(Cursor.Row, Cursor.Col, Cols)
//   - 0 <= Cursor.Col <= Cols
//   - len(Pending) == Cursor.Col
//
// Cursor.Row == Rows means the board is exhausted; no cell is writable.

package game

import "fmt"

// CellIndex is the flat index of (row, col) on a board cols wide.
func CellIndex(row, col, cols int) int { return row*cols + col }

// Cell is one square of the grid. A zero Letter is an empty cell; a zero
// Verdict is an uncommitted one.
type Cell struct {
	Letter  rune
	Verdict Verdict
}

// Cursor is the next cell to receive input.
type Cursor struct {
	Row   int
	Col   int
	Index int
}

// Board is the rows x cols grid plus the row being typed.
type Board struct {
	Rows    int
	Cols    int
	Cursor  Cursor
	Cells   []Cell
	Pending []rune // letters typed on the current row
}

// NewBoard returns an empty board with the cursor at (0, 0).
func NewBoard(rows, cols int) Board {
	return Board{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Cell, rows*cols),
	}
}

// Exhausted reports whether every row has been committed.
func (b *Board) Exhausted() bool { return b.Cursor.Row >= b.Rows }

// Cell returns the cell at (row, col).
func (b *Board) Cell(row, col int) Cell { return b.Cells[CellIndex(row, col, b.Cols)] }

// Guess is the pending row as a string.
func (b *Board) Guess() string { return string(b.Pending) }

// InsertLetter writes letter at the cursor and advances it. A full row, or a
// cursor past the last row, is silently ignored.
func (b *Board) InsertLetter(letter rune) []Effect {
	if b.Cursor.Col >= b.Cols || b.Cursor.Index >= len(b.Cells) {
		return nil
	}
	b.Cells[b.Cursor.Index] = Cell{Letter: letter}
	eff := SetCell{Row: b.Cursor.Row, Col: b.Cursor.Col, Letter: letter}
	b.Cursor.Col++
	b.Cursor.Index++
	b.Pending = append(b.Pending, letter)
	return []Effect{eff}
}

// DeleteLetter reverses the last InsertLetter on the current row. At column 0
// it does nothing.
func (b *Board) DeleteLetter() []Effect {
	if b.Cursor.Col <= 0 {
		return nil
	}
	b.Cursor.Col--
	b.Cursor.Index--
	b.Cells[b.Cursor.Index] = Cell{}
	b.Pending = b.Pending[:len(b.Pending)-1]
	return []Effect{SetCell{Row: b.Cursor.Row, Col: b.Cursor.Col}}
}

// CommitRow paints the current row with word and its verdicts, updates keys,
// and moves the cursor to the start of the next row. Nothing is applied if
// word or verdicts do not span the full row.
func (b *Board) CommitRow(word []rune, vs []Verdict, keys KeyColors) ([]Effect, error) {
	if b.Exhausted() {
		return nil, fmt.Errorf("commit row %d: board has %d rows", b.Cursor.Row, b.Rows)
	}
	if len(vs) != b.Cols {
		return nil, fmt.Errorf("%w: got %d verdicts, want %d", ErrHintLength, len(vs), b.Cols)
	}
	if len(word) != b.Cols {
		return nil, fmt.Errorf("%w: got %d letters, want %d", ErrGuessLength, len(word), b.Cols)
	}

	row := b.Cursor.Row
	effects := make([]Effect, 0, 2*b.Cols)
	for col := 0; col < b.Cols; col++ {
		// Cells always show their own verdict, never the aggregated key color.
		b.Cells[CellIndex(row, col, b.Cols)] = Cell{Letter: word[col], Verdict: vs[col]}
		effects = append(effects, SetCell{Row: row, Col: col, Letter: word[col], Color: vs[col].Color()})
	}
	for col := 0; col < b.Cols; col++ {
		if keys.Apply(word[col], vs[col]) {
			effects = append(effects, SetKeyColor{Letter: word[col], Color: keys[word[col]].Color()})
		}
	}

	b.Cursor = Cursor{Row: row + 1, Index: CellIndex(row+1, 0, b.Cols)}
	b.Pending = nil
	return effects, nil
}

func (b Board) clone() Board {
	b.Cells = append([]Cell(nil), b.Cells...)
	b.Pending = append([]rune(nil), b.Pending...)
	return b
}
