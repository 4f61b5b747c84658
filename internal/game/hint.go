// apps/go-client/internal/game/hint.go
//
// Hint codec.
// Alphabet (one symbol per letter):
//   - '0' hit: right letter, right place.
//   - '?' present: right letter, wrong place.
//   - '_' miss.

package game

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Hint alphabet used by the judge.
const (
	HintHit     = '0'
	HintPresent = '?'
	HintMiss    = '_'
)

// DecodeHint turns a hint string into one verdict per letter. The hint must be
// exactly cols symbols long; nothing is truncated or padded.
func DecodeHint(hint string, cols int) ([]Verdict, error) {
	if n := utf8.RuneCountInString(hint); n != cols {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrHintLength, n, cols)
	}
	out := make([]Verdict, 0, cols)
	for i, r := range hint {
		switch r {
		case HintHit:
			out = append(out, VerdictHit)
		case HintPresent:
			out = append(out, VerdictPresent)
		case HintMiss:
			out = append(out, VerdictMiss)
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrHintSymbol, r, i)
		}
	}
	return out, nil
}

// EncodeHint is the inverse of DecodeHint. Unset verdicts have no symbol.
func EncodeHint(vs []Verdict) (string, error) {
	var b strings.Builder
	b.Grow(len(vs))
	for i, v := range vs {
		switch v {
		case VerdictHit:
			b.WriteRune(HintHit)
		case VerdictPresent:
			b.WriteRune(HintPresent)
		case VerdictMiss:
			b.WriteRune(HintMiss)
		default:
			return "", fmt.Errorf("%w: %s at offset %d", ErrHintSymbol, v, i)
		}
	}
	return b.String(), nil
}

// AllHit reports whether every verdict is a hit. An empty row is not a win.
func AllHit(vs []Verdict) bool {
	if len(vs) == 0 {
		return false
	}
	for _, v := range vs {
		if v != VerdictHit {
			return false
		}
	}
	return true
}

// NewGuessRecord validates a wire history entry against the board width.
// Letters are upper-cased for display.
func NewGuessRecord(e HistoryEntry, cols int) (GuessRecord, error) {
	word := []rune(strings.ToUpper(e.Word))
	if len(word) != cols {
		return GuessRecord{}, fmt.Errorf("%w: %q has %d letters, want %d", ErrGuessLength, e.Word, len(word), cols)
	}
	vs, err := DecodeHint(e.Hint, cols)
	if err != nil {
		return GuessRecord{}, fmt.Errorf("hint for %q: %w", e.Word, err)
	}
	return GuessRecord{Word: word, Verdicts: vs}, nil
}
