// apps/go-client/internal/game/keys.go
//
// On-screen keyboard colors. A key only ever moves up the verdict order.

package game

// KeyColors holds the best verdict seen so far for each letter. A key is never
// downgraded: Hit beats Present beats Miss beats nothing.
type KeyColors map[rune]Verdict

// Apply folds v into the entry for letter and reports whether it changed.
func (k KeyColors) Apply(letter rune, v Verdict) bool {
	if v <= k[letter] {
		return false
	}
	k[letter] = v
	return true
}

func (k KeyColors) clone() KeyColors {
	out := make(KeyColors, len(k))
	for l, v := range k {
		out[l] = v
	}
	return out
}
