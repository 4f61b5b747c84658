// apps/go-client/internal/judge/judgetest/score.go
//
// Two-pass scorer: hits first, then presents from the letters left over.

package judgetest

// Score renders the two-pass Wordle evaluation of guess against answer in the
// judge's hint alphabet ('0' hit, '?' present, '_' miss).
//
// Pass 1 marks exact matches and counts the answer letters left over.
// Pass 2 marks a non-hit letter present while leftovers of it remain.
func Score(answer, guess string) string {
	a, g := []rune(answer), []rune(guess)
	if len(a) != len(g) {
		return ""
	}
	res := make([]rune, len(g))
	left := make(map[rune]int, len(a))

	for i := range g {
		if g[i] == a[i] {
			res[i] = '0'
		} else {
			left[a[i]]++
		}
	}
	for i := range g {
		if res[i] == '0' {
			continue
		}
		if left[g[i]] > 0 {
			res[i] = '?'
			left[g[i]]--
		} else {
			res[i] = '_'
		}
	}
	return string(res)
}
