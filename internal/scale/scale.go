// Package scale implements the fixed ordinal scale used for vote
// comparison and statistics. Every ordering decision in the server goes
// through Index so min/max/avg/sort can never disagree.
package scale

import (
	"math"
	"sort"
)

// Symbols is the scale in ascending order. "?" means "cannot estimate"
// and is excluded from averages.
var Symbols = []string{"0", "1", "2", "3", "5", "8", "13", "21", "34", "55", "89", "?"}

const unknown = "?"

var indexOf = func() map[string]int {
	m := make(map[string]int, len(Symbols))
	for i, s := range Symbols {
		m[s] = i
	}
	return m
}()

// Index returns the position of symbol on the scale, -1 if absent.
func Index(symbol string) int {
	if i, ok := indexOf[symbol]; ok {
		return i
	}
	return -1
}

func IsValid(symbol string) bool { return Index(symbol) != -1 }

// Compare orders two symbols by scale position.
func Compare(a, b string) int { return Index(a) - Index(b) }

// Sort returns a copy of votes in ascending scale order.
// Off-scale symbols sort first.
func Sort(votes []string) []string {
	out := make([]string, len(votes))
	copy(out, votes)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}

// Min returns the lowest vote on the scale; ok is false for empty input.
func Min(votes []string) (string, bool) {
	if len(votes) == 0 {
		return "", false
	}
	return Sort(votes)[0], true
}

// Max returns the highest vote on the scale; ok is false for empty input.
func Max(votes []string) (string, bool) {
	if len(votes) == 0 {
		return "", false
	}
	sorted := Sort(votes)
	return sorted[len(sorted)-1], true
}

// Average maps each vote to its index, excluding "?" and off-scale
// symbols, rounds the mean half-up, clamps to the top of the scale and
// maps back to a symbol. ok is false if no numeric vote remains.
func Average(votes []string) (string, bool) {
	sum, n := 0, 0
	for _, v := range votes {
		i := Index(v)
		if i == -1 || v == unknown {
			continue
		}
		sum += i
		n++
	}
	if n == 0 {
		return "", false
	}
	avg := int(math.Round(float64(sum) / float64(n)))
	if avg > len(Symbols)-1 {
		avg = len(Symbols) - 1
	}
	return Symbols[avg], true
}
