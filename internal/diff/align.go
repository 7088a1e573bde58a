package diff

import (
	"strings"

	"github.com/alsdiag/alsdiag/internal/als"
)

type matchedPair struct {
	oldIdx int
	newIdx int
}

// alignKey is the identity a device keeps across versions. Two devices
// match when both category and (case-insensitive) display name agree;
// everything else about them may have changed.
func alignKey(d als.Device) string {
	return string(d.Category) + "|" + strings.ToLower(d.DisplayName())
}

// alignChains computes a longest-common-subsequence alignment of two
// device chains. Matched positions come back as pairs in chain order,
// the rest as removed old indices and added new indices.
func alignChains(oldDevs, newDevs []als.Device) (pairs []matchedPair, removed, added []int) {
	m, n := len(oldDevs), len(newDevs)

	oldKeys := make([]string, m)
	for i, d := range oldDevs {
		oldKeys[i] = alignKey(d)
	}
	newKeys := make([]string, n)
	for j, d := range newDevs {
		newKeys[j] = alignKey(d)
	}

	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if oldKeys[i-1] == newKeys[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}

	// Backtrack, then reverse into chain order.
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case oldKeys[i-1] == newKeys[j-1]:
			pairs = append(pairs, matchedPair{oldIdx: i - 1, newIdx: j - 1})
			i--
			j--
		case table[i-1][j] >= table[i][j-1]:
			removed = append(removed, i-1)
			i--
		default:
			added = append(added, j-1)
			j--
		}
	}
	for ; i > 0; i-- {
		removed = append(removed, i-1)
	}
	for ; j > 0; j-- {
		added = append(added, j-1)
	}

	reversePairs(pairs)
	reverseInts(removed)
	reverseInts(added)
	return pairs, removed, added
}

func reversePairs(s []matchedPair) {
	for a, b := 0, len(s)-1; a < b; a, b = a+1, b-1 {
		s[a], s[b] = s[b], s[a]
	}
}

func reverseInts(s []int) {
	for a, b := 0, len(s)-1; a < b; a, b = a+1, b-1 {
		s[a], s[b] = s[b], s[a]
	}
}
