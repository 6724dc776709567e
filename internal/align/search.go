// Package align finds short patterns in read windows under a bounded edit
// distance.
package align

// Searcher runs bounded edit-distance searches. It keeps its dynamic
// programming columns between calls, so a Searcher must not be shared
// between goroutines.
type Searcher struct {
	prev []int
	cur  []int
}

// NewSearcher returns a Searcher with scratch space for needles up to
// maxNeedle bases. Longer needles grow the buffers on demand.
func NewSearcher(maxNeedle int) *Searcher {
	s := &Searcher{}
	s.grow(maxNeedle + 1)
	return s
}

func (s *Searcher) grow(n int) {
	if cap(s.prev) >= n {
		s.prev = s.prev[:n]
		s.cur = s.cur[:n]
		return
	}
	s.prev = make([]int, n)
	s.cur = make([]int, n)
}

// Search looks for needle anywhere in haystack with at most k unit-cost
// insertions, deletions and substitutions. It returns the smallest end
// offset j in [len(needle), len(haystack)] such that needle is within k edits
// of a substring of haystack ending at j.
//
// The leftmost qualifying end wins even when a later end has a lower
// distance; trim points depend on this.
func (s *Searcher) Search(haystack, needle []byte, k int) (end int, ok bool) {
	n, m := len(needle), len(haystack)
	if k < 0 || k > n || n > m {
		return 0, false
	}
	if n == 0 {
		return 0, true
	}
	s.grow(n + 1)
	prev, cur := s.prev, s.cur

	// column 0: dp[i][0] = i
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= m; j++ {
		c := haystack[j-1]
		cur[0] = 0 // the match may start anywhere
		for i := 1; i <= n; i++ {
			if needle[i-1] == c {
				cur[i] = prev[i-1]
				continue
			}
			v := prev[i-1]
			if prev[i] < v {
				v = prev[i]
			}
			if cur[i-1] < v {
				v = cur[i-1]
			}
			cur[i] = v + 1
		}
		if j >= n && cur[n] <= k {
			return j, true
		}
		prev, cur = cur, prev
	}
	return 0, false
}

// Search is a convenience wrapper that allocates a fresh Searcher.
func Search(haystack, needle []byte, k int) (int, bool) {
	return NewSearcher(len(needle)).Search(haystack, needle, k)
}

// Distance returns the Levenshtein distance between a and b.
func Distance(a, b []byte) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1]
				continue
			}
			cur[j] = 1 + min(prev[j-1], prev[j], cur[j-1])
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
