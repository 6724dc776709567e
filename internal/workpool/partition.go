package workpool

// Span is the half-open index range [Lo, Hi).
type Span struct {
	Lo, Hi int
}

// Len is the number of indexes in s.
func (s Span) Len() int { return s.Hi - s.Lo }

// Partition splits [0, n) into at most parts contiguous spans whose lengths
// differ by at most one. Empty spans are omitted.
func Partition(n, parts int) []Span {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	per, rest := n/parts, n%parts
	spans := make([]Span, 0, parts)
	lo := 0
	for i := 0; i < parts; i++ {
		size := per
		if i < rest {
			size++
		}
		spans = append(spans, Span{Lo: lo, Hi: lo + size})
		lo += size
	}
	return spans
}
