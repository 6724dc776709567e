package demux

import (
	"github.com/Altius/stampipes/programs/nanomux/internal/align"
	"github.com/Altius/stampipes/programs/nanomux/internal/barcode"
	"github.com/Altius/stampipes/programs/nanomux/internal/fastq"
)

// Orientation tells which patterns were found at which read end.
type Orientation int

const (
	// SingleForward: forward pattern at the start of the read.
	SingleForward Orientation = iota + 1
	// SingleReverse: reverse complement of forward at the end.
	SingleReverse
	// DualForward: forward at the start, rc(reverse) at the end.
	DualForward
	// DualReverse: reverse at the start, rc(forward) at the end.
	DualReverse
)

func (o Orientation) String() string {
	switch o {
	case SingleForward:
		return "single/forward"
	case SingleReverse:
		return "single/reverse"
	case DualForward:
		return "dual/forward"
	case DualReverse:
		return "dual/reverse"
	}
	return "none"
}

// Match is a read matched to a barcode. [Start, End) is the region to
// write, in read coordinates.
type Match struct {
	Start, End  int
	Orientation Orientation
}

// Resolver finds a barcode at the ends of a read.
type Resolver struct {
	Window  int
	MaxDist int
	Schema  barcode.Schema
	Trim    bool
}

// Resolve searches read's end windows for bc. It reports false when the
// barcode is absent or the region between the two hits is empty.
func (r Resolver) Resolve(s *align.Searcher, read *fastq.Read, bc *barcode.Barcode) (Match, bool) {
	if read.Len() <= r.Window {
		return Match{}, false
	}
	prefix, suffix := read.Prefix(r.Window), read.Suffix(r.Window)

	if r.Schema == barcode.Dual {
		if m, ok := r.dual(s, read, prefix, suffix, bc.Forward, bc.ReverseRC, len(bc.Reverse), DualForward); ok {
			return m, true
		}
		return r.dual(s, read, prefix, suffix, bc.Reverse, bc.ForwardRC, len(bc.Forward), DualReverse)
	}

	if e, ok := s.Search(prefix, bc.Forward, r.MaxDist); ok {
		return r.region(read, e, read.Len(), SingleForward)
	}
	if e, ok := s.Search(suffix, bc.ForwardRC, r.MaxDist); ok {
		return r.region(read, 0, r.suffixEnd(read, e, len(bc.Forward)), SingleReverse)
	}
	return Match{}, false
}

// dual requires head in the prefix window and tail in the suffix window.
// tailLen is the length of the pattern tail was derived from.
func (r Resolver) dual(s *align.Searcher, read *fastq.Read, prefix, suffix, head, tail []byte, tailLen int, o Orientation) (Match, bool) {
	start, ok := s.Search(prefix, head, r.MaxDist)
	if !ok {
		return Match{}, false
	}
	e, ok := s.Search(suffix, tail, r.MaxDist)
	if !ok {
		return Match{}, false
	}
	return r.region(read, start, r.suffixEnd(read, e, tailLen), o)
}

// suffixEnd moves a suffix-window end offset to read coordinates and steps
// back over the barcode itself.
func (r Resolver) suffixEnd(read *fastq.Read, e, patternLen int) int {
	return read.Len() - r.Window + e - patternLen
}

func (r Resolver) region(read *fastq.Read, start, end int, o Orientation) (Match, bool) {
	if end <= start {
		return Match{}, false
	}
	if !r.Trim {
		start, end = 0, read.Len()
	}
	return Match{Start: start, End: end, Orientation: o}, true
}
