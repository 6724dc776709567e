// Package fastq holds sequencing reads, the streaming reader that produces
// them, and the four-line record format they are written back in.
package fastq

import (
	"math"

	"github.com/pkg/errors"
)

// Read is one sequencing read. Seq and Qual have the same length and are
// never modified once the Read is built.
type Read struct {
	ID   []byte
	Seq  []byte
	Qual []byte
}

// Len is the number of bases in r.
func (r *Read) Len() int { return len(r.Seq) }

// Prefix is the first p bases of r.
func (r *Read) Prefix(p int) []byte { return r.Seq[:p] }

// Suffix is the last p bases of r.
func (r *Read) Suffix(p int) []byte { return r.Seq[len(r.Seq)-p:] }

// ErrEmptyRegion is returned when a trim region holds no bases.
var ErrEmptyRegion = errors.New("empty trim region")

// AppendRecord appends the FASTQ record of r restricted to [start, end) to
// buf. start is clamped to 0 and end to r.Len(); a region left empty after
// clamping returns ErrEmptyRegion and buf unchanged.
func AppendRecord(buf []byte, r *Read, start, end int) ([]byte, error) {
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	if start >= end {
		return buf, errors.Wrapf(ErrEmptyRegion, "read %s: start=%d, end=%d", r.ID, start, end)
	}
	buf = append(buf, '@')
	buf = append(buf, r.ID...)
	buf = append(buf, '\n')
	buf = append(buf, r.Seq[start:end]...)
	buf = append(buf, '\n', '+', '\n')
	buf = append(buf, r.Qual[start:end]...)
	buf = append(buf, '\n')
	return buf, nil
}

// AverageQuality is the Phred score of the mean error probability of a
// Phred+33 quality string.
func AverageQuality(qual []byte) float64 {
	if len(qual) == 0 {
		return 0
	}
	var sum float64
	for _, q := range qual {
		sum += math.Pow(10, float64(int(q)-33)/-10)
	}
	return -10 * math.Log10(sum/float64(len(qual)))
}
