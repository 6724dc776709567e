// Package barcode loads barcode tables and derives the reverse complements
// used to find barcodes on the far end of a read.
package barcode

import (
	"bytes"
)

// Schema is the layout of a barcode table.
type Schema int

const (
	// Single tables have one pattern per barcode (name,forward).
	Single Schema = iota + 1
	// Dual tables have one pattern per read end (name,forward,reverse).
	Dual
)

func (s Schema) String() string {
	switch s {
	case Single:
		return "single"
	case Dual:
		return "dual"
	default:
		return "unknown"
	}
}

// Barcode is one row of a barcode table. Reverse is empty for single
// barcodes; ForwardRC and ReverseRC are filled in by New.
type Barcode struct {
	Name    string
	Forward []byte
	Reverse []byte

	ForwardRC []byte
	ReverseRC []byte
}

// New builds a Barcode and derives its reverse complements.
func New(name string, forward, reverse []byte) *Barcode {
	b := &Barcode{
		Name:    name,
		Forward: bytes.ToUpper(forward),
	}
	b.ForwardRC = ReverseComplement(b.Forward)
	if len(reverse) > 0 {
		b.Reverse = bytes.ToUpper(reverse)
		b.ReverseRC = ReverseComplement(b.Reverse)
	}
	return b
}

// MaxLen is the length of the longest pattern of b.
func (b *Barcode) MaxLen() int {
	if len(b.Reverse) > len(b.Forward) {
		return len(b.Reverse)
	}
	return len(b.Forward)
}

// Complement returns the Watson-Crick partner of a base. Anything other than
// A, C, G or T complements to N.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	default:
		return 'N'
	}
}

// ReverseComplement returns a new slice holding the reverse complement of s.
func ReverseComplement(s []byte) []byte {
	rc := make([]byte, len(s))
	for i, c := range s {
		rc[len(s)-1-i] = Complement(c)
	}
	return rc
}
