package demux

import (
	"strings"
	"testing"

	"github.com/Altius/stampipes/programs/nanomux/internal/align"
	"github.com/Altius/stampipes/programs/nanomux/internal/barcode"
	"github.com/Altius/stampipes/programs/nanomux/internal/fastq"
)

func newRead(id, seq string) fastq.Read {
	return fastq.Read{
		ID:   []byte(id),
		Seq:  []byte(seq),
		Qual: []byte(strings.Repeat("I", len(seq))),
	}
}

func TestResolve(t *testing.T) {
	type test struct {
		name     string
		resolver Resolver
		bc       *barcode.Barcode
		seq      string
		ok       bool
		want     Match
		trimmed  string
	}

	single := func(window int, trim bool) Resolver {
		return Resolver{Window: window, Schema: barcode.Single, Trim: trim}
	}
	dual := func(window int, trim bool) Resolver {
		return Resolver{Window: window, Schema: barcode.Dual, Trim: trim}
	}

	tests := []test{
		{
			name:     "single forward",
			resolver: single(6, true),
			bc:       barcode.New("bc", []byte("ACGT"), nil),
			seq:      "GGACGTCCCCCCCCCCAAAA",
			ok:       true,
			want:     Match{Start: 6, End: 20, Orientation: SingleForward},
			trimmed:  "CCCCCCCCCCAAAA",
		},
		{
			name:     "single forward untrimmed",
			resolver: single(6, false),
			bc:       barcode.New("bc", []byte("ACGT"), nil),
			seq:      "GGACGTCCCCCCCCCCAAAA",
			ok:       true,
			want:     Match{Start: 0, End: 20, Orientation: SingleForward},
			trimmed:  "GGACGTCCCCCCCCCCAAAA",
		},
		{
			name:     "single reverse",
			resolver: single(6, true),
			bc:       barcode.New("bc", []byte("AACC"), nil),
			seq:      "CCCCCCCCCCCCGGTTAA",
			ok:       true,
			want:     Match{Start: 0, End: 12, Orientation: SingleReverse},
			trimmed:  "CCCCCCCCCCCC",
		},
		{
			name:     "single absent",
			resolver: single(6, true),
			bc:       barcode.New("bc", []byte("AACC"), nil),
			seq:      "CCCCCCCCCCCCCCCCCC",
		},
		{
			name:     "dual forward",
			resolver: dual(4, true),
			bc:       barcode.New("bc1", []byte("ACGT"), []byte("TGCA")),
			seq:      "ACGT" + "TTTTTTTT" + "TGCA",
			ok:       true,
			want:     Match{Start: 4, End: 12, Orientation: DualForward},
			trimmed:  "TTTTTTTT",
		},
		{
			name:     "dual reverse",
			resolver: dual(4, true),
			bc:       barcode.New("bc", []byte("AACC"), []byte("GTGT")),
			seq:      "GTGT" + "CATCATCATC" + "GGTT",
			ok:       true,
			want:     Match{Start: 4, End: 14, Orientation: DualReverse},
			trimmed:  "CATCATCATC",
		},
		{
			// forward is in the prefix but rc(reverse) is not in the suffix,
			// so the second orientation is tried
			name:     "dual falls back after half match",
			resolver: dual(8, true),
			bc:       barcode.New("bc", []byte("AAAA"), []byte("CCCC")),
			seq:      "CCCCAAAA" + "GATCGATC" + "TTTT",
			ok:       true,
			want:     Match{Start: 4, End: 16, Orientation: DualReverse},
			trimmed:  "AAAAGATCGATC",
		},
		{
			name:     "dual empty region rejected",
			resolver: dual(7, true),
			bc:       barcode.New("bc", []byte("ACGT"), []byte("TGCA")),
			seq:      "ACGTTGCA",
		},
		{
			name:     "dual empty region rejected untrimmed",
			resolver: dual(7, false),
			bc:       barcode.New("bc", []byte("ACGT"), []byte("TGCA")),
			seq:      "ACGTTGCA",
		},
		{
			name:     "read not longer than window",
			resolver: single(8, true),
			bc:       barcode.New("bc", []byte("ACGT"), nil),
			seq:      "ACGTACGT",
		},
		{
			name:     "single forward within one edit",
			resolver: Resolver{Window: 6, MaxDist: 1, Schema: barcode.Single, Trim: true},
			bc:       barcode.New("bc", []byte("ACGT"), nil),
			seq:      "GGACTTCCCCCCCCCCAAAA",
			ok:       true,
			// ACT already ends within one edit of ACGT
			want:    Match{Start: 5, End: 20, Orientation: SingleForward},
			trimmed: "TCCCCCCCCCCAAAA",
		},
	}

	s := align.NewSearcher(8)
	for _, test := range tests {
		read := newRead("r1", test.seq)
		got, ok := test.resolver.Resolve(s, &read, test.bc)
		if ok != test.ok {
			t.Errorf("%s: matched = %v, want %v (%+v)", test.name, ok, test.ok, got)
			continue
		}
		if !ok {
			continue
		}
		if got != test.want {
			t.Errorf("%s: got %+v, want %+v", test.name, got, test.want)
		}
		if trimmed := test.seq[got.Start:got.End]; trimmed != test.trimmed {
			t.Errorf("%s: trimmed to %q, want %q", test.name, trimmed, test.trimmed)
		}
	}
}
