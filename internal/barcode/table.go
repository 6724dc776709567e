package barcode

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"

	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
)

// Documentation describes the accepted barcode table layouts. It is attached
// to header errors so the CLI can show it.
const Documentation = `You can use either single barcodes, or dual barcodes

Dual barcodes example:
name,forward,reverse
barcode1,ACTATCTACTA,GAGCATGTCGTA
barcode2,AGCGTATGCTGGTA,AGCATGCTATCG

Single barcode example:
name,forward
barcode1,ACTATCTACTA
barcode2,AGCGTATGCTGGTA
`

// Table is a parsed barcode file. Barcodes keep file order.
type Table struct {
	Schema   Schema
	Barcodes []*Barcode
}

// Load reads a barcode table from file. Compressed files are accepted.
func Load(file string) (*Table, error) {
	r, err := xopen.Ropen(file)
	if err != nil {
		return nil, apperr.Wrap(apperr.Resource, "open barcode file", errors.Wrap(err, file))
	}
	defer r.Close()

	t, err := Parse(r)
	if err != nil {
		return nil, errors.WithMessage(err, file)
	}
	return t, nil
}

// SchemaOf infers the schema from a header row.
func SchemaOf(header []string) (Schema, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	switch len(cols) {
	case 2:
		if cols[0] == "name" && cols[1] == "forward" {
			return Single, nil
		}
	case 3:
		if cols[0] == "name" && cols[1] == "forward" && cols[2] == "reverse" {
			return Dual, nil
		}
	default:
		return 0, apperr.Configf("barcode header", "wrong amount of barcode headers: %d", len(cols)).
			WithHelp(Documentation)
	}
	return 0, apperr.Configf("barcode header", "incorrect headers %q", strings.Join(cols, ",")).
		WithHelp(Documentation)
}

// Parse reads a barcode table: a header followed by one barcode per row.
// Blank rows are skipped.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperr.Configf("barcode header", "empty barcode file").WithHelp(Documentation)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Config, "barcode header", err)
	}
	schema, err := SchemaOf(header)
	if err != nil {
		return nil, err
	}

	t := &Table{Schema: schema}
	seen := make(map[string]int)
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Config, "barcode row", err)
		}
		row++
		if len(rec) > len(header) {
			return nil, apperr.Configf("barcode row",
				"row %d contains %d fields, expected %d", row, len(rec), len(header)).WithHelp(Documentation)
		}
		fields := make([]string, len(header))
		for i, f := range rec {
			fields[i] = strings.TrimSpace(f)
		}
		if fields[0] == "" {
			return nil, apperr.Configf("barcode row", "row %d has no name", row)
		}
		if fields[1] == "" {
			return nil, apperr.Configf("barcode row", "row %d (%s) has no forward barcode", row, fields[0])
		}
		var reverse string
		if schema == Dual {
			reverse = fields[2]
			if reverse == "" {
				return nil, apperr.Configf("barcode row", "row %d (%s) has no reverse barcode", row, fields[0])
			}
		}
		if prev, dup := seen[fields[0]]; dup {
			return nil, apperr.Configf("barcode row", "row %d repeats the name %q from row %d", row, fields[0], prev)
		}
		seen[fields[0]] = row
		t.Barcodes = append(t.Barcodes, New(fields[0], []byte(fields[1]), []byte(reverse)))
	}
	if len(t.Barcodes) == 0 {
		return nil, apperr.Configf("barcode table", "no barcodes found")
	}
	return t, nil
}

// ValidateMaxDist checks that k does not exceed any pattern length. A
// larger k would make every pattern match everywhere.
func (t *Table) ValidateMaxDist(k int) error {
	if k < 0 {
		return apperr.Configf("max distance", "k must not be negative, got %d", k)
	}
	for _, b := range t.Barcodes {
		if k > len(b.Forward) {
			return apperr.Configf("max distance", "k=%d is larger than forward barcode %s (%d bases)",
				k, b.Name, len(b.Forward))
		}
		if t.Schema == Dual && k > len(b.Reverse) {
			return apperr.Configf("max distance", "k=%d is larger than reverse barcode %s (%d bases)",
				k, b.Name, len(b.Reverse))
		}
	}
	return nil
}

// MaxLen is the longest pattern in the table.
func (t *Table) MaxLen() int {
	n := 0
	for _, b := range t.Barcodes {
		if l := b.MaxLen(); l > n {
			n = l
		}
	}
	return n
}
