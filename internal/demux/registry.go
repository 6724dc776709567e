package demux

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
	"github.com/Altius/stampipes/programs/nanomux/internal/barcode"
	"github.com/Altius/stampipes/programs/nanomux/internal/fastq"
	"github.com/Altius/stampipes/programs/nanomux/internal/sink"
)

// Resource is a barcode with its output sink and match counter. The
// counter and the sink only change together, under mu.
type Resource struct {
	Barcode *barcode.Barcode
	path    string
	created bool // the sink file did not exist before this run

	mu    sync.Mutex
	sink  io.WriteCloser
	count int
	buf   []byte
}

func newResource(bc *barcode.Barcode, path string, w io.WriteCloser) *Resource {
	return &Resource{Barcode: bc, path: path, sink: w}
}

// Write appends the [start, end) part of read to the sink and counts it.
func (r *Resource) Write(read *fastq.Read, start, end int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, err := fastq.AppendRecord(r.buf[:0], read, start, end)
	if err != nil {
		return apperr.Wrap(apperr.Write, r.Barcode.Name, err)
	}
	r.buf = buf
	if _, err := r.sink.Write(buf); err != nil {
		return apperr.Wrap(apperr.Write, r.Barcode.Name, err)
	}
	r.count++
	return nil
}

// Count is the number of records written so far.
func (r *Resource) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Path is the sink file.
func (r *Resource) Path() string { return r.path }

// Registry holds one Resource per barcode, in table order.
type Registry struct {
	Schema    barcode.Schema
	resources []*Resource
}

// OpenRegistry opens one append-mode sink per barcode in outdir. When a sink
// cannot be opened the ones already open are closed again.
func OpenRegistry(outdir string, t *barcode.Table, f sink.Format) (*Registry, error) {
	g := &Registry{Schema: t.Schema}
	for _, bc := range t.Barcodes {
		path := sink.Path(outdir, bc.Name, f)
		_, statErr := os.Stat(path)
		w, err := sink.Open(path, f)
		if err != nil {
			g.Close(false)
			return nil, apperr.Wrap(apperr.Resource, "open sink", errors.Wrapf(err, "barcode %s", bc.Name))
		}
		r := newResource(bc, path, w)
		r.created = os.IsNotExist(statErr)
		g.resources = append(g.resources, r)
	}
	return g, nil
}

// Resources are the registry entries in table order.
func (g *Registry) Resources() []*Resource { return g.resources }

// MaxLen is the longest barcode pattern in the registry.
func (g *Registry) MaxLen() int {
	n := 0
	for _, r := range g.resources {
		if l := r.Barcode.MaxLen(); l > n {
			n = l
		}
	}
	return n
}

// Count is the number of reads written for one barcode.
type Count struct {
	Name    string
	Matches int
	Path    string
}

// Counts returns the per-barcode counters in table order.
func (g *Registry) Counts() []Count {
	counts := make([]Count, len(g.resources))
	for i, r := range g.resources {
		counts[i] = Count{Name: r.Barcode.Name, Matches: r.Count(), Path: r.path}
	}
	return counts
}

// Close closes every sink and returns the first failure. With removeEmpty,
// files created by this run for barcodes that never matched are deleted.
func (g *Registry) Close(removeEmpty bool) error {
	var first error
	for _, r := range g.resources {
		r.mu.Lock()
		err := r.sink.Close()
		count := r.count
		r.mu.Unlock()
		if err != nil {
			if first == nil {
				first = apperr.Wrap(apperr.Write, r.Barcode.Name, err)
			}
			continue
		}
		if !removeEmpty || count > 0 {
			continue
		}
		if !r.created {
			log.Infof("keeping %s: no matches in this run, records of earlier runs remain", r.path)
			continue
		}
		log.Debugf("deleting empty file %s", r.path)
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) && first == nil {
			first = apperr.Wrap(apperr.Resource, "remove empty sink", err)
		}
	}
	return first
}
