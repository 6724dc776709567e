package demux

import (
	logging "github.com/shenwei356/go-logging"

	"github.com/Altius/stampipes/programs/nanomux/internal/align"
	"github.com/Altius/stampipes/programs/nanomux/internal/fastq"
	"github.com/Altius/stampipes/programs/nanomux/internal/workpool"
)

// Dispatcher spreads a batch of reads over a worker pool and writes every
// match to its barcode's resource.
type Dispatcher struct {
	pool     *workpool.Pool
	registry *Registry
	resolver Resolver
	policy   Policy
	debug    bool

	// one searcher and one matched counter per span; span i only ever
	// runs on one worker at a time
	searchers []*align.Searcher
	matched   []int
}

// NewDispatcher returns a Dispatcher running on pool.
func NewDispatcher(pool *workpool.Pool, registry *Registry, resolver Resolver, policy Policy) *Dispatcher {
	d := &Dispatcher{
		pool:      pool,
		registry:  registry,
		resolver:  resolver,
		policy:    policy,
		debug:     log.IsEnabledFor(logging.DEBUG),
		searchers: make([]*align.Searcher, pool.Size()),
		matched:   make([]int, pool.Size()),
	}
	for i := range d.searchers {
		d.searchers[i] = align.NewSearcher(registry.MaxLen())
	}
	return d
}

// Dispatch processes reads and returns once all of them are done. It
// returns the number of reads written to at least one barcode and the first
// write failure.
func (d *Dispatcher) Dispatch(reads []fastq.Read) (matched int, err error) {
	spans := workpool.Partition(len(reads), d.pool.Size())
	for i, span := range spans {
		i := i
		part := reads[span.Lo:span.Hi]
		d.matched[i] = 0
		d.pool.Submit(func() error {
			return d.process(i, part)
		})
	}
	err = d.pool.Wait()
	for i := range spans {
		matched += d.matched[i]
	}
	return matched, err
}

func (d *Dispatcher) process(slot int, reads []fastq.Read) error {
	s := d.searchers[slot]
	for i := range reads {
		read := &reads[i]
		hit := false
		for _, res := range d.registry.resources {
			m, ok := d.resolver.Resolve(s, read, res.Barcode)
			if !ok {
				continue
			}
			if d.debug {
				log.Debugf("%s: %s %s [%d, %d)", read.ID, res.Barcode.Name, m.Orientation, m.Start, m.End)
			}
			if err := res.Write(read, m.Start, m.End); err != nil {
				return err
			}
			hit = true
			if d.policy == FirstMatch {
				break
			}
		}
		if hit {
			d.matched[slot]++
		}
	}
	return nil
}
