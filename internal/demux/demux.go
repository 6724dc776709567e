// Package demux assigns nanopore reads to barcodes and writes each match,
// trimmed, to its barcode's compressed FASTQ file.
//
// Reads are consumed in batches. Each batch is split over a fixed worker
// pool and completes before the next one is read, so at most one batch is
// held in memory. Within a batch, the order in which reads reach a
// barcode's file is unspecified.
package demux

import (
	"context"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	logging "github.com/shenwei356/go-logging"

	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
	"github.com/Altius/stampipes/programs/nanomux/internal/barcode"
	"github.com/Altius/stampipes/programs/nanomux/internal/fastq"
	"github.com/Altius/stampipes/programs/nanomux/internal/progress"
	"github.com/Altius/stampipes/programs/nanomux/internal/sink"
	"github.com/Altius/stampipes/programs/nanomux/internal/workpool"
)

var log = logging.MustGetLogger("nanomux")

// Result summarises a run.
type Result struct {
	Files  []string
	Schema barcode.Schema

	TotalReads   int // records read, including short ones
	ShortReads   int // records not longer than the window
	MatchedReads int // records written to at least one barcode

	Counts []Count
}

// Run demultiplexes cfg.Inputs. The returned Result is filled as far as the
// run got, also when an error is returned. ctx is checked between batches.
func Run(ctx context.Context, cfg Config, tracker progress.Tracker) (*Result, error) {
	if tracker == nil {
		tracker = progress.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, _ := ParsePolicy(cfg.Policy)
	format, _ := sink.ParseFormat(cfg.Format)

	table, err := barcode.Load(cfg.Barcodes)
	if err != nil {
		return nil, err
	}
	if err := table.ValidateMaxDist(cfg.MaxDist); err != nil {
		return nil, err
	}
	log.Infof("barcode schema: %s, %d barcodes", table.Schema, len(table.Barcodes))

	files, err := fastq.Expand(cfg.Inputs)
	if err != nil {
		return nil, apperr.Wrap(apperr.Resource, "input", err)
	}
	if len(files) == 0 {
		return nil, apperr.Resourcef("input", "no fastq files found in %v", cfg.Inputs)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.Resource, "output folder", err)
	}
	registry, err := OpenRegistry(cfg.OutDir, table, format)
	if err != nil {
		return nil, err
	}

	res := &Result{Files: files, Schema: table.Schema}
	runErr := run(ctx, cfg, registry, policy, res, tracker)
	tracker.Done()

	closeErr := registry.Close(runErr == nil)
	res.Counts = registry.Counts()
	if runErr != nil {
		return res, runErr
	}
	return res, closeErr
}

func run(ctx context.Context, cfg Config, registry *Registry, policy Policy, res *Result, tracker progress.Tracker) error {
	pool, err := workpool.New(cfg.Threads)
	if err != nil {
		return apperr.Wrap(apperr.Config, "threads", err)
	}
	defer pool.Close()

	d := NewDispatcher(pool, registry, Resolver{
		Window:  cfg.Window,
		MaxDist: cfg.MaxDist,
		Schema:  registry.Schema,
		Trim:    cfg.Trim,
	}, policy)
	batch := fastq.NewBatch(cfg.BatchSize)

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		matched, err := d.Dispatch(batch.Reads())
		res.MatchedReads += matched
		batch.Reset()
		if err != nil {
			return err
		}
		return ctx.Err()
	}

	for _, file := range res.Files {
		log.Infof("reading %s", file)
		if err := consume(file, cfg.Window, batch, res, tracker, flush); err != nil {
			return err
		}
	}
	if err := flush(); err != nil {
		return err
	}
	log.Infof("processed %s reads (%s shorter than the window), %s matched",
		humanize.Comma(int64(res.TotalReads)), humanize.Comma(int64(res.ShortReads)),
		humanize.Comma(int64(res.MatchedReads)))
	return nil
}

func consume(file string, window int, batch *fastq.Batch, res *Result, tracker progress.Tracker, flush func() error) error {
	r, err := fastq.Open(file)
	if err != nil {
		return apperr.Wrap(apperr.Resource, "input", err)
	}
	defer r.Close()

	for {
		read, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return apperr.Wrap(apperr.Resource, "input", err)
		}
		res.TotalReads++
		tracker.Add(1)
		if read.Len() <= window {
			res.ShortReads++
			if log.IsEnabledFor(logging.DEBUG) {
				log.Debugf("%s: skipping %s: %d bases, window is %d", apperr.Record, read.ID, read.Len(), window)
			}
			continue
		}
		if batch.Add(read) {
			if err := flush(); err != nil {
				return err
			}
		}
	}
}
