// Package filter drops reads that are too short, too long or of low mean
// quality, writing the rest of each input to its own compressed FASTQ file.
package filter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	logging "github.com/shenwei356/go-logging"

	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
	"github.com/Altius/stampipes/programs/nanomux/internal/fastq"
	"github.com/Altius/stampipes/programs/nanomux/internal/progress"
	"github.com/Altius/stampipes/programs/nanomux/internal/sink"
	"github.com/Altius/stampipes/programs/nanomux/internal/workpool"
)

var log = logging.MustGetLogger("nanomux")

// Stats counts what happened to the reads of one input file.
type Stats struct {
	File   string
	Output string

	Raw        int
	Passed     int
	Short      int
	Long       int
	LowQuality int
}

func (s *Stats) add(o Stats) {
	s.Raw += o.Raw
	s.Passed += o.Passed
	s.Short += o.Short
	s.Long += o.Long
	s.LowQuality += o.LowQuality
}

// OutputPath is where the passing reads of file go.
func OutputPath(outdir, file string, f sink.Format) string {
	base := filepath.Base(file)
	if file == "-" {
		base = "stdin"
	}
	return sink.Path(outdir, base+"_nanotrim", f)
}

// Run filters every file of cfg.Inputs in turn. The returned stats cover the
// files processed so far, also when an error is returned.
func Run(ctx context.Context, cfg Config, tracker progress.Tracker) ([]Stats, error) {
	if tracker == nil {
		tracker = progress.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, _ := sink.ParseFormat(cfg.Format)

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

	pool, err := workpool.New(cfg.Threads)
	if err != nil {
		return nil, apperr.Wrap(apperr.Config, "threads", err)
	}
	defer pool.Close()

	f := &filterer{cfg: cfg, pool: pool, parts: make([]Stats, pool.Size())}
	var all []Stats
	for _, file := range files {
		stats := Stats{File: file, Output: OutputPath(cfg.OutDir, file, format)}
		err := f.file(ctx, &stats, format, tracker)
		all = append(all, stats)
		log.Infof("%s: %s raw reads (%s passed), too short: %s, too long: %s, low quality: %s",
			file, humanize.Comma(int64(stats.Raw)), humanize.Comma(int64(stats.Passed)),
			humanize.Comma(int64(stats.Short)), humanize.Comma(int64(stats.Long)),
			humanize.Comma(int64(stats.LowQuality)))
		if err != nil {
			tracker.Done()
			return all, err
		}
	}
	tracker.Done()
	return all, nil
}

type filterer struct {
	cfg   Config
	pool  *workpool.Pool
	parts []Stats // one per span, summed after each batch

	mu  sync.Mutex
	out io.Writer
	buf []byte
}

func (f *filterer) file(ctx context.Context, stats *Stats, format sink.Format, tracker progress.Tracker) (err error) {
	r, err := fastq.Open(stats.File)
	if err != nil {
		return apperr.Wrap(apperr.Resource, "input", err)
	}
	defer r.Close()

	w, err := sink.Open(stats.Output, format)
	if err != nil {
		return apperr.Wrap(apperr.Resource, "open sink", err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = apperr.Wrap(apperr.Write, stats.Output, cerr)
		}
	}()
	f.out = w

	batch := fastq.NewBatch(f.cfg.BatchSize)
	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		err := f.dispatch(batch.Reads(), stats)
		batch.Reset()
		if err != nil {
			return err
		}
		return ctx.Err()
	}
	for {
		read, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return apperr.Wrap(apperr.Resource, "input", err)
		}
		tracker.Add(1)
		if batch.Add(read) {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func (f *filterer) dispatch(reads []fastq.Read, stats *Stats) error {
	spans := workpool.Partition(len(reads), f.pool.Size())
	for i, span := range spans {
		i := i
		part := reads[span.Lo:span.Hi]
		f.parts[i] = Stats{}
		f.pool.Submit(func() error {
			return f.process(&f.parts[i], part)
		})
	}
	err := f.pool.Wait()
	for i := range spans {
		stats.add(f.parts[i])
	}
	return err
}

func (f *filterer) process(stats *Stats, reads []fastq.Read) error {
	for i := range reads {
		read := &reads[i]
		stats.Raw++
		switch {
		case read.Len() < f.cfg.MinLen, read.Len() == 0:
			stats.Short++
			continue
		case read.Len() > f.cfg.MaxLen:
			stats.Long++
			continue
		case fastq.AverageQuality(read.Qual) < f.cfg.MinQual:
			stats.LowQuality++
			continue
		}
		if err := f.write(read); err != nil {
			return err
		}
		stats.Passed++
	}
	return nil
}

func (f *filterer) write(read *fastq.Read) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf, err := fastq.AppendRecord(f.buf[:0], read, 0, read.Len())
	if err != nil {
		return apperr.Wrap(apperr.Write, "filter", err)
	}
	f.buf = buf
	if _, err := f.out.Write(buf); err != nil {
		return apperr.Wrap(apperr.Write, "filter", err)
	}
	return nil
}
