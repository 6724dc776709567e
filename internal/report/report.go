// Package report writes the summary files of a run next to its outputs.
// They are rewritten on every run; a missing output folder is created.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"

	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
	"github.com/Altius/stampipes/programs/nanomux/internal/demux"
	"github.com/Altius/stampipes/programs/nanomux/internal/filter"
)

const (
	MatchesFile   = "nanomux_matches.csv"
	RunLogFile    = "nanomux.log"
	FilterLogFile = "nanotrim_log.csv"
)

// Run identifies one invocation in its log.
type Run struct {
	ID      uuid.UUID
	Version string
	Start   time.Time
}

// NewRun starts a run now.
func NewRun(version string) Run {
	return Run{ID: uuid.New(), Version: version, Start: time.Now()}
}

func create(dir, name string, fill func(io.Writer) error) (err error) {
	path := filepath.Join(dir, name)
	w, err := xopen.Wopen(path)
	if err != nil {
		return apperr.Wrap(apperr.Resource, "report", errors.Wrapf(err, "create %s", path))
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = apperr.Wrap(apperr.Resource, "report", errors.Wrapf(cerr, "close %s", path))
		}
	}()
	if err := fill(w); err != nil {
		return apperr.Wrap(apperr.Resource, "report", errors.Wrapf(err, "write %s", path))
	}
	// Close does not report buffered write failures
	if err := w.Writer.Flush(); err != nil {
		return apperr.Wrap(apperr.Resource, "report", errors.Wrapf(err, "write %s", path))
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteMatches writes one "barcode,matches" row per barcode in table order.
func WriteMatches(dir string, counts []demux.Count) error {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Name, strconv.Itoa(c.Matches)}
	}
	return create(dir, MatchesFile, func(w io.Writer) error {
		return writeCSV(w, []string{"barcode", "matches"}, rows)
	})
}

// WriteFilterLog writes the per-file counters of a filter run.
func WriteFilterLog(dir string, stats []filter.Stats) error {
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{s.File,
			strconv.Itoa(s.Raw), strconv.Itoa(s.Passed),
			strconv.Itoa(s.Short), strconv.Itoa(s.Long), strconv.Itoa(s.LowQuality)}
	}
	return create(dir, FilterLogFile, func(w io.Writer) error {
		return writeCSV(w, []string{"file", "raw_reads", "passed_reads", "short", "long", "bad_quality"}, rows)
	})
}

// WriteRunLog writes the settings and totals of a demultiplexing run.
func WriteRunLog(dir string, run Run, cfg demux.Config, res *demux.Result) error {
	return create(dir, RunLogFile, func(w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "Nanomux %s\n\n", run.Version)
		fmt.Fprintf(&b, "Run ID: %s\n", run.ID)
		fmt.Fprintf(&b, "Started: %s\n", run.Start.Format(time.RFC3339))
		fmt.Fprintf(&b, "Elapsed: %s\n", time.Since(run.Start).Round(time.Millisecond))
		fmt.Fprintf(&b, "Barcodes: %s\n", cfg.Barcodes)
		fmt.Fprintf(&b, "Fastq: %s\n", strings.Join(cfg.Inputs, " "))
		fmt.Fprintf(&b, "Barcode position: %d\n", cfg.Window)
		fmt.Fprintf(&b, "k: %d\n", cfg.MaxDist)
		fmt.Fprintf(&b, "Trim: %t\n", cfg.Trim)
		fmt.Fprintf(&b, "Threads: %d\n", cfg.Threads)
		fmt.Fprintf(&b, "Batch size: %d\n", cfg.BatchSize)
		fmt.Fprintf(&b, "Policy: %s\n", cfg.Policy)
		fmt.Fprintf(&b, "Format: %s\n", cfg.Format)
		fmt.Fprintf(&b, "Output folder: %s\n\n", cfg.OutDir)
		if res != nil {
			fmt.Fprintf(&b, "Schema: %s\n", res.Schema)
			fmt.Fprintf(&b, "Processed %d reads\n", res.TotalReads)
			fmt.Fprintf(&b, "Reads shorter than p: %d reads\n", res.ShortReads)
			fmt.Fprintf(&b, "Matched %d reads\n\n", res.MatchedReads)
			for _, c := range res.Counts {
				fmt.Fprintf(&b, "%s: %d\n", c.Name, c.Matches)
			}
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}
