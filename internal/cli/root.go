// Package cli is the nanomux command line.
package cli

import (
	"context"
	"os"
	"os/signal"

	logging "github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"

	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
	"github.com/Altius/stampipes/programs/nanomux/internal/progress"
)

// VERSION of nanomux.
const VERSION = "2.0.0"

var log = logging.MustGetLogger("nanomux")

// globals are the flags shared by every subcommand.
type globals struct {
	cpuprofile string
	memprofile string
	verbose    bool
	quiet      bool
	progress   bool
}

func newRootCmd() (*cobra.Command, *globals) {
	g := &globals{}
	root := &cobra.Command{
		Use:   "nanomux",
		Short: "Demultiplex and filter nanopore reads",
		Long: `Demultiplex and filter nanopore reads

"nanomux demux" finds barcodes near the ends of each read, allowing a bounded
number of edits, and writes every matching read (optionally trimmed) to the
compressed FASTQ file of its barcode.

"nanomux filter" drops reads by length and mean quality.`,
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(g)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.cpuprofile, "cpuprofile", "", "write cpu profile to `file`")
	pf.StringVar(&g.memprofile, "memprofile", "", "write memory profile to `file`")
	pf.BoolVar(&g.verbose, "verbose", false, "log every skipped read")
	pf.BoolVar(&g.quiet, "quiet", false, "only log warnings and errors")
	pf.BoolVar(&g.progress, "progress", false, "draw a live read counter on stderr")

	root.AddCommand(newDemuxCmd(g), newFilterCmd(g))
	return root, g
}

func setupLogging(g *globals) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:2006-01-02 15:04:05} [%{level:.4s}] %{message}`)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	switch {
	case g.verbose:
		leveled.SetLevel(logging.DEBUG, "")
	case g.quiet:
		leveled.SetLevel(logging.WARNING, "")
	default:
		leveled.SetLevel(logging.INFO, "")
	}
	logging.SetBackend(leveled)
}

func (g *globals) tracker(label string) progress.Tracker {
	if !g.progress {
		return progress.Nop()
	}
	return progress.NewCounter(os.Stderr, label)
}

// runWith wraps a subcommand body with profiling and interrupt handling.
func (g *globals) runWith(body func(ctx context.Context) error) error {
	stop, err := startProfile(g.cpuprofile)
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := body(ctx); err != nil {
		return err
	}
	return writeMemProfile(g.memprofile)
}

// Execute runs the command line and reports a failure on the log. The exit
// code is left to the caller.
func Execute() error {
	root, _ := newRootCmd()
	err := root.Execute()
	if err != nil {
		log.Errorf("%s", err)
		if help := apperr.HelpOf(err); help != "" {
			os.Stderr.WriteString(help + "\n")
		}
	}
	return err
}
