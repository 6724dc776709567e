package cli

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Altius/stampipes/programs/nanomux/internal/barcode"
	"github.com/Altius/stampipes/programs/nanomux/internal/demux"
	"github.com/Altius/stampipes/programs/nanomux/internal/report"
)

func newDemuxCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demux",
		Short: "Assign reads to barcodes and write one FASTQ file per barcode",
		Long: `Assign reads to barcodes and write one FASTQ file per barcode

Each barcode is searched in the first and last --window bases of a read,
allowing up to --max-dist edits. A read is written to the first barcode it
matches (--policy all writes it to every match). Outputs are appended to
<outdir>/<barcode>.fq.gz, and nanomux.log and nanomux_matches.csv summarise
the run.

` + barcode.Documentation,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := demuxConfig(cmd)
			if err != nil {
				return err
			}
			return g.runWith(func(ctx context.Context) error {
				return runDemux(ctx, cfg, g)
			})
		},
	}

	def := demux.DefaultConfig()
	f := cmd.Flags()
	f.StringP("barcodes", "b", "", "barcode table (csv)")
	f.StringSliceP("fastq", "f", nil, "FASTQ file or folder, repeatable")
	f.StringP("outdir", "o", "", "output folder")
	f.IntP("window", "p", def.Window, "bases searched at each end of a read")
	f.IntP("max-dist", "k", def.MaxDist, "edits allowed per barcode")
	f.BoolP("trim", "t", def.Trim, "trim barcodes and outer bases from written reads")
	f.IntP("threads", "j", def.Threads, "worker threads")
	f.Int("batch-size", def.BatchSize, "reads held in memory per round")
	f.String("policy", def.Policy, "barcodes per read: first or all")
	f.String("format", def.Format, "output compression: gz or zst")
	f.String("config", "", "settings `file` (json, yaml or toml)")
	return cmd
}

func demuxConfig(cmd *cobra.Command) (demux.Config, error) {
	cfg := demux.DefaultConfig()
	if err := loadConfig(cmd, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func runDemux(ctx context.Context, cfg demux.Config, g *globals) error {
	run := report.NewRun(VERSION)
	log.Infof("nanomux %s, run %s", VERSION, run.ID)
	log.Infof("barcodes: %s, window: %d, k: %d, trim: %t, threads: %d",
		cfg.Barcodes, cfg.Window, cfg.MaxDist, cfg.Trim, cfg.Threads)

	res, err := demux.Run(ctx, cfg, g.tracker("demux"))
	if res == nil {
		return err
	}
	for _, c := range res.Counts {
		log.Infof("%-20s %12s reads", c.Name, humanize.Comma(int64(c.Matches)))
	}
	if rerr := report.WriteRunLog(cfg.OutDir, run, cfg, res); rerr != nil && err == nil {
		err = rerr
	}
	if rerr := report.WriteMatches(cfg.OutDir, res.Counts); rerr != nil && err == nil {
		err = rerr
	}
	if err == nil {
		log.Info("nanomux done!")
	}
	return err
}
