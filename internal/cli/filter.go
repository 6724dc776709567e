package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Altius/stampipes/programs/nanomux/internal/filter"
	"github.com/Altius/stampipes/programs/nanomux/internal/report"
)

func newFilterCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Drop reads by length and mean quality",
		Long: `Drop reads by length and mean quality

Reads of every input file that are at least --min-len and at most --max-len
bases long, with a mean Phred quality of at least --min-qual, are appended to
<outdir>/<file>_nanotrim.fq.gz. Per-file counts go to nanotrim_log.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := filterConfig(cmd)
			if err != nil {
				return err
			}
			return g.runWith(func(ctx context.Context) error {
				return runFilter(ctx, cfg, g)
			})
		},
	}

	def := filter.DefaultConfig()
	f := cmd.Flags()
	f.StringSliceP("fastq", "f", nil, "FASTQ file or folder, repeatable")
	f.StringP("outdir", "o", "", "output folder")
	f.IntP("min-len", "r", def.MinLen, "minimum read length")
	f.IntP("max-len", "R", def.MaxLen, "maximum read length")
	f.Float64P("min-qual", "q", def.MinQual, "minimum mean quality")
	f.IntP("threads", "j", def.Threads, "worker threads")
	f.Int("batch-size", def.BatchSize, "reads held in memory per round")
	f.String("format", def.Format, "output compression: gz or zst")
	f.String("config", "", "settings `file` (json, yaml or toml)")
	return cmd
}

func filterConfig(cmd *cobra.Command) (filter.Config, error) {
	cfg := filter.DefaultConfig()
	if err := loadConfig(cmd, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func runFilter(ctx context.Context, cfg filter.Config, g *globals) error {
	log.Infof("nanomux %s filter: length %d-%d, quality >= %g, threads: %d",
		VERSION, cfg.MinLen, cfg.MaxLen, cfg.MinQual, cfg.Threads)
	stats, err := filter.Run(ctx, cfg, g.tracker("filter"))
	if stats == nil {
		return err
	}
	if rerr := report.WriteFilterLog(cfg.OutDir, stats); rerr != nil && err == nil {
		err = rerr
	}
	return err
}
