package filter

import (
	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
	"github.com/Altius/stampipes/programs/nanomux/internal/sink"
)

// Config is the specification of one filter run.
type Config struct {
	Inputs []string `mapstructure:"fastq" json:"inputs"`
	OutDir string   `mapstructure:"outdir" json:"outdir"`

	MinLen  int     `mapstructure:"min-len" json:"min-len"`
	MaxLen  int     `mapstructure:"max-len" json:"max-len"`
	MinQual float64 `mapstructure:"min-qual" json:"min-qual"` // mean Phred score

	Threads   int    `mapstructure:"threads" json:"threads"`
	BatchSize int    `mapstructure:"batch-size" json:"batch-size"`
	Format    string `mapstructure:"format" json:"format"`
}

// DefaultConfig keeps every read of up to a million bases.
func DefaultConfig() Config {
	return Config{
		MaxLen:    1000 * 1000,
		Threads:   1,
		BatchSize: 2 * 1000,
		Format:    string(sink.Gzip),
	}
}

// Validate checks the settings that can be checked without touching files.
func (c *Config) Validate() error {
	switch {
	case len(c.Inputs) == 0:
		return apperr.Configf("config", "at least one fastq input is required")
	case c.OutDir == "":
		return apperr.Configf("config", "an output folder is required")
	case c.MinLen < 0:
		return apperr.Configf("config", "minimum length must not be negative, got %d", c.MinLen)
	case c.MaxLen < c.MinLen:
		return apperr.Configf("config", "maximum length %d is below the minimum %d", c.MaxLen, c.MinLen)
	case c.MinQual < 0:
		return apperr.Configf("config", "minimum quality must not be negative, got %g", c.MinQual)
	case c.Threads < 1:
		return apperr.Configf("config", "at least one thread is required, got %d", c.Threads)
	case c.BatchSize < 1:
		return apperr.Configf("config", "batch size must be positive, got %d", c.BatchSize)
	}
	if _, err := sink.ParseFormat(c.Format); err != nil {
		return apperr.Wrap(apperr.Config, "config", err)
	}
	return nil
}
