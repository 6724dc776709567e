package demux

import (
	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
	"github.com/Altius/stampipes/programs/nanomux/internal/sink"
)

// Policy decides how many barcodes a read may be written to.
type Policy string

const (
	// FirstMatch writes a read to the first matching barcode in table order.
	FirstMatch Policy = "first"
	// AllMatches writes a read to every barcode it matches.
	AllMatches Policy = "all"
)

// ParsePolicy accepts "first" and "all".
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", FirstMatch:
		return FirstMatch, nil
	case AllMatches:
		return AllMatches, nil
	}
	return "", apperr.Configf("policy", "unknown assignment policy %q (want first or all)", s)
}

// Config is the specification of one demultiplexing run.
type Config struct {
	Barcodes string   `mapstructure:"barcodes" json:"barcodes"` // barcode table (csv)
	Inputs   []string `mapstructure:"fastq" json:"inputs"`      // FASTQ files or folders
	OutDir   string   `mapstructure:"outdir" json:"outdir"`

	Window  int  `mapstructure:"window" json:"window"`     // bases searched at each read end
	MaxDist int  `mapstructure:"max-dist" json:"max-dist"` // allowed edits per barcode
	Trim    bool `mapstructure:"trim" json:"trim"`

	Threads   int    `mapstructure:"threads" json:"threads"`
	BatchSize int    `mapstructure:"batch-size" json:"batch-size"`
	Policy    string `mapstructure:"policy" json:"policy"`
	Format    string `mapstructure:"format" json:"format"`
}

// DefaultConfig has the values used when a setting is not given.
func DefaultConfig() Config {
	return Config{
		Window:    50,
		Threads:   1,
		BatchSize: 10 * 1000,
		Policy:    string(FirstMatch),
		Format:    string(sink.Gzip),
	}
}

// Validate checks the settings that can be checked without touching files.
func (c *Config) Validate() error {
	switch {
	case c.Barcodes == "":
		return apperr.Configf("config", "a barcode file is required")
	case len(c.Inputs) == 0:
		return apperr.Configf("config", "at least one fastq input is required")
	case c.OutDir == "":
		return apperr.Configf("config", "an output folder is required")
	case c.Window < 1:
		return apperr.Configf("config", "window must be positive, got %d", c.Window)
	case c.MaxDist < 0:
		return apperr.Configf("config", "max distance must not be negative, got %d", c.MaxDist)
	case c.Threads < 1:
		return apperr.Configf("config", "at least one thread is required, got %d", c.Threads)
	case c.BatchSize < 1:
		return apperr.Configf("config", "batch size must be positive, got %d", c.BatchSize)
	}
	if _, err := ParsePolicy(c.Policy); err != nil {
		return err
	}
	if _, err := sink.ParseFormat(c.Format); err != nil {
		return apperr.Wrap(apperr.Config, "config", err)
	}
	return nil
}
