package fastq

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// IsFastq reports whether a file name looks like FASTQ (plain or
// compressed).
func IsFastq(name string) bool {
	return strings.Contains(name, "fastq") || strings.Contains(name, "fq")
}

// Expand resolves inputs into FASTQ files. Directories contribute their
// non-hidden FASTQ entries in lexical order; files are kept as given.
func Expand(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		if in == "-" {
			files = append(files, in)
			continue
		}
		info, err := os.Stat(in)
		if err != nil {
			return nil, errors.Wrap(err, "input")
		}
		if !info.IsDir() {
			if !IsFastq(filepath.Base(in)) {
				return nil, errors.Errorf("%s is not a fastq file", in)
			}
			files = append(files, in)
			continue
		}
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, errors.Wrapf(err, "read directory %s", in)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || !IsFastq(name) {
				continue
			}
			files = append(files, filepath.Join(in, name))
		}
	}
	return files, nil
}
