// Package sink opens compressed FASTQ outputs in append mode.
//
// Appending to an existing file adds a new gzip member or zstd frame; both
// formats decode concatenated streams as one, so reruns into the same folder
// accumulate records.
package sink

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// Format is the compression of a sink.
type Format string

const (
	Gzip Format = "gz"
	Zstd Format = "zst"
)

// ParseFormat accepts "gz"/"gzip" and "zst"/"zstd".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "gz", "gzip":
		return Gzip, nil
	case "zst", "zstd":
		return Zstd, nil
	}
	return "", errors.Errorf("unknown output format %q (want gz or zst)", s)
}

// Ext is the file extension of f, including the FASTQ part.
func (f Format) Ext() string {
	if f == Zstd {
		return ".fq.zst"
	}
	return ".fq.gz"
}

// Path is the output file for name in dir.
func Path(dir, name string, f Format) string {
	return filepath.Join(dir, name+f.Ext())
}

// Each gzip sink compresses at most gzipBlocks blocks of gzipBlockSize
// bytes at a time. A run holds one sink per barcode.
const (
	gzipBlockSize = 256 << 10
	gzipBlocks    = 2
)

// Writer is an open compressed sink. Close flushes the encoder and then
// closes the file.
type Writer struct {
	path string
	file *os.File
	enc  io.WriteCloser
}

// Open opens path for appending, creating it when missing.
func Open(path string, f Format) (*Writer, error) {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open sink")
	}
	w := &Writer{path: path, file: fh}
	switch f {
	case Zstd:
		enc, err := zstd.NewWriter(fh)
		if err != nil {
			fh.Close()
			return nil, errors.Wrapf(err, "zstd encoder for %s", path)
		}
		w.enc = enc
	default:
		gz := gzip.NewWriter(fh)
		if err := gz.SetConcurrency(gzipBlockSize, gzipBlocks); err != nil {
			fh.Close()
			return nil, errors.Wrapf(err, "gzip encoder for %s", path)
		}
		w.enc = gz
	}
	return w, nil
}

// Path is the file behind w.
func (w *Writer) Path() string { return w.path }

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.enc.Write(p)
	if err != nil {
		return n, errors.Wrapf(err, "write %s", w.path)
	}
	return n, nil
}

// Close flushes and closes w. The file is closed even when the encoder
// fails.
func (w *Writer) Close() error {
	err := w.enc.Close()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "close %s", w.path)
}
