package sink

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
)

func decode(t *testing.T, path string, f Format) string {
	t.Helper()
	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()

	var r io.Reader
	switch f {
	case Zstd:
		dec, err := zstd.NewReader(fh)
		if err != nil {
			t.Fatal(err)
		}
		defer dec.Close()
		r = dec
	default:
		gz, err := gzip.NewReader(fh)
		if err != nil {
			t.Fatal(err)
		}
		defer gz.Close()
		r = gz
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestAppend(t *testing.T) {
	for _, f := range []Format{Gzip, Zstd} {
		dir := t.TempDir()
		path := Path(dir, "bc1", f)
		for _, chunk := range []string{"first\n", "second\n"} {
			w, err := Open(path, f)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write([]byte(chunk)); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
		}
		if got := decode(t, path, f); got != "first\nsecond\n" {
			t.Errorf("%s: reopened sink holds %q", f, got)
		}
	}
}

func TestPath(t *testing.T) {
	if got := Path("out", "bc1", Gzip); got != filepath.Join("out", "bc1.fq.gz") {
		t.Errorf("gz path = %s", got)
	}
	if got := Path("out", "bc1", Zstd); got != filepath.Join("out", "bc1.fq.zst") {
		t.Errorf("zst path = %s", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Gzip, "gz": Gzip, "gzip": Gzip, "zst": Zstd, "zstd": Zstd} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("bz2"); err == nil {
		t.Error("ParseFormat(bz2) accepted")
	}
}

func TestOpenMissingDir(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope", "bc.fq.gz"), Gzip); err == nil {
		t.Error("opened a sink in a missing directory")
	}
}

func TestAppendSpansBlocks(t *testing.T) {
	path := Path(t.TempDir(), "bc1", Gzip)
	chunk := strings.Repeat("ACGT", gzipBlockSize/4)
	want := strings.Repeat(chunk, gzipBlocks*2+1)
	w, err := Open(path, Gzip)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(want)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got := decode(t, path, Gzip); got != want {
		t.Errorf("decoded %d bytes, want %d", len(got), len(want))
	}
}

func TestCloseReportsFailure(t *testing.T) {
	for _, f := range []Format{Gzip, Zstd} {
		w, err := Open(Path(t.TempDir(), "bc1", f), f)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("@r1\nACGT\n+\nIIII\n")); err != nil {
			t.Fatal(err)
		}
		w.file.Close()
		if err := w.Close(); err == nil {
			t.Errorf("%s: close after losing the file reported no error", f)
		}
	}
}
