package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
	"github.com/Altius/stampipes/programs/nanomux/internal/demux"
	"github.com/Altius/stampipes/programs/nanomux/internal/report"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDemuxConfigLayers(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.yaml")
	writeFile(t, settings, "max-dist: 2\ntrim: true\nwindow: 80\npolicy: all\n")
	t.Setenv("NANOMUX_THREADS", "4")
	t.Setenv("NANOMUX_WINDOW", "70")

	cmd := newDemuxCmd(&globals{})
	if err := cmd.ParseFlags([]string{
		"-b", "barcodes.csv", "-f", "a.fq", "-f", "b.fq", "-o", "out",
		"-p", "60", "--config", settings,
	}); err != nil {
		t.Fatal(err)
	}
	got, err := demuxConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	want := demux.DefaultConfig()
	want.Barcodes = "barcodes.csv"
	want.Inputs = []string{"a.fq", "b.fq"}
	want.OutDir = "out"
	want.Window = 60 // flag over environment over file
	want.MaxDist = 2
	want.Trim = true
	want.Threads = 4
	want.Policy = "all"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDemuxConfigInvalid(t *testing.T) {
	cmd := newDemuxCmd(&globals{})
	if err := cmd.ParseFlags([]string{"-b", "barcodes.csv", "-f", "a.fq", "-o", "out", "-j", "0"}); err != nil {
		t.Fatal(err)
	}
	if _, err := demuxConfig(cmd); apperr.KindOf(err) != apperr.Config {
		t.Errorf("got %v, want a config error", err)
	}
}

func TestFilterConfigDefaults(t *testing.T) {
	cmd := newFilterCmd(&globals{})
	if err := cmd.ParseFlags([]string{"-f", "in", "-o", "out", "-q", "12.5"}); err != nil {
		t.Fatal(err)
	}
	got, err := filterConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if got.MaxLen != 1000*1000 || got.MinQual != 12.5 || got.Threads != 1 {
		t.Errorf("unexpected config %+v", got)
	}
}

func TestExecuteDemux(t *testing.T) {
	dir := t.TempDir()
	barcodes := filepath.Join(dir, "barcodes.csv")
	input := filepath.Join(dir, "reads.fq")
	out := filepath.Join(dir, "out")
	writeFile(t, barcodes, "name,forward\nbc1,ACGT\nbc2,TTTTTT\n")
	writeFile(t, input, "@r1\nACGTCCCCCCCC\n+\nIIIIIIIIIIII\n@r2\nGGGG\n+\nIIII\n")

	root, _ := newRootCmd()
	root.SetArgs([]string{"demux", "--quiet", "-b", barcodes, "-f", input, "-o", out, "-p", "6", "-t"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(filepath.Join(out, report.MatchesFile))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("barcode,matches\nbc1,1\nbc2,0\n", string(b)); diff != "" {
		t.Errorf("matches file (-want +got):\n%s", diff)
	}
	b, err = os.ReadFile(filepath.Join(out, report.RunLogFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Reads shorter than p: 1 reads") {
		t.Errorf("run log:\n%s", b)
	}
	if _, err := os.Stat(filepath.Join(out, "bc2.fq.gz")); !os.IsNotExist(err) {
		t.Errorf("empty output bc2.fq.gz was kept")
	}
}

func TestExecuteFilter(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "reads.fq")
	out := filepath.Join(dir, "out")
	writeFile(t, input, "@r1\nACGTCCCCCCCC\n+\nIIIIIIIIIIII\n@r2\nGGGG\n+\nIIII\n")

	root, _ := newRootCmd()
	root.SetArgs([]string{"filter", "--quiet", "-f", input, "-o", out, "-r", "5"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(out, report.FilterLogFile))
	if err != nil {
		t.Fatal(err)
	}
	want := "file,raw_reads,passed_reads,short,long,bad_quality\n" + input + ",2,1,1,0,0\n"
	if diff := cmp.Diff(want, string(b)); diff != "" {
		t.Errorf("filter log (-want +got):\n%s", diff)
	}
}

func TestExecuteBadHeaderHasHelp(t *testing.T) {
	dir := t.TempDir()
	barcodes := filepath.Join(dir, "barcodes.csv")
	input := filepath.Join(dir, "reads.fq")
	writeFile(t, barcodes, "id,seq\nbc1,ACGT\n")
	writeFile(t, input, "@r1\nACGT\n+\nIIII\n")

	root, _ := newRootCmd()
	root.SetArgs([]string{"demux", "--quiet", "-b", barcodes, "-f", input, "-o", filepath.Join(dir, "out")})
	err := root.Execute()
	if apperr.KindOf(err) != apperr.Config || apperr.HelpOf(err) == "" {
		t.Errorf("got %v, want a config error with help", err)
	}
}
