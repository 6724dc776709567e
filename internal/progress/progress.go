// Package progress reports how many reads a run has consumed.
package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Tracker receives read counts as they are consumed.
type Tracker interface {
	Add(n int)
	Done()
}

type nop struct{}

func (nop) Add(int) {}
func (nop) Done()   {}

// Nop is a Tracker that ignores everything.
func Nop() Tracker { return nop{} }

// Counter draws a live read counter with elapsed time. The total is unknown
// until Done.
type Counter struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

// NewCounter starts drawing on w.
func NewCounter(w io.Writer, label string) *Counter {
	p := mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))
	bar := p.AddSpinner(0,
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DindentRight}),
			decor.CurrentNoUnit("%d reads"),
		),
		mpb.AppendDecorators(
			decor.Elapsed(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return &Counter{p: p, bar: bar}
}

// Add counts n more reads.
func (c *Counter) Add(n int) { c.bar.IncrBy(n) }

// Done completes the bar and waits for the final render.
func (c *Counter) Done() {
	c.bar.SetTotal(-1, true)
	c.p.Wait()
}
