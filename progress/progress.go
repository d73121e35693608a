// Package progress holds the progress reporters: a terminal bar, a websocket
// broadcast hub and small combinators.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"

	fractal "github.com/marben/fractal_gif"
)

// Func adapts a plain function to fractal.Reporter.
type Func func(step, total int)

func (f Func) Report(step, total int) { f(step, total) }

// Nop discards every report.
type Nop struct{}

func (Nop) Report(int, int) {}

// Multi forwards each report to every reporter in order.
type Multi []fractal.Reporter

func (m Multi) Report(step, total int) {
	for _, r := range m {
		r.Report(step, total)
	}
}

// Bar draws a terminal progress bar. A new bar starts whenever the total changes.
type Bar struct {
	desc  string
	w     io.Writer
	total int
	bar   *progressbar.ProgressBar
}

// NewBar returns a bar labelled desc writing to w.
func NewBar(desc string, w io.Writer) *Bar {
	return &Bar{desc: desc, w: w}
}

func (b *Bar) Report(step, total int) {
	if b.bar == nil || total != b.total {
		b.total = total
		b.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(b.desc),
			progressbar.OptionSetWriter(b.w),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
		)
	}
	_ = b.bar.Set(step)
	if step >= total {
		_ = b.bar.Finish()
	}
}

var (
	_ fractal.Reporter = Func(nil)
	_ fractal.Reporter = Nop{}
	_ fractal.Reporter = Multi(nil)
	_ fractal.Reporter = (*Bar)(nil)
)
