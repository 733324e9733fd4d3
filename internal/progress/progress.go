// Package progress turns per-frame reconstruction callbacks into a terminal
// progress bar or throttled job progress updates.
package progress

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Bar renders frame progress with pb. The bar starts on the first frame,
// once the total is known.
type Bar struct {
	w      io.Writer
	prefix string

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewBar creates a bar writing to w.
func NewBar(w io.Writer, prefix string) *Bar {
	return &Bar{w: w, prefix: prefix}
}

// OnFrame implements reconstruct.Observer.
func (b *Bar) OnFrame(index, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		b.bar = pb.Full.New(total).
			SetWriter(b.w).
			Set("prefix", b.prefix).
			Start()
	}
	b.bar.SetCurrent(int64(clampDone(index, total)))
}

// Current returns the number of frames shown as done.
func (b *Bar) Current() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		return 0
	}
	return b.bar.Current()
}

// Finish stops the bar. It is safe to call when no frame was seen.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		b.bar.Finish()
	}
}

// JobReporter forwards whole-percent changes to report. Progress stays below
// 100 until the job itself is completed.
type JobReporter struct {
	report func(percent int)

	mu   sync.Mutex
	last int
}

// NewJobReporter creates a reporter calling report on every percent change.
func NewJobReporter(report func(percent int)) *JobReporter {
	return &JobReporter{report: report, last: -1}
}

// OnFrame implements reconstruct.Observer.
func (r *JobReporter) OnFrame(index, total int) {
	percent := Percent(index, total)
	if percent > 99 {
		percent = 99
	}

	r.mu.Lock()
	if percent <= r.last {
		r.mu.Unlock()
		return
	}
	r.last = percent
	r.mu.Unlock()

	r.report(percent)
}

// Percent returns the whole percentage done after frame index of total.
func Percent(index, total int) int {
	if total <= 0 {
		return 0
	}
	return clampDone(index, total) * 100 / total
}

func clampDone(index, total int) int {
	done := index + 1
	switch {
	case done < 0:
		return 0
	case done > total:
		return total
	}
	return done
}
