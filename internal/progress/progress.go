// Package progress provides progress reporting for long-running transfers,
// with a terminal progress bar when output goes to a TTY and silence
// otherwise.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter is the interface for reporting transfer progress.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
}

// ForTerminal returns a bar-drawing reporter when stderr is a terminal and a
// no-op reporter otherwise, so piped and scripted runs stay clean.
func ForTerminal() Reporter {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return NewBarReporter()
	}
	return NewNoOpReporter()
}

// BarReporter draws a byte-count progress bar on stderr.
type BarReporter struct {
	bar *progressbar.ProgressBar
}

// NewBarReporter creates a terminal progress bar reporter.
func NewBarReporter() *BarReporter {
	return &BarReporter{}
}

// Start initializes the progress bar. A total of -1 renders a spinner.
func (p *BarReporter) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update moves the bar to the current position.
func (p *BarReporter) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the bar.
func (p *BarReporter) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// NoOpReporter discards all progress.
type NoOpReporter struct{}

// NewNoOpReporter creates a reporter that does nothing.
func NewNoOpReporter() *NoOpReporter {
	return &NoOpReporter{}
}

func (p *NoOpReporter) Start(total int64, description string) {}
func (p *NoOpReporter) Update(current int64)                  {}
func (p *NoOpReporter) Finish()                               {}
