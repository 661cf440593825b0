package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressReporter draws a progress bar while several files are analyzed.
type progressReporter struct {
	quiet     bool
	out       io.Writer
	bar       *progressbar.ProgressBar
	startTime time.Time
}

// newProgressReporter creates a reporter writing to out (normally stderr, so the
// bar never mixes with the rendered table).
func newProgressReporter(quiet bool, out io.Writer) *progressReporter {
	return &progressReporter{quiet: quiet, out: out}
}

// OnStart is called once the inputs are known. A single input gets no bar.
func (p *progressReporter) OnStart(totalFiles int) {
	p.startTime = time.Now()
	if p.quiet || totalFiles < 2 {
		return
	}

	p.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
	)
}

// OnFileAnalyzed advances the bar by one file.
func (p *progressReporter) OnFileAnalyzed() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// OnComplete prints a summary for multi-file runs.
func (p *progressReporter) OnComplete(analyzed, failed int) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil

	fmt.Fprintf(p.out, "✓ Analyzed %d files in %.1fs", analyzed, time.Since(p.startTime).Seconds())
	if failed > 0 {
		fmt.Fprintf(p.out, " (%d failed)", failed)
	}
	fmt.Fprintln(p.out)
}
