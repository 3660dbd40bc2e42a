// File: pkg/combine/progress.go
package combine

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// progressReporter shows a spinner with a running file count on stderr.
type progressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// newProgressReporter is quiet unless stderr is a terminal.
func newProgressReporter(quiet bool) *progressReporter {
	return &progressReporter{
		quiet: quiet || !term.IsTerminal(int(os.Stderr.Fd())),
	}
}

func (p *progressReporter) OnStart() {
	if p.quiet {
		return
	}
	p.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Serializing files"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func (p *progressReporter) OnFileWritten() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *progressReporter) OnFinish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}
