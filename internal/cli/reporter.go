package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/progress"
	"github.com/agbru/provision/internal/ui"
)

// CLIProgressReporter shows a spinner with a progress bar, the ETA and the
// items currently installing, and prints one line per finished item. It is
// meant for interactive terminals.
type CLIProgressReporter struct {
	Theme ui.Theme
}

// LineProgressReporter prints one plain line per transition. It suits
// non-interactive output such as CI logs.
type LineProgressReporter struct {
	Theme ui.Theme
}

var (
	_ orchestration.ProgressReporter = CLIProgressReporter{}
	_ orchestration.ProgressReporter = LineProgressReporter{}
)

// DisplayProgress consumes the update stream until it is closed.
func (r CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, total int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(total)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	var last progress.Update
	refresh := func() {
		s.UpdateSuffix(FormatSpinnerSuffix(agg.Ratio(), last.Completed, total, agg.ETA(), last.Running))
	}
	refresh()
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				return
			}
			agg.Update(update)
			last = update
			if update.State.IsTerminal() {
				// The spinner owns the current line; clear it before printing.
				s.Stop()
				fmt.Fprintln(out, FormatUpdateLine(r.Theme, update))
				s.Start()
			}
			refresh()
		case <-ticker.C:
			refresh()
		}
	}
}

// DisplayProgress prints every update as it arrives.
func (r LineProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, _ int, out io.Writer) {
	defer wg.Done()
	for update := range progressChan {
		fmt.Fprintln(out, FormatUpdateLine(r.Theme, update))
	}
}
