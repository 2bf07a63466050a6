package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Display shows progress for one validation run. Advance may be called from
// several goroutines.
type Display struct {
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	out          io.Writer
	spinner      *spinner.Spinner
}

// NewDisplay creates a display that writes its final line to out.
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          out,
	}
}

// Start begins the spinner for total documents. Without a terminal it does
// nothing, keeping piped output clean.
func (d *Display) Start(total int) {
	if !d.capabilities.IsTTY {
		return
	}
	d.spinner = spinner.New(
		spinner.CharSets[d.symbols.SpinnerSet],
		100*time.Millisecond,
	)
	d.spinner.Writer = os.Stderr
	d.spinner.Suffix = " " + buildMessage(0, total)
	d.spinner.Start()
}

// Advance updates the counter after a document finishes.
func (d *Display) Advance(done, total int) {
	if d.spinner == nil {
		return
	}
	d.spinner.Lock()
	d.spinner.Suffix = " " + buildMessage(done, total)
	d.spinner.Unlock()
}

// Stop stops the spinner without printing anything.
func (d *Display) Stop() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// Finish stops the spinner and prints the summary with a pass or fail mark.
func (d *Display) Finish(passed bool, summary string) {
	d.Stop()
	mark := failureMark(d.symbols, d.capabilities.SupportsColor)
	if passed {
		mark = checkmark(d.symbols, d.capabilities.SupportsColor)
	}
	fmt.Fprintf(d.out, "%s %s\n", mark, summary)
}
