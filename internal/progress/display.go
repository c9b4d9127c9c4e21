package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressDisplay shows a single-line spinner for an operation in
// flight. Status output goes to stderr so stdout stays clean for command
// results. All methods are nil-safe and no-ops without a TTY.
type ProgressDisplay struct {
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
}

// NewProgressDisplay creates a display for the given capabilities.
func NewProgressDisplay(caps TerminalCapabilities) *ProgressDisplay {
	return &ProgressDisplay{
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Start begins the spinner with the given message, replacing any
// spinner already running.
func (d *ProgressDisplay) Start(message string) {
	if d == nil || !d.caps.IsTTY {
		return
	}

	d.StopSpinner()
	s := spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	if d.caps.SupportsColor {
		_ = s.Color("cyan")
	}
	s.Start()
	d.spin = s
}

// Complete stops the spinner and prints a checkmark status line.
func (d *ProgressDisplay) Complete(message string) {
	d.finish(d.symbols.Checkmark, message)
}

// Fail stops the spinner and prints a failure status line.
func (d *ProgressDisplay) Fail(message string) {
	d.finish(d.symbols.Failure, message)
}

// StopSpinner stops the animation without printing a status line.
// Useful before writing other output to the terminal.
func (d *ProgressDisplay) StopSpinner() {
	if d == nil || d.spin == nil {
		return
	}
	d.spin.Stop()
	d.spin = nil
}

// finish stops the spinner and, if one was running, replaces it with a
// final status line. Quiet when no spinner was active so piped output
// stays free of decoration.
func (d *ProgressDisplay) finish(symbol, message string) {
	if d == nil {
		return
	}
	active := d.spin != nil
	d.StopSpinner()
	if !active || message == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", symbol, message)
}
