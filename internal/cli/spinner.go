package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// RunWithSpinner shows a spinner on out while fn runs, then stops it.
// Used for interactive runs; quiet mode calls fn directly instead.
//
// Parameters:
//   - label: The suffix text shown next to the spinner.
//   - out: The destination writer for the spinner frames.
//   - fn: The work to perform while the spinner is visible.
func RunWithSpinner(label string, out io.Writer, fn func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + label
	s.Start()
	defer s.Stop()
	fn()
}
