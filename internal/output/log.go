package output

import (
	"fmt"
	"io"
	"os"
)

var (
	verbose bool
	errOut  io.Writer = os.Stderr
)

// SetVerbose enables diagnostic output on stderr.
func SetVerbose(on bool) {
	verbose = on
}

// IsVerbose reports whether diagnostic output is enabled.
func IsVerbose() bool {
	return verbose
}

// Verbosef writes a muted diagnostic line to stderr under --verbose.
func Verbosef(format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintln(errOut, StyleMuted.Render(fmt.Sprintf(format, args...)))
}

// Warnf writes a warning line to stderr.
func Warnf(format string, args ...any) {
	fmt.Fprintln(errOut, StyleWarning.Render("warning: "+fmt.Sprintf(format, args...)))
}
