package service

import (
	"os"

	"golang.org/x/term"
)

// IsInteractiveEnvironment reports whether stderr is attached to a
// terminal. Progress bars are suppressed in pipes and CI runs.
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
