package mansion

import (
	"os"

	"golang.org/x/crypto/ssh/terminal"
)

// IsTerminal reports whether stdout is attached to a terminal.
// Progress bars need one, redirected output gets plain lines instead.
func IsTerminal() bool {
	return terminal.IsTerminal(int(os.Stdout.Fd()))
}
