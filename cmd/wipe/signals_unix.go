//go:build !windows

package wipe

import (
	"os"
	"syscall"
)

func appSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
