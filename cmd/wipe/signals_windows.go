//go:build windows

package wipe

import "os"

func appSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
