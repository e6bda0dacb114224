package shred

import (
	"io"

	"github.com/pkg/errors"
)

// IsEndOfMedium reports whether err means the sink has no room left,
// as opposed to an I/O fault.
func IsEndOfMedium(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrShortWrite) {
		return true
	}
	return isNoSpace(err)
}
