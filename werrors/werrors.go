// Package werrors holds the error taxonomy shared by wipe's packages,
// and how each kind maps to a process exit code.
package werrors

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Process exit codes
const (
	ExitOK          = 0
	ExitOpenFailed  = 1
	ExitInvalidArgs = 2
	ExitWriteFault  = 3
	ExitInterrupted = 114
)

// ErrInterrupted is returned when a wipe was stopped by a signal
// before the target was filled.
var ErrInterrupted = errors.New("interrupted")

// InvalidArgument is returned for malformed command-line input.
// No I/O has been attempted when it's returned.
type InvalidArgument struct {
	Name   string
	Value  string
	Reason string
}

func (e *InvalidArgument) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Name, e.Value, e.Reason)
}

// OpenError is returned when the target can't be opened for writing.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	cause := e.Err
	if pe, ok := cause.(*os.PathError); ok {
		cause = pe.Err
	}
	return fmt.Sprintf("Cannot open device or file %s: %v", e.Path, cause)
}

func (e *OpenError) Cause() error {
	return e.Err
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// WriteFault is returned when a write to the target failed for a reason
// other than running out of space on a device.
type WriteFault struct {
	Path    string
	Written int64
	Err     error
}

func (e *WriteFault) Error() string {
	return fmt.Sprintf("write to %s failed after %d bytes: %v", e.Path, e.Written, e.Err)
}

func (e *WriteFault) Cause() error {
	return e.Err
}

func (e *WriteFault) Unwrap() error {
	return e.Err
}

// ExitCode maps err to the code the process should exit with.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ia *InvalidArgument
	if errors.As(err, &ia) {
		return ExitInvalidArgs
	}

	var oe *OpenError
	if errors.As(err, &oe) {
		return ExitOpenFailed
	}

	var wf *WriteFault
	if errors.As(err, &wf) {
		return ExitWriteFault
	}

	if errors.Is(err, ErrInterrupted) {
		return ExitInterrupted
	}

	return 1
}
