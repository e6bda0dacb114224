//go:build unix

package shred

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func isNoSpace(err error) bool {
	return errors.Is(err, unix.ENOSPC)
}
