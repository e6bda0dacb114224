//go:build !unix && !windows

package shred

func isNoSpace(err error) bool {
	return false
}
