package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FormatVersion(t *testing.T) {
	assert.Equal(t, "head, no build date", formatVersion("head", "", ""))
	assert.Equal(t, "v1.2.0, invalid build date, ref abc123", formatVersion("v1.2.0", "yesterday", "abc123"))
	assert.Equal(t, "v1.2.0, built on Jan  1 2020 @ 00:00:00", formatVersion("v1.2.0", "1577836800", ""))
}
