package buildinfo

import (
	"fmt"
	"strconv"
	"time"
)

var (
	Version       = "head" // set by command-line on CI release builds
	BuiltAt       = ""     // set by command-line on CI release builds
	Commit        = ""     // set by command-line on CI release builds
	VersionString = ""     // formatted on boot from 'version' and 'builtAt'
)

func init() {
	VersionString = formatVersion(Version, BuiltAt, Commit)
}

func formatVersion(version, builtAt, commit string) string {
	var s string
	if builtAt != "" {
		epoch, err := strconv.ParseInt(builtAt, 10, 64)
		if err != nil {
			s = fmt.Sprintf("%s, invalid build date", version)
		} else {
			s = fmt.Sprintf("%s, built on %s", version, time.Unix(epoch, 0).UTC().Format("Jan _2 2006 @ 15:04:05"))
		}
	} else {
		s = fmt.Sprintf("%s, no build date", version)
	}
	if commit != "" {
		s = fmt.Sprintf("%s, ref %s", s, commit)
	}
	return s
}
