package comm

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/cheggaaa/pb"
	"github.com/itchio/wipe/counter"
	"github.com/itchio/wipe/progress"
)

// ProgressTheme contains all the characters we need to show progress
type ProgressTheme struct {
	BarStart string
	BarEnd   string
	Current  string
	Empty    string
	OpSign   string
	StatSign string
}

var themes = map[string]*ProgressTheme{
	"unicode": {"▐", "▌", "▓", "░", "•", "✓"},
	"ascii":   {"|", "|", "#", "-", ">", "<"},
	"cp437":   {"▐", "▌", "█", "░", "∙", "√"},
}

func (th *ProgressTheme) apply(bar *pb.ProgressBar) {
	bar.BarStart = th.BarStart
	bar.BarEnd = th.BarEnd
	bar.Current = th.Current
	bar.CurrentN = th.Current
	bar.Empty = th.Empty
}

func getCharset() string {
	if runtime.GOOS == "windows" && os.Getenv("OS") != "CYGWIN" {
		return "cp437"
	}

	var utf8 = ".UTF-8"
	if strings.Contains(os.Getenv("LC_ALL"), utf8) ||
		os.Getenv("LC_CTYPE") == "UTF-8" ||
		strings.Contains(os.Getenv("LANG"), utf8) {
		return "unicode"
	}

	return "ascii"
}

var theme = themes[getCharset()]

// bar is only set when the total size is known
var bar *progress.Counter

var inProgress = false

// printed is true once a megabyte line is on screen
var printed = false

// StartProgress begins a period in which progress is regularly printed.
// With a known total, a progress bar is shown; otherwise a megabyte
// count is updated in place.
func StartProgress(totalBytes int64) {
	if inProgress {
		return
	}
	inProgress = true
	printed = false

	if totalBytes <= 0 {
		return
	}

	bar = progress.NewCounter(totalBytes)
	b := bar.Bar()
	b.SetMaxWidth(80)
	if settings.noProgress || settings.json {
		bar.SetSilent(true)
	}

	theme.apply(b)
	bar.Start()
}

// ProgressBytes updates the number of bytes written so far
func ProgressBytes(total int64) {
	if bar != nil {
		bar.SetBytes(total)
	}
}

// ProgressMegabyte announces one more completed megabyte
func ProgressMegabyte(mb int64) {
	if !inProgress {
		return
	}

	if settings.json {
		msg := JsonMessage{
			"megabytes": mb,
			"bytes":     mb * counter.Megabyte,
		}
		if bar != nil {
			msg["progress"] = bar.Progress()
			msg["eta"] = bar.ETA().Seconds()
			msg["bps"] = bar.BPS()
		}
		send("progress", msg)
		return
	}

	if bar != nil || settings.noProgress {
		return
	}

	fmt.Fprintf(os.Stdout, "\r%d MB", mb)
	printed = true
}

// EndProgress stops refreshing the progress display
func EndProgress() {
	if !inProgress {
		return
	}
	inProgress = false

	if bar != nil {
		bar.Finish()
		bar = nil
	}
	if printed {
		fmt.Fprintln(os.Stdout)
		printed = false
	}
}
