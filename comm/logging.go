package comm

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
)

var settings = &struct {
	noProgress bool
	quiet      bool
	verbose    bool
	json       bool
}{
	false,
	false,
	false,
	false,
}

// exit is swapped out by tests
var exit = os.Exit

// Exit terminates the process with code
func Exit(code int) {
	exit(code)
}

// SetExit replaces the function used to terminate the process,
// and returns the previous one.
func SetExit(f func(code int)) func(code int) {
	old := exit
	exit = f
	return old
}

// Configure sets all logging options in one go
func Configure(noProgress, quiet, verbose, json bool) {
	settings.noProgress = noProgress || quiet
	settings.quiet = quiet
	settings.verbose = verbose
	settings.json = json
}

// JsonMessage is one line of machine-readable output
type JsonMessage map[string]interface{}

// JsonEnabled reports whether output is JSON lines
func JsonEnabled() bool {
	return settings.json
}

// Opf prints a formatted string informing the user on what operation we're doing
func Opf(format string, args ...interface{}) {
	Logf("%s %s", theme.OpSign, fmt.Sprintf(format, args...))
}

// Statf prints a formatted string informing the user how fast the operation went
func Statf(format string, args ...interface{}) {
	Logf("%s %s", theme.StatSign, fmt.Sprintf(format, args...))
}

// Logf sends a formatted informational message to the client
func Logf(format string, args ...interface{}) {
	Loglf("info", format, args...)
}

// Notice prints a box with important info in it.
// UX style guide: don't abuse it or people will stop reading it.
func Notice(header string, lines []string) {
	if settings.quiet {
		return
	}

	if settings.json {
		Logf("notice: %s", header)
		for _, line := range lines {
			Logf("notice: %s", line)
		}
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetColWidth(60)
	table.SetHeader([]string{header})
	for _, line := range lines {
		table.Append([]string{line})
	}
	table.Render()
}

// Warnf lets the user know about a problem that's non-critical
func Warnf(format string, args ...interface{}) {
	Loglf("warning", format, args...)
}

// Debugf messages are like Info messages, but printed only when verbose
func Debugf(format string, args ...interface{}) {
	Loglf("debug", format, args...)
}

// Logl logs a message of a given level
func Logl(level string, msg string) {
	send("log", JsonMessage{
		"message": msg,
		"level":   level,
	})
}

// Loglf logs a formatted message of a given level
func Loglf(level string, format string, args ...interface{}) {
	Logl(level, fmt.Sprintf(format, args...))
}

// DieWithCode exits with the given code after giving a reason to the client
func DieWithCode(code int, msg string) {
	send("error", JsonMessage{
		"message": msg,
		"code":    code,
	})
	exit(code)
}

// Result sends a result. It's only shown in JSON mode.
func Result(value interface{}) {
	send("result", JsonMessage{
		"value": value,
	})
}

// sends a message to the client
func send(msgType string, obj JsonMessage) {
	if settings.json {
		obj["type"] = msgType
		obj["time"] = time.Now().UTC().Unix()
		if msgType == "log" && obj["level"] == "debug" {
			if settings.quiet || !settings.verbose {
				return
			}
		}

		sendJSON(obj)
		return
	}

	switch msgType {
	case "log":
		switch obj["level"] {
		case "info":
			if !settings.quiet {
				log.Println(obj["message"])
			}
		case "debug":
			if !settings.quiet && settings.verbose {
				log.Println(obj["message"])
			}
		default:
			log.Printf("%s: %s\n", obj["level"], obj["message"])
		}
	case "error":
		EndProgress()
		log.Println(obj["message"])
	case "result", "progress":
		// json only
	default:
		log.Println(msgType, obj)
	}
}

// sends a JSON-encoded message to the client
func sendJSON(obj JsonMessage) {
	json, _ := json.Marshal(obj)
	fmt.Fprintln(os.Stdout, string(json))
}
