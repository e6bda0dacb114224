package mansion

import (
	"fmt"
	"log/slog"

	"github.com/itchio/wipe/comm"
	"github.com/itchio/wipe/werrors"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

type DoCommand func(ctx *Context)

type Context struct {
	App *kingpin.Application

	// Do runs the default (and only) command once arguments are parsed
	Do DoCommand

	// VersionString is the complete version string
	VersionString string

	// Version is just the version number, as a string
	Version string

	// Quiet silences all output
	Quiet bool

	// Verbose enables chatty output
	Verbose bool

	// JSON enables JSON-lines output
	JSON bool

	// NoProgress hides progress indicators
	NoProgress bool
}

func NewContext(app *kingpin.Application) *Context {
	return &Context{
		App: app,
	}
}

func (ctx *Context) Register(do DoCommand) {
	ctx.Do = do
}

// Logger returns a structured logger printing through comm
func (ctx *Context) Logger() *slog.Logger {
	return comm.NewLogger(nil)
}

// Must dies with the exit code matching err's kind, if err is non-nil
func (ctx *Context) Must(err error) {
	if err != nil {
		code := werrors.ExitCode(err)
		if ctx.Verbose || ctx.JSON {
			comm.DieWithCode(code, fmt.Sprintf("%+v", err))
		} else {
			comm.DieWithCode(code, err.Error())
		}
	}
}
