package main

import (
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/itchio/wipe/buildinfo"
	"github.com/itchio/wipe/cmd/wipe"
	"github.com/itchio/wipe/comm"
	"github.com/itchio/wipe/mansion"
	"github.com/itchio/wipe/werrors"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

type appArgs struct {
	json       *bool
	quiet      *bool
	verbose    *bool
	timestamps *bool
	noProgress *bool
}

func newApp() (*kingpin.Application, *appArgs) {
	app := kingpin.New("wipe", "Wipe device or create file with pseudo-random data")
	app.Terminate(comm.Exit)

	args := &appArgs{
		json:       app.Flag("json", "Enable machine-readable JSON-lines output").Short('j').Bool(),
		quiet:      app.Flag("quiet", "Hide progress indicators & other extra info").Short('q').Bool(),
		verbose:    app.Flag("verbose", "Display as much extra info as possible").Short('v').Bool(),
		timestamps: app.Flag("timestamps", "Prefix all output by timestamps (for logging purposes)").Bool(),
		noProgress: app.Flag("no-progress", "Doesn't show progress").Bool(),
	}

	app.HelpFlag.Short('h')
	app.Version(buildinfo.VersionString)
	app.VersionFlag.Short('V')
	return app, args
}

func main() {
	run(os.Args[1:])
}

func run(argv []string) {
	app, appArgs := newApp()

	ctx := mansion.NewContext(app)
	ctx.Version = buildinfo.Version
	ctx.VersionString = buildinfo.VersionString
	wipe.Register(ctx)

	parseArgv, negatives := separateNegatives(argv)
	_, err := app.Parse(parseArgv)
	if *appArgs.timestamps {
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	} else {
		log.SetFlags(0)
	}

	ctx.Quiet = *appArgs.quiet
	ctx.Verbose = *appArgs.verbose
	ctx.JSON = *appArgs.json
	ctx.NoProgress = *appArgs.noProgress
	comm.Configure(ctx.NoProgress, ctx.Quiet, ctx.Verbose, ctx.JSON)

	if err != nil {
		if !ctx.JSON {
			// nil args: usage must not re-parse the command line, that would exit on its own
			app.Usage(nil)
		}
		ctx.Must(errors.WithStack(&werrors.InvalidArgument{
			Name:   "arguments",
			Value:  strings.Join(argv, " "),
			Reason: err.Error(),
		}))
		return
	}

	if negatives != "" {
		comm.Debugf("Read %s as positional arguments", negatives)
	}

	ctx.Do(ctx)
}

var negativeNumber = regexp.MustCompile(`^-[0-9]+$`)

// separateNegatives lets a negative number (like a seed of -1) through as a
// positional argument instead of an unknown short flag, so it reaches seed
// validation. It inserts "--" before the first one, unless that token is
// the value of a preceding long flag.
func separateNegatives(argv []string) ([]string, string) {
	for i, arg := range argv {
		if arg == "--" {
			break
		}
		if !negativeNumber.MatchString(arg) {
			continue
		}
		if i > 0 && strings.HasPrefix(argv[i-1], "--") && !strings.Contains(argv[i-1], "=") {
			continue
		}

		res := make([]string, 0, len(argv)+1)
		res = append(res, argv[:i]...)
		res = append(res, "--")
		res = append(res, argv[i:]...)
		return res, strings.Join(argv[i:], " ")
	}
	return argv, ""
}
