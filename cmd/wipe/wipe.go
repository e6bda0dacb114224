package wipe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/signal"
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/wharf/state"
	"github.com/itchio/wipe/comm"
	"github.com/itchio/wipe/lcg"
	"github.com/itchio/wipe/mansion"
	"github.com/itchio/wipe/shred"
	"github.com/itchio/wipe/target"
	"github.com/itchio/wipe/werrors"
	"github.com/pkg/errors"
)

var args = struct {
	path      *string
	seed      *string
	size      *string
	blockSize *string
	maxRate   *string
	keep      *bool
}{}

func Register(ctx *mansion.Context) {
	app := ctx.App
	args.path = app.Arg("path", "Device or file to overwrite, or a directory whose free space to fill").Required().String()
	args.seed = app.Arg("seed", "Positive integer the pseudo-random stream is derived from").Required().String()
	args.size = app.Flag("size", "Stop after writing this much (e.g. 512MiB) instead of writing until the target is full").PlaceHolder("SIZE").String()
	args.blockSize = app.Flag("block-size", "How much data to write at once").Default("64KiB").String()
	args.maxRate = app.Flag("max-rate", "Maximum amount of data to write per second (e.g. 20MB)").PlaceHolder("RATE").String()
	args.keep = app.Flag("keep", "When filling a directory's free space, don't remove the scratch file afterwards").Bool()
	ctx.Register(do)
}

// RawArgs are the command-line values, before validation
type RawArgs struct {
	Path      string
	Seed      string
	Size      string
	BlockSize string
	MaxRate   string
	Keep      bool
}

type Params struct {
	Path      string
	Seed      int64
	Limit     int64
	BlockSize int
	RateLimit int64
	Keep      bool

	Logger     *slog.Logger
	OnMegabyte func(mb int64)
	OnBytes    func(total int64)
}

func do(ctx *mansion.Context) {
	params, err := ParseArgs(RawArgs{
		Path:      *args.path,
		Seed:      *args.seed,
		Size:      *args.size,
		BlockSize: *args.blockSize,
		MaxRate:   *args.maxRate,
		Keep:      *args.keep,
	})
	ctx.Must(err)
	params.Logger = ctx.Logger()

	consumer := comm.NewStateConsumer()

	t, err := target.Open(params.Path, params.Logger)
	ctx.Must(err)

	total := params.Limit
	if total == 0 {
		total = t.Size
	} else if t.Kind == target.KindDevice && t.Size > 0 && total > t.Size {
		comm.Warnf("Requested size %s exceeds %s (%s), stopping at the end of the device",
			humanize.IBytes(uint64(total)), t.File, humanize.IBytes(uint64(t.Size)))
		total = t.Size
	}

	if t.Kind != target.KindRegular {
		lines := []string{
			fmt.Sprintf("Target: %s (%s)", t.File, t.Kind),
			fmt.Sprintf("Seed: %d", params.Seed),
		}
		if total > 0 {
			lines = append(lines, fmt.Sprintf("Size: %s", humanize.IBytes(uint64(total))))
		}
		comm.Notice("Overwriting with pseudo-random data", lines)
	}
	comm.Opf("Writing pseudo random data to %s with seed %d...", t.File, params.Seed)

	barTotal := total
	if !mansion.IsTerminal() {
		barTotal = 0
	}
	comm.StartProgress(barTotal)
	params.OnMegabyte = comm.ProgressMegabyte
	params.OnBytes = comm.ProgressBytes

	sigCtx, cancel := signal.NotifyContext(context.Background(), appSignals()...)
	defer cancel()

	res, err := Wipe(sigCtx, consumer, t, params)
	comm.EndProgress()

	if res != nil {
		printStats(res)
		wr := mansion.WipeResult{
			Type:      "wipe",
			Path:      t.Path,
			File:      t.File,
			Kind:      t.Kind.String(),
			Seed:      params.Seed,
			Outcome:   res.Outcome.String(),
			Completed: res.Outcome.Completed(),
			Bytes:     res.Bytes,
			Megabytes: res.Megabytes,
			Seconds:   res.Duration.Seconds(),
			BPS:       res.BPS(),
		}
		if res.Err != nil {
			wr.Error = res.Err.Error()
		}
		comm.Result(wr)
	}
	ctx.Must(err)
}

func printStats(res *shred.Result) {
	verb := "Wrote"
	switch res.Outcome {
	case shred.OutcomeEndOfMedium:
		verb = "Filled target with"
	case shred.OutcomeInterrupted:
		verb = "Interrupted after"
	case shred.OutcomeFaulted:
		verb = "Failed after"
	}

	comm.Statf("%s %s in %s (%s/s)",
		verb,
		humanize.IBytes(uint64(res.Bytes)),
		res.Duration.Round(time.Millisecond),
		humanize.IBytes(uint64(res.BPS())),
	)
}

// ParseArgs validates command-line values. It never touches the filesystem.
func ParseArgs(raw RawArgs) (Params, error) {
	params := Params{
		Path: raw.Path,
		Keep: raw.Keep,
	}

	if raw.Path == "" {
		return params, errors.WithStack(&werrors.InvalidArgument{Name: "path", Value: raw.Path, Reason: "must not be empty"})
	}

	seed, err := ParseSeed(raw.Seed)
	if err != nil {
		return params, err
	}
	params.Seed = seed

	if raw.Size != "" {
		params.Limit, err = parseSize("size", raw.Size)
		if err != nil {
			return params, err
		}
	}

	blockSize := int64(shred.DefaultBlockSize)
	if raw.BlockSize != "" {
		blockSize, err = parseSize("block size", raw.BlockSize)
		if err != nil {
			return params, err
		}
	}
	if blockSize > math.MaxInt32 {
		return params, errors.WithStack(&werrors.InvalidArgument{Name: "block size", Value: raw.BlockSize, Reason: "too large"})
	}
	params.BlockSize = int(blockSize)

	if raw.MaxRate != "" {
		params.RateLimit, err = parseSize("max rate", raw.MaxRate)
		if err != nil {
			return params, err
		}
	}

	return params, nil
}

// ParseSeed accepts a positive decimal integer
func ParseSeed(s string) (int64, error) {
	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		reason := "not an integer"
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			reason = "out of range"
		}
		return 0, errors.WithStack(&werrors.InvalidArgument{Name: "seed", Value: s, Reason: reason})
	}
	if seed <= 0 {
		return 0, errors.WithStack(&werrors.InvalidArgument{Name: "seed", Value: s, Reason: "must be positive"})
	}
	return seed, nil
}

func parseSize(name string, s string) (int64, error) {
	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.WithStack(&werrors.InvalidArgument{Name: name, Value: s, Reason: err.Error()})
	}
	if size == 0 {
		return 0, errors.WithStack(&werrors.InvalidArgument{Name: name, Value: s, Reason: "must be positive"})
	}
	if size > math.MaxInt64 {
		return 0, errors.WithStack(&werrors.InvalidArgument{Name: name, Value: s, Reason: "too large"})
	}
	return int64(size), nil
}

// Do validates raw, opens the target and wipes it.
func Do(ctx context.Context, consumer *state.Consumer, raw RawArgs) (*shred.Result, error) {
	params, err := ParseArgs(raw)
	if err != nil {
		return nil, err
	}

	t, err := target.Open(params.Path, params.Logger)
	if err != nil {
		return nil, err
	}

	return Wipe(ctx, consumer, t, params)
}

// Wipe streams the generator seeded by params.Seed into t, then closes t.
// A non-completed outcome is also returned as an error.
func Wipe(ctx context.Context, consumer *state.Consumer, t *target.Target, params Params) (*shred.Result, error) {
	defer t.Close()

	if consumer == nil {
		consumer = &state.Consumer{}
	}

	gen, err := lcg.New(params.Seed)
	if err != nil {
		return nil, errors.WithStack(&werrors.InvalidArgument{Name: "seed", Value: strconv.FormatInt(params.Seed, 10), Reason: err.Error()})
	}

	consumer.Debugf("Wiping %s (%s) with seed %d, block size %s", t.File, t.Kind, params.Seed, humanize.IBytes(uint64(params.BlockSize)))

	sess := shred.NewSession(t, gen, t.Kind, consumer, shred.Options{
		Limit:      params.Limit,
		BlockSize:  params.BlockSize,
		RateLimit:  params.RateLimit,
		OnMegabyte: params.OnMegabyte,
		OnBytes:    params.OnBytes,
	})
	defer sess.Close()

	res, err := sess.Run(ctx)
	if err != nil {
		return nil, err
	}

	if t.Kind == target.KindFreeSpace && !params.Keep {
		consumer.Debugf("Removing %s", t.File)
		err := t.Cleanup()
		if err != nil {
			consumer.Warnf("Could not remove %s: %v", t.File, err)
		}
	}

	switch res.Outcome {
	case shred.OutcomeFaulted:
		return res, errors.WithStack(&werrors.WriteFault{Path: t.File, Written: res.Bytes, Err: res.Err})
	case shred.OutcomeInterrupted:
		return res, errors.WithStack(werrors.ErrInterrupted)
	}
	return res, nil
}
