// Package shred streams a generator's output to a sink until the sink is
// full, a byte limit is reached, a write fails, or the context is cancelled.
package shred

import (
	"context"
	"io"
	"time"

	"github.com/itchio/wharf/state"
	"github.com/itchio/wipe/counter"
	"github.com/itchio/wipe/lcg"
	"github.com/itchio/wipe/target"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// DefaultBlockSize is how many bytes are generated and written at once
const DefaultBlockSize = 64 * 1024

// ErrAlreadyRun is returned when Run is called twice on the same session
var ErrAlreadyRun = errors.New("session has already run")

type Options struct {
	// Limit is the number of bytes to write. 0 means: until the sink fails.
	Limit int64
	// BlockSize defaults to DefaultBlockSize
	BlockSize int
	// RateLimit caps throughput, in bytes per second. 0 means unlimited.
	RateLimit int64

	// OnMegabyte is called once per megabyte written
	OnMegabyte func(megabytes int64)
	// OnBytes is called after every write with the total written so far
	OnBytes func(total int64)
}

type syncer interface {
	Sync() error
}

type Session struct {
	sink     io.Writer
	gen      *lcg.Generator
	kind     target.Kind
	consumer *state.Consumer
	opts     Options

	ran    bool
	closed bool
}

// NewSession prepares a wipe of sink. kind decides whether running out of
// space is a normal ending (devices, free-space files) or a fault.
func NewSession(sink io.Writer, gen *lcg.Generator, kind target.Kind, consumer *state.Consumer, opts Options) *Session {
	if consumer == nil {
		consumer = &state.Consumer{}
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}

	return &Session{
		sink:     sink,
		gen:      gen,
		kind:     kind,
		consumer: consumer,
		opts:     opts,
	}
}

// Run writes until the session ends, then closes the sink. The returned
// error is only non-nil when the session could not start at all; how the
// wipe itself went is described by the Result.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	if s.ran {
		return nil, errors.WithStack(ErrAlreadyRun)
	}
	if s.gen == nil || !s.gen.Seeded() {
		return nil, errors.WithStack(lcg.ErrUnseeded)
	}
	s.ran = true

	var limiter *rate.Limiter
	if s.opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.opts.RateLimit), s.opts.BlockSize)
	}

	cw := counter.NewWithCallback(s.opts.OnMegabyte, s.sink)
	buf := make([]byte, s.opts.BlockSize)
	startTime := time.Now()

	res := &Result{}
	res.Outcome, res.Err = s.stream(ctx, cw, buf, limiter)

	closeErr := s.Close()
	if closeErr != nil {
		if res.Outcome == OutcomeLimitReached {
			res.Outcome = OutcomeFaulted
			res.Err = closeErr
		} else {
			s.consumer.Warnf("While closing: %v", closeErr)
		}
	}

	res.Bytes = cw.Count()
	res.Megabytes = cw.Megabytes()
	res.Duration = time.Since(startTime)

	switch res.Outcome {
	case OutcomeEndOfMedium:
		s.consumer.Debugf("Reached end of %s after %d bytes (%v)", s.kind, res.Bytes, res.Err)
	case OutcomeFaulted:
		s.consumer.Warnf("Write to %s failed after %d bytes: %v", s.kind, res.Bytes, res.Err)
	case OutcomeInterrupted:
		s.consumer.Debugf("Interrupted after %d bytes", res.Bytes)
	}

	return res, nil
}

func (s *Session) stream(ctx context.Context, cw *counter.Counter, buf []byte, limiter *rate.Limiter) (Outcome, error) {
	for {
		n := len(buf)
		if s.opts.Limit > 0 {
			remaining := s.opts.Limit - cw.Count()
			if remaining <= 0 {
				return OutcomeLimitReached, nil
			}
			if remaining < int64(n) {
				n = int(remaining)
			}
		}

		select {
		case <-ctx.Done():
			return OutcomeInterrupted, nil
		default:
		}
		block := buf[:n]
		s.gen.Fill(block)

		if limiter != nil {
			err := limiter.WaitN(ctx, n)
			if err != nil {
				if ctx.Err() != nil {
					return OutcomeInterrupted, nil
				}
				return OutcomeFaulted, errors.WithStack(err)
			}
		}

		written, err := cw.Write(block)
		if s.opts.OnBytes != nil {
			s.opts.OnBytes(cw.Count())
		}
		if err == nil && written < n {
			err = io.ErrShortWrite
		}
		if err != nil {
			if s.kind.FillsMedium() && IsEndOfMedium(err) {
				return OutcomeEndOfMedium, err
			}
			return OutcomeFaulted, err
		}
	}
}

// Close flushes and closes the sink, if it supports it. Calling it
// again does nothing. Some character devices refuse to sync, so sync
// failures are only logged.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if sy, ok := s.sink.(syncer); ok {
		err := sy.Sync()
		if err != nil {
			s.consumer.Debugf("While syncing: %v", err)
		}
	}

	if c, ok := s.sink.(io.Closer); ok {
		err := c.Close()
		if err != nil {
			return errors.Wrap(err, "closing")
		}
	}
	return nil
}
