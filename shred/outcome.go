package shred

import (
	"fmt"
	"time"
)

// Outcome tells how a wipe session ended
type Outcome int

const (
	// OutcomeEndOfMedium means the device (or filesystem, for a free-space
	// wipe) ran out of room: the whole medium was overwritten.
	OutcomeEndOfMedium Outcome = iota + 1
	// OutcomeLimitReached means the requested number of bytes was written.
	OutcomeLimitReached
	// OutcomeFaulted means a write failed before the wipe could complete.
	OutcomeFaulted
	// OutcomeInterrupted means the context was cancelled, usually by a signal.
	OutcomeInterrupted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEndOfMedium:
		return "end of medium"
	case OutcomeLimitReached:
		return "limit reached"
	case OutcomeFaulted:
		return "faulted"
	case OutcomeInterrupted:
		return "interrupted"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Completed is true for outcomes that count as a successful wipe
func (o Outcome) Completed() bool {
	return o == OutcomeEndOfMedium || o == OutcomeLimitReached
}

type Result struct {
	Outcome Outcome
	// Bytes successfully written to the sink
	Bytes int64
	// Megabytes is the number of complete megabytes written
	Megabytes int64
	// Err is the write (or close) error that ended the session, if any.
	// It's set for OutcomeEndOfMedium too, so it can be logged.
	Err      error
	Duration time.Duration
}

// BPS returns the average throughput of the session, in bytes per second
func (r *Result) BPS() float64 {
	secs := r.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Bytes) / secs
}
