// Package lcg implements the linear congruential generator wipe uses to
// produce its repeatable byte stream. It is not cryptographically secure.
package lcg

import (
	"github.com/pkg/errors"
)

// Constants of the recurrence state = (Multiplier*state + Increment) mod Modulus.
// They satisfy the Hull-Dobell conditions, so the generator has full period.
const (
	Multiplier = 7141
	Increment  = 54773
	Modulus    = 259200
)

// ErrNonPositiveSeed is returned by Seed when given a value <= 0
var ErrNonPositiveSeed = errors.New("seed must be a positive integer")

// ErrUnseeded is returned by Read when Seed was never called
var ErrUnseeded = errors.New("generator used before being seeded")

// Mod returns the remainder of a divided by m, using truncating division
// (the result has the sign of a). m must not be zero.
func Mod(a, m int64) int64 {
	return a - (a/m)*m
}

// Generator holds the state of one pseudo-random stream. The zero value
// is unseeded; call Seed before Next.
type Generator struct {
	state  int64
	seeded bool
}

// New returns a generator seeded with seed.
func New(seed int64) (*Generator, error) {
	g := &Generator{}
	err := g.Seed(seed)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Seed resets the generator. After Seed(s), State() == (s + Increment) mod Modulus.
func (g *Generator) Seed(value int64) error {
	if value <= 0 {
		return errors.WithStack(ErrNonPositiveSeed)
	}

	// reduce first so that huge seeds can't overflow
	g.state = Mod(Mod(value, Modulus)+Increment, Modulus)
	g.seeded = true
	return nil
}

// Next advances the generator and returns the low byte of the new state.
// It panics if the generator was never seeded.
func (g *Generator) Next() byte {
	if !g.seeded {
		panic("lcg: Next called before Seed")
	}

	g.state = Mod(Multiplier*g.state+Increment, Modulus)
	return byte(Mod(g.state, 256))
}

// Fill overwrites buf with the next len(buf) bytes of the stream.
func (g *Generator) Fill(buf []byte) {
	for i := range buf {
		buf[i] = g.Next()
	}
}

// Read implements io.Reader. The stream is infinite, so Read never returns io.EOF.
func (g *Generator) Read(p []byte) (int, error) {
	if !g.seeded {
		return 0, errors.WithStack(ErrUnseeded)
	}

	g.Fill(p)
	return len(p), nil
}

// State returns the current value of the recurrence register.
func (g *Generator) State() int64 {
	return g.state
}

// Seeded reports whether Seed has succeeded at least once.
func (g *Generator) Seeded() bool {
	return g.seeded
}
