package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_CounterBandwidth(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewCounter(10 * 1024 * 1024)
	c.SetSilent(true)
	c.now = func() time.Time { return now }

	c.SetBytes(0)
	assert.EqualValues(t, 0, c.BPS())
	assert.EqualValues(t, 0, c.ETA())

	// within the bucket, no estimate yet
	now = now.Add(500 * time.Millisecond)
	c.SetBytes(512 * 1024)
	assert.EqualValues(t, 0, c.BPS())

	now = now.Add(1500 * time.Millisecond)
	c.SetBytes(2 * 1024 * 1024)
	assert.InDelta(t, 1024*1024, c.BPS(), 0.01)
	assert.InDelta(t, 0.2, c.Progress(), 0.0001)
	assert.Equal(t, 8*time.Second, c.ETA())
	assert.EqualValues(t, 2*1024*1024, c.Bytes())
}

func Test_CounterUnknownTotal(t *testing.T) {
	c := NewCounter(0)
	c.SetSilent(true)
	c.SetBytes(1234)
	assert.EqualValues(t, 0, c.Progress())
	assert.EqualValues(t, 0, c.ETA())
}

func Test_CounterClampsProgress(t *testing.T) {
	c := NewCounter(100)
	c.SetSilent(true)
	c.SetBytes(150)
	assert.EqualValues(t, 1, c.Progress())
}
