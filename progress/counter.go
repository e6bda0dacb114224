package progress

import (
	"time"

	"github.com/cheggaaa/pb"
)

var maxBucketDuration = 1 * time.Second

// Counter tracks how many bytes of a known total were written,
// estimates bandwidth, and drives a progress bar.
type Counter struct {
	lastBandwidthUpdate time.Time
	lastBandwidthBytes  int64
	bps                 float64
	bar                 *pb.ProgressBar
	bytes               int64
	totalBytes          int64

	now func() time.Time
}

func NewCounter(totalBytes int64) *Counter {
	bar := pb.New64(totalBytes)
	bar.SetUnits(pb.U_BYTES)
	bar.ShowSpeed = true
	bar.ShowCounters = true
	bar.ShowFinalTime = false
	bar.RefreshRate = 125 * time.Millisecond

	return &Counter{
		bar:        bar,
		totalBytes: totalBytes,
		now:        time.Now,
	}
}

func (c *Counter) SetSilent(silent bool) {
	c.bar.NotPrint = silent
}

func (c *Counter) Start() {
	c.bar.Start()
}

func (c *Counter) Finish() {
	c.bar.Postfix("")
	c.bar.Finish()
}

// SetBytes records the total number of bytes written so far
func (c *Counter) SetBytes(bytes int64) {
	now := c.now()
	if c.lastBandwidthUpdate.IsZero() {
		c.lastBandwidthUpdate = now
		c.lastBandwidthBytes = bytes
	}
	bucketDuration := now.Sub(c.lastBandwidthUpdate)

	if bucketDuration > maxBucketDuration {
		c.bps = float64(bytes-c.lastBandwidthBytes) / bucketDuration.Seconds()
		c.lastBandwidthUpdate = now
		c.lastBandwidthBytes = bytes
	}
	// otherwise, keep current bps value

	c.bytes = bytes
	c.bar.Set64(bytes)
}

func (c *Counter) Bytes() int64 {
	return c.bytes
}

// Progress returns the completion in the [0, 1] interval, or 0 if the
// total is unknown.
func (c *Counter) Progress() float64 {
	if c.totalBytes <= 0 {
		return 0
	}
	alpha := float64(c.bytes) / float64(c.totalBytes)
	if alpha > 1 {
		alpha = 1
	}
	return alpha
}

func (c *Counter) BPS() float64 {
	return c.bps
}

// ETA is zero until a bandwidth estimate is available
func (c *Counter) ETA() time.Duration {
	if c.bps <= 0 || c.totalBytes <= 0 {
		return 0
	}
	left := c.totalBytes - c.bytes
	if left <= 0 {
		return 0
	}
	return time.Duration(float64(left) / c.bps * float64(time.Second))
}

func (c *Counter) Bar() *pb.ProgressBar {
	return c.bar
}
