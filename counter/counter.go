package counter

import "io"

// Megabyte is the number of bytes between two progress ticks
const Megabyte = 1024 * 1024

type MegabyteCallback func(megabytes int64)

// Counter is an io.Writer that keeps track of how many bytes made it
// to the underlying writer, and calls onMegabyte once for each
// megabyte boundary crossed.
type Counter struct {
	count     int64
	megabytes int64
	writer    io.Writer

	onMegabyte MegabyteCallback
}

func New(writer io.Writer) *Counter {
	return &Counter{writer: writer}
}

func NewWithCallback(onMegabyte MegabyteCallback, writer io.Writer) *Counter {
	return &Counter{
		writer:     writer,
		onMegabyte: onMegabyte,
	}
}

// Count returns the number of bytes written so far
func (w *Counter) Count() int64 {
	return w.count
}

// Megabytes returns the number of complete megabytes written so far
func (w *Counter) Megabytes() int64 {
	return w.megabytes
}

// Write counts only the bytes the underlying writer accepted, even on error.
func (w *Counter) Write(buffer []byte) (n int, err error) {
	if w.writer == nil {
		n = len(buffer)
	} else {
		n, err = w.writer.Write(buffer)
	}

	w.count += int64(n)
	for w.count/Megabyte > w.megabytes {
		w.megabytes++
		if w.onMegabyte != nil {
			w.onMegabyte(w.megabytes)
		}
	}
	return
}
