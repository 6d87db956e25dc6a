package logutils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter holds log output in memory until Flush, for when the
// terminal is owned by the form and logs have no file to go to.
// Safe for concurrent use.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Flush replays everything held so far to w and empties the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() == 0 {
		return nil
	}
	_, err := d.buf.WriteTo(w)
	return err
}
