package process

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// drainChunkSize is the size of each read issued by a drain loop.
const drainChunkSize = 32 * 1024

// StreamConfig describes how one output pipe of the child is consumed.
// Bytes are always read to end-of-stream; the fields only decide what happens
// to them afterwards.
//
// A Write blocked in Writer is not interrupted by the drain timeout; the join
// waits for it.
type StreamConfig struct {
	Discard bool      // Drop bytes instead of retaining them
	Writer  io.Writer // Optional; receives a copy of every chunk read
	Limit   int       // Maximum bytes retained; zero means unlimited
}

// StreamResult reports what a drain loop observed.
type StreamResult struct {
	Data      []byte // Retained bytes; nil when discarded or not attached
	Bytes     int64  // Total bytes read, including bytes not retained
	Truncated bool   // Limit was reached and later bytes were dropped
}

// drainer owns one pipe between the child and the parent. The parent keeps
// the read end; w is the child's end and must be closed in the parent once
// the child has been started, otherwise the read end never reaches EOF.
//
// buf, n, truncated and writerErr are written only by run and read only after
// the drain group has been joined.
type drainer struct {
	name string
	cfg  StreamConfig
	r    io.ReadCloser
	w    io.Closer

	buf       bytes.Buffer
	n         int64
	truncated bool
	writerErr error

	closeOnce sync.Once
	aborted   atomic.Bool
}

// newPipeDrainer creates the pipe for name and returns the drainer together
// with the write end to hand to the child.
func newPipeDrainer(name string, cfg StreamConfig) (*drainer, *os.File, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, fmt.Errorf("create %s pipe: %w", name, err)
	}
	return &drainer{name: name, cfg: cfg, r: r, w: w}, w, nil
}

// run reads until end-of-stream. It never stops early on a writer failure,
// since a child blocked on a full pipe would then never exit.
func (d *drainer) run() error {
	defer d.closeReadEnd()

	chunk := make([]byte, drainChunkSize)
	for {
		n, err := d.r.Read(chunk)
		if n > 0 {
			d.consume(chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			if d.writerErr != nil {
				return fmt.Errorf("forward %s: %w", d.name, d.writerErr)
			}
			return nil
		}
		if err != nil {
			if d.aborted.Load() {
				// The joiner closed the read end and reports the timeout.
				return nil
			}
			return fmt.Errorf("read %s: %w", d.name, err)
		}
	}
}

func (d *drainer) consume(p []byte) {
	d.n += int64(len(p))

	if d.cfg.Writer != nil && d.writerErr == nil {
		n, err := d.cfg.Writer.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		d.writerErr = err
	}

	if d.cfg.Discard {
		return
	}
	if d.cfg.Limit > 0 {
		room := d.cfg.Limit - d.buf.Len()
		if room <= 0 {
			d.truncated = true
			return
		}
		if len(p) > room {
			p = p[:room]
			d.truncated = true
		}
	}
	d.buf.Write(p)
}

// closeWriteEnd releases the parent's copy of the child's end of the pipe.
func (d *drainer) closeWriteEnd() {
	if d.w != nil {
		_ = d.w.Close()
		d.w = nil
	}
}

func (d *drainer) closeReadEnd() {
	d.closeOnce.Do(func() {
		_ = d.r.Close()
	})
}

// abort unblocks a pending Read by closing the read end. run then returns nil.
func (d *drainer) abort() {
	d.aborted.Store(true)
	d.closeReadEnd()
}

// release closes both ends; used when the child never started.
func (d *drainer) release() {
	if d == nil {
		return
	}
	d.closeWriteEnd()
	d.closeReadEnd()
}

func (d *drainer) result() StreamResult {
	if d == nil {
		return StreamResult{}
	}
	res := StreamResult{Bytes: d.n, Truncated: d.truncated}
	if !d.cfg.Discard {
		res.Data = d.buf.Bytes()
		if res.Data == nil {
			res.Data = []byte{}
		}
	}
	return res
}
