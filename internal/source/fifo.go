package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const readChunk = 4096

// FIFO reads a cava-style raw 8-bit stream. Newline bytes are dropped and the
// remaining bytes are cut into frames purely by position; there is no sync
// marker, so a lost byte shifts every later frame.
type FIFO struct {
	r       io.Reader
	closer  io.Closer
	bars    int
	buf     []byte
	chunk   []byte
	backoff time.Duration
}

// OpenFIFO opens the named pipe at path. Like any FIFO open it waits for a
// writer; ctx aborts the wait.
func OpenFIFO(ctx context.Context, path string, bars int) (*FIFO, error) {
	type result struct {
		f   *os.File
		err error
	}
	done := make(chan result, 1)
	go func() {
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		done <- result{f, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("open fifo: %w", res.err)
		}
		fifo := NewReader(res.f, bars)
		fifo.closer = res.f
		return fifo, nil
	case <-ctx.Done():
		go func() {
			if res := <-done; res.f != nil {
				_ = res.f.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// NewReader frames an arbitrary byte stream the same way OpenFIFO does.
func NewReader(r io.Reader, bars int) *FIFO {
	if bars <= 0 {
		bars = 1
	}
	return &FIFO{
		r:       r,
		bars:    bars,
		chunk:   make([]byte, readChunk),
		backoff: IdleBackoff,
	}
}

// Bars returns the frame width.
func (f *FIFO) Bars() int { return f.bars }

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Next returns the next complete frame. An empty read (including EOF while no
// writer is attached) is not an error: Next sleeps and retries. Any other read
// error ends the stream.
func (f *FIFO) Next(ctx context.Context) ([]byte, error) {
	if d, ok := f.r.(deadliner); ok {
		stop := context.AfterFunc(ctx, func() { _ = d.SetReadDeadline(time.Now()) })
		defer stop()
	}

	for {
		if len(f.buf) >= f.bars {
			frame := make([]byte, f.bars)
			copy(frame, f.buf[:f.bars])
			f.buf = f.buf[f.bars:]
			return frame, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := f.r.Read(f.chunk)
		for _, b := range f.chunk[:n] {
			if b != '\n' {
				f.buf = append(f.buf, b)
			}
		}
		switch {
		case err == nil || errors.Is(err, io.EOF):
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			return nil, fmt.Errorf("read fifo: %w", err)
		}
		if n == 0 {
			if err := sleep(ctx, f.backoff); err != nil {
				return nil, err
			}
		}
	}
}

// Close closes the pipe if OpenFIFO opened it.
func (f *FIFO) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}
