// Package source produces raw spectrum frames: one byte per bar, 0..255.
package source

import (
	"context"
	"time"
)

// Source yields frames of a fixed bar count until ctx ends or the stream fails.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// IdleBackoff is how long a reader waits after an empty read before retrying.
const IdleBackoff = 20 * time.Millisecond

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
