package sites

import (
	"context"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// reconnectLoop calls dial repeatedly until ctx is cancelled or dial
// returns a nil error on its own accord (it normally doesn't: dial is
// expected to block for the life of the session and only return on
// disconnect). Each failed attempt increments stats.Reconnect and waits
// min(60, 2^attempts) seconds before retrying, per spec.md §4.3's
// "Streaming reconnection" rule. attempts resets to zero after a session
// that stayed up at least one minute, so a flaky-but-working link doesn't
// ratchet its backoff up forever.
func reconnectLoop(ctx context.Context, stats *core.Stats, dial func(ctx context.Context) error) error {
	attempts := 0
	for {
		started := time.Now()
		err := dial(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		if time.Since(started) >= time.Minute {
			attempts = 0
		}
		attempts++
		if attempts > 6 { // 2^6 already exceeds the 60s cap
			attempts = 6
		}
		stats.Reconnect++

		secs := int64(1) << uint(attempts)
		if secs > 60 {
			secs = 60
		}
		backoff := time.Duration(secs) * time.Second

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
