package usecase

import (
	"context"
	"time"
)

// runEvery calls fn on every tick of interval until ctx is done. It returns
// nil on cancellation so it can run inside an errgroup without failing it.
func runEvery(ctx context.Context, interval time.Duration, fn func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn()
		}
	}
}
