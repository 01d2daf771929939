package session

import (
	"context"
	"log/slog"
	"time"
)

// StartSweeper runs a background goroutine that periodically drops
// in-progress orders idle for longer than ttl. It stops when ctx is done.
func StartSweeper(ctx context.Context, store *Store, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				if removed := store.Sweep(ttl); len(removed) > 0 {
					slog.Info("Session sweeper expired idle orders", "count", len(removed))
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
