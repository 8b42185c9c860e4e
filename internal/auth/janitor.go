package auth

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredSweeper removes refresh records whose expiry has passed.
type ExpiredSweeper interface {
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// StartRefreshJanitor clears expired refresh records every period until ctx
// is cancelled. Expired records already fail lookup; the sweep only keeps the
// table tidy. A non-positive period disables it.
func StartRefreshJanitor(ctx context.Context, s ExpiredSweeper, log *slog.Logger, period time.Duration) {
	if period <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				sweep(ctx, s, log)
			}
		}
	}()
}

func sweep(ctx context.Context, s ExpiredSweeper, log *slog.Logger) {
	n, err := s.ClearExpiredRefreshTokens(ctx, time.Now().UTC())
	if err != nil {
		log.Error("refresh janitor failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		log.Debug("refresh janitor cleared tokens", slog.Int64("count", n))
	}
}
