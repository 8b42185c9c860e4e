package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sweeperFunc func(ctx context.Context, now time.Time) (int64, error)

func (f sweeperFunc) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return f(ctx, now)
}

func TestStartRefreshJanitor_SweepsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan time.Time, 8)
	s := sweeperFunc(func(_ context.Context, now time.Time) (int64, error) {
		select {
		case calls <- now:
		default:
		}
		return 1, errors.New("transient")
	})
	StartRefreshJanitor(ctx, s, slog.New(slog.NewTextHandler(io.Discard, nil)), 5*time.Millisecond)

	select {
	case now := <-calls:
		assert.Equal(t, time.UTC, now.Location())
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never swept")
	}
}

func TestStartRefreshJanitor_DisabledPeriod(t *testing.T) {
	s := sweeperFunc(func(context.Context, time.Time) (int64, error) {
		t.Error("sweep must not run")
		return 0, nil
	})
	StartRefreshJanitor(context.Background(), s, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	time.Sleep(20 * time.Millisecond)
}
