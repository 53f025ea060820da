package eventloop

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoop_RunsContinuationsInPostOrder(t *testing.T) {
	l := New(8, testLogger())
	var got []int

	l.Post(func() { got = append(got, 1) })
	l.Post(func() { got = append(got, 2) })
	l.Post(func() { got = append(got, 3) })

	assert.Equal(t, 3, l.RunPending())
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 0, l.RunPending())
}

func TestGo_DeliversResultOnLoop(t *testing.T) {
	l := New(1, testLogger())
	ctx := context.Background()

	var result string
	var resultErr error
	Go(l, ctx, func(context.Context) (string, error) {
		return "tech", errors.New("boom")
	}, func(v string, err error) {
		result, resultErr = v, err
	})

	require.NoError(t, l.RunOne(ctx))
	assert.Equal(t, "tech", result)
	assert.EqualError(t, resultErr, "boom")
}

func TestLoop_RunStopsOnContextCancel(t *testing.T) {
	l := New(1, testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	ran := make(chan struct{})
	l.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("continuation did not run")
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestLoop_StopDropsLaterPosts(t *testing.T) {
	l := New(0, testLogger())
	l.Stop()
	l.Stop()

	done := make(chan struct{})
	go func() {
		l.Post(func() { t.Error("must not run") })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked after Stop")
	}

	assert.ErrorIs(t, l.Run(context.Background()), ErrStopped)
	assert.ErrorIs(t, l.RunOne(context.Background()), ErrStopped)
}

func TestDrain_WaitsForOutstandingWork(t *testing.T) {
	l := New(4, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	release := make(chan struct{})
	var order []string

	Go(l, ctx, func(context.Context) (string, error) {
		<-release
		return "slow", nil
	}, func(v string, _ error) {
		order = append(order, v)
		Go(l, ctx, func(context.Context) (string, error) {
			return "chained", nil
		}, func(v string, _ error) {
			order = append(order, v)
		})
	})

	assert.Equal(t, 1, l.Pending())
	close(release)

	require.NoError(t, l.Drain(ctx))
	assert.Equal(t, 0, l.Pending())
	assert.Equal(t, []string{"slow", "chained"}, order)
}
