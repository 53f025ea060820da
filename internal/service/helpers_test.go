package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/require"

	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// runLoop processes exactly n continuations, failing if any of them does not
// arrive in time.
func runLoop(t require.TestingT, loop *eventloop.Loop, n int) {
	for i := 0; i < n; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := loop.RunOne(ctx)
		cancel()
		require.NoError(t, err, "continuation %d of %d", i+1, n)
	}
}

func testCatalog() *Catalog {
	return NewCatalog([]domain.Topic{
		{ID: "tech", Label: "Tech"},
		{ID: "ai", Label: "AI"},
		{ID: "us_politics", Label: "US Politics"},
	})
}

// fakeRecorder counts preview results. It is only touched from the loop.
type fakeRecorder struct {
	previews map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{previews: make(map[string]int)}
}

func (f *fakeRecorder) RecordRequest(string, string, time.Duration) {}

func (f *fakeRecorder) RecordPreviewResult(result string) {
	f.previews[result]++
}
