package service

import (
	"context"
	"log/slog"
	"time"

	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
)

// publishEvent hands event to publisher off the loop. Failures are logged and
// never reach the user.
func publishEvent(loop *eventloop.Loop, ctx context.Context, publisher Publisher, logger *slog.Logger, event *domain.SubscriptionEvent) {
	if publisher == nil {
		return
	}
	event.Timestamp = time.Now().UTC()

	eventloop.Go(loop, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, publisher.Publish(ctx, event)
	}, func(_ struct{}, err error) {
		if err != nil {
			logger.Warn("failed to publish event", "action", event.Action, "error", err)
		}
	})
}
