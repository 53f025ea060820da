package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"newsletter_client/internal/domain"
)

type TopicSource interface {
	FetchTopics(ctx context.Context) ([]domain.Topic, error)
}

type SubscriptionAPI interface {
	Subscribe(ctx context.Context, req domain.SubscribeRequest) error
	FetchSubscription(ctx context.Context, token string) (*domain.SubscriptionRecord, error)
	Unsubscribe(ctx context.Context, token string) error
}

type NewsletterAPI interface {
	FetchPreview(ctx context.Context, key string, limit int) ([]domain.NewsletterSummary, error)
	FetchNewsletter(ctx context.Context, id string) (*domain.Newsletter, error)
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.SubscriptionEvent) error
	Close() error
}
