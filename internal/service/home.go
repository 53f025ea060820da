package service

import (
	"log/slog"

	"newsletter_client/internal/config"
	"newsletter_client/internal/eventloop"
	"newsletter_client/internal/metrics"
)

type HomeConfig struct {
	Preview  config.PreviewConfig
	Catalog  config.CatalogConfig
	Composer config.ComposerConfig
}

// HomePage wires the subscribe page: the catalog feeds the composer and the
// composer's selection feeds the preview coordinator.
type HomePage struct {
	Catalog  *TopicCatalogLoader
	Composer *SubscriptionComposer
	Preview  *PreviewFetchCoordinator
}

func NewHomePage(
	loop *eventloop.Loop,
	topics TopicSource,
	subs SubscriptionAPI,
	newsletters NewsletterAPI,
	publisher Publisher,
	recorder metrics.Recorder,
	cfg HomeConfig,
	logger *slog.Logger,
) *HomePage {
	h := &HomePage{
		Catalog:  NewTopicCatalogLoader(loop, topics, cfg.Catalog, logger),
		Composer: NewSubscriptionComposer(loop, subs, publisher, cfg.Composer, logger),
		Preview:  NewPreviewFetchCoordinator(loop, newsletters, recorder, cfg.Preview.Limit, logger),
	}

	h.Composer.OnSelectionChange(h.Preview.SelectionChanged)
	h.Catalog.OnLoaded(h.Composer.CatalogLoaded)

	return h
}

// Start requests the topic catalog.
func (h *HomePage) Start() {
	h.Catalog.Load()
}

// Heading renders the current selection, or "" when nothing is selected.
func (h *HomePage) Heading() string {
	return Heading(h.Composer.State().SelectedTopics, h.Catalog.State().Catalog)
}

func (h *HomePage) Close() {
	h.Preview.Close()
	h.Composer.Close()
	h.Catalog.Close()
}
