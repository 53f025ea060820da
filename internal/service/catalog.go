package service

import (
	"context"
	"log/slog"

	"newsletter_client/internal/config"
	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
)

// Catalog is the write-once topic lookup table. It is built by the
// TopicCatalogLoader and never modified afterwards, so it may be shared
// freely. A nil *Catalog behaves as an empty catalog.
type Catalog struct {
	topics []domain.Topic
	byID   map[string]domain.Topic
}

// NewCatalog builds a catalog preserving the given order. Topics without an id
// and repeated ids are dropped.
func NewCatalog(topics []domain.Topic) *Catalog {
	c := &Catalog{
		topics: make([]domain.Topic, 0, len(topics)),
		byID:   make(map[string]domain.Topic, len(topics)),
	}
	for _, t := range topics {
		if t.ID == "" {
			continue
		}
		if _, dup := c.byID[t.ID]; dup {
			continue
		}
		if t.Label == "" {
			t.Label = t.ID
		}
		c.topics = append(c.topics, t)
		c.byID[t.ID] = t
	}
	return c
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.topics)
}

// Topics returns a copy of the topics in catalog order.
func (c *Catalog) Topics() []domain.Topic {
	if c == nil {
		return nil
	}
	return append([]domain.Topic(nil), c.topics...)
}

func (c *Catalog) Lookup(id string) (domain.Topic, bool) {
	if c == nil {
		return domain.Topic{}, false
	}
	t, ok := c.byID[id]
	return t, ok
}

// Label returns the display label for id, or id itself when unknown.
func (c *Catalog) Label(id string) string {
	if t, ok := c.Lookup(id); ok {
		return t.Label
	}
	return id
}

type CatalogState struct {
	Loading      bool
	Catalog      *Catalog
	FromFallback bool
}

// TopicCatalogLoader requests the topic catalog once and substitutes a
// fallback catalog when the request fails.
type TopicCatalogLoader struct {
	loop     *eventloop.Loop
	source   TopicSource
	fallback []domain.Topic
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	started      bool
	closed       bool
	catalog      *Catalog
	fromFallback bool
	listeners    []func(*Catalog)
}

func NewTopicCatalogLoader(loop *eventloop.Loop, source TopicSource, cfg config.CatalogConfig, logger *slog.Logger) *TopicCatalogLoader {
	fallback := cfg.Fallback
	if len(fallback) == 0 {
		fallback = config.DefaultFallbackTopics()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TopicCatalogLoader{
		loop:     loop,
		source:   source,
		fallback: fallback,
		logger:   logger.With("component", "topic_catalog"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Load issues the catalog request. Only the first call has any effect.
func (l *TopicCatalogLoader) Load() {
	if l.started || l.closed {
		return
	}
	l.started = true

	eventloop.Go(l.loop, l.ctx, l.source.FetchTopics, l.loaded)
}

// OnLoaded registers fn to receive the catalog once it is available. If the
// catalog is already loaded fn is called immediately.
func (l *TopicCatalogLoader) OnLoaded(fn func(*Catalog)) {
	if l.catalog != nil {
		fn(l.catalog)
		return
	}
	l.listeners = append(l.listeners, fn)
}

func (l *TopicCatalogLoader) State() CatalogState {
	return CatalogState{
		Loading:      l.catalog == nil,
		Catalog:      l.catalog,
		FromFallback: l.fromFallback,
	}
}

// Close stops a pending load from being applied.
func (l *TopicCatalogLoader) Close() {
	l.closed = true
	l.cancel()
}

func (l *TopicCatalogLoader) loaded(topics []domain.Topic, err error) {
	if l.closed {
		return
	}

	catalog := NewCatalog(topics)
	switch {
	case err != nil:
		l.logger.Warn("failed to load topics, using fallback", "error", err)
		catalog = NewCatalog(l.fallback)
		l.fromFallback = true
	case catalog.Len() == 0:
		l.logger.Warn("topic catalog is empty, using fallback")
		catalog = NewCatalog(l.fallback)
		l.fromFallback = true
	default:
		l.logger.Info("loaded topics", "count", catalog.Len())
	}

	l.catalog = catalog
	l.cancel()

	listeners := l.listeners
	l.listeners = nil
	for _, fn := range listeners {
		fn(catalog)
	}
}
