package service

import (
	"context"
	"log/slog"
	"strings"

	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
	"newsletter_client/internal/metrics"
)

const DefaultPreviewLimit = 3

type PreviewState struct {
	Selection domain.TopicSelection
	Loading   bool
	List      domain.NewsletterPreviewList
}

// PreviewFetchCoordinator keeps the preview list consistent with the latest
// topic selection. Every fetch is tagged with the generation it was issued
// for; a response is applied only while its generation is still current, so
// the latest selection wins regardless of the order responses arrive in.
type PreviewFetchCoordinator struct {
	loop    *eventloop.Loop
	api     NewsletterAPI
	metrics metrics.Recorder
	limit   int
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	selection  domain.TopicSelection
	key        string
	generation uint64
	inFlight   context.CancelFunc
	loading    bool
	list       domain.NewsletterPreviewList
}

// NewPreviewFetchCoordinator creates a coordinator fetching at most limit
// newsletters per selection. A nil recorder disables metrics.
func NewPreviewFetchCoordinator(
	loop *eventloop.Loop,
	api NewsletterAPI,
	recorder metrics.Recorder,
	limit int,
	logger *slog.Logger,
) *PreviewFetchCoordinator {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &PreviewFetchCoordinator{
		loop:      loop,
		api:       api,
		metrics:   recorder,
		limit:     limit,
		logger:    logger.With("component", "preview"),
		ctx:       ctx,
		cancel:    cancel,
		selection: domain.NewTopicSelection(),
	}
}

// SelectionChanged reacts to a new topic selection. An empty selection clears
// the list at once without a request; any other new selection supersedes the
// pending fetch and issues one for its normalized key.
func (p *PreviewFetchCoordinator) SelectionChanged(sel domain.TopicSelection) {
	if p.closed {
		return
	}

	if sel.IsEmpty() {
		p.supersede()
		p.selection = sel
		p.key = ""
		p.loading = false
		p.list = domain.NewsletterPreviewList{}
		return
	}

	key := sel.Key()
	if key == p.key {
		return
	}

	p.supersede()
	p.selection = sel
	p.key = key
	p.loading = true
	p.list = domain.NewsletterPreviewList{}

	generation := p.generation
	limit := p.limit
	fetchCtx, cancel := context.WithCancel(p.ctx)
	p.inFlight = cancel

	p.logger.Debug("fetching previews", "topics", key, "generation", generation)

	eventloop.Go(p.loop, fetchCtx, func(ctx context.Context) ([]domain.NewsletterSummary, error) {
		return p.api.FetchPreview(ctx, key, limit)
	}, func(items []domain.NewsletterSummary, err error) {
		p.apply(generation, key, items, err)
	})
}

func (p *PreviewFetchCoordinator) State() PreviewState {
	return PreviewState{
		Selection: p.selection,
		Loading:   p.loading,
		List:      p.list,
	}
}

// Close tears the coordinator down. Responses arriving afterwards are dropped.
func (p *PreviewFetchCoordinator) Close() {
	p.closed = true
	p.generation++
	p.cancel()
}

// supersede invalidates the pending fetch, if any.
func (p *PreviewFetchCoordinator) supersede() {
	p.generation++
	if p.inFlight != nil {
		p.inFlight()
		p.inFlight = nil
	}
}

func (p *PreviewFetchCoordinator) apply(generation uint64, key string, items []domain.NewsletterSummary, err error) {
	if p.closed {
		return
	}
	if generation != p.generation {
		p.metrics.RecordPreviewResult(metrics.PreviewStale)
		p.logger.Debug("discarding stale previews", "topics", key, "generation", generation, "current", p.generation)
		return
	}

	if p.inFlight != nil {
		p.inFlight()
		p.inFlight = nil
	}
	p.loading = false

	if err != nil {
		p.metrics.RecordPreviewResult(metrics.PreviewFailed)
		p.logger.Warn("failed to fetch previews", "topics", key, "error", err)
		p.list = domain.NewsletterPreviewList{Key: key}
		return
	}

	if len(items) > p.limit {
		items = items[:p.limit]
	}
	p.metrics.RecordPreviewResult(metrics.PreviewApplied)
	p.list = domain.NewsletterPreviewList{Key: key, Newsletters: items}
}

// Heading renders the selection for display, e.g. "AI + Tech". Ids missing
// from the catalog are shown as is.
func Heading(sel domain.TopicSelection, catalog *Catalog) string {
	ids := sel.IDs()
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, catalog.Label(id))
	}
	return strings.Join(labels, " + ")
}
