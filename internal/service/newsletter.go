package service

import (
	"context"
	"log/slog"
	"strings"

	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
)

const MsgNewsletterNotFound = "Newsletter not found or failed to load."

type DetailStatus int

const (
	DetailLoading DetailStatus = iota
	DetailLoaded
	DetailNotFound
)

func (s DetailStatus) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type DetailState struct {
	Status     DetailStatus
	ID         string
	Newsletter *domain.Newsletter
	Message    string
	// BackLink points to the subscribe page when the newsletter is missing.
	BackLink string
}

// TopicLabels renders the newsletter topics for display, e.g. "Us Politics + Tech".
func (s DetailState) TopicLabels() string {
	if s.Newsletter == nil {
		return ""
	}
	labels := make([]string, 0, len(s.Newsletter.Topics))
	for _, id := range s.Newsletter.Topics {
		labels = append(labels, domain.HumanizeTopic(id))
	}
	return strings.Join(labels, " + ")
}

// NewsletterDetailLoader loads a single newsletter for read-only display.
type NewsletterDetailLoader struct {
	loop   *eventloop.Loop
	api    NewsletterAPI
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	started    bool
	id         string
	status     DetailStatus
	newsletter *domain.Newsletter
}

func NewNewsletterDetailLoader(loop *eventloop.Loop, api NewsletterAPI, id string, logger *slog.Logger) *NewsletterDetailLoader {
	ctx, cancel := context.WithCancel(context.Background())

	return &NewsletterDetailLoader{
		loop:   loop,
		api:    api,
		logger: logger.With("component", "newsletter_detail", "newsletter_id", id),
		ctx:    ctx,
		cancel: cancel,
		id:     id,
		status: DetailLoading,
	}
}

// Start issues the single fetch. Only the first call has any effect.
func (d *NewsletterDetailLoader) Start() {
	if d.started || d.closed {
		return
	}
	d.started = true

	if d.id == "" {
		d.status = DetailNotFound
		return
	}

	id := d.id
	eventloop.Go(d.loop, d.ctx, func(ctx context.Context) (*domain.Newsletter, error) {
		return d.api.FetchNewsletter(ctx, id)
	}, d.loaded)
}

func (d *NewsletterDetailLoader) State() DetailState {
	state := DetailState{
		Status:     d.status,
		ID:         d.id,
		Newsletter: d.newsletter,
	}
	if d.status == DetailNotFound {
		state.Message = MsgNewsletterNotFound
		state.BackLink = HomePath
	}
	return state
}

// Close drops the outcome of a pending fetch.
func (d *NewsletterDetailLoader) Close() {
	d.closed = true
	d.cancel()
}

func (d *NewsletterDetailLoader) loaded(newsletter *domain.Newsletter, err error) {
	if d.closed {
		return
	}
	if err != nil || newsletter == nil {
		d.logger.Warn("failed to load newsletter", "error", err)
		d.status = DetailNotFound
		return
	}
	d.newsletter = newsletter
	d.status = DetailLoaded
}
