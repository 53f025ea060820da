package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"newsletter_client/internal/config"
	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
)

const (
	MsgSubscribeInvalid = "Please enter your email and select at least one topic."
	MsgSubscribeFailed  = "Subscription failed. Please try again."
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// FormState is a snapshot of the subscription form.
type FormState struct {
	Email          string
	SelectedTopics domain.TopicSelection
	Phase          Phase
	// Message is set in PhaseError.
	Message       string
	LoadingTopics bool
}

// Editable reports whether the submit control should be enabled.
func (s FormState) Editable() bool {
	return !s.LoadingTopics && (s.Phase == PhaseIdle || s.Phase == PhaseError)
}

// SubscriptionComposer owns the email and topic selection of the subscribe
// form and drives the create-subscription request.
type SubscriptionComposer struct {
	loop      *eventloop.Loop
	api       SubscriptionAPI
	publisher Publisher
	validate  *validator.Validate
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	defaultTopics []string
	catalog       *Catalog

	email    string
	selected domain.TopicSelection
	phase    Phase
	message  string

	selectionListeners []func(domain.TopicSelection)
}

// NewSubscriptionComposer creates a composer. publisher may be nil.
func NewSubscriptionComposer(
	loop *eventloop.Loop,
	api SubscriptionAPI,
	publisher Publisher,
	cfg config.ComposerConfig,
	logger *slog.Logger,
) *SubscriptionComposer {
	ctx, cancel := context.WithCancel(context.Background())

	return &SubscriptionComposer{
		loop:          loop,
		api:           api,
		publisher:     publisher,
		validate:      validator.New(),
		logger:        logger.With("component", "composer"),
		ctx:           ctx,
		cancel:        cancel,
		defaultTopics: cfg.DefaultTopics,
		selected:      domain.NewTopicSelection(),
	}
}

// OnSelectionChange registers fn to be called after every change of the
// selected topics, including changes to the empty selection.
func (c *SubscriptionComposer) OnSelectionChange(fn func(domain.TopicSelection)) {
	c.selectionListeners = append(c.selectionListeners, fn)
}

// CatalogLoaded enables topic toggling and applies the configured initial
// selection.
func (c *SubscriptionComposer) CatalogLoaded(catalog *Catalog) {
	if c.closed || c.catalog != nil {
		return
	}
	c.catalog = catalog

	initial := c.selected
	for _, id := range c.defaultTopics {
		if _, ok := catalog.Lookup(id); ok && !initial.Contains(id) {
			initial = initial.Toggle(id)
		}
	}
	c.setSelection(initial)
}

func (c *SubscriptionComposer) SetEmail(value string) {
	if c.closed || c.phase == PhaseSuccess {
		return
	}
	c.email = value
}

// ToggleTopic adds id to the selection or removes it. It does nothing until
// the catalog is loaded, and ignores ids the catalog does not know.
func (c *SubscriptionComposer) ToggleTopic(id string) {
	if c.closed || c.phase == PhaseSuccess || c.catalog == nil {
		return
	}
	if _, ok := c.catalog.Lookup(id); !ok {
		c.logger.Debug("ignoring unknown topic", "topic", id)
		return
	}
	c.setSelection(c.selected.Toggle(id))
}

// Submit validates the form and issues the subscription request. Invalid input
// returns a *domain.ValidationError without any request being made. Calling
// Submit while a request is in flight, or after success, does nothing.
func (c *SubscriptionComposer) Submit() error {
	if c.closed || c.phase == PhaseSubmitting || c.phase == PhaseSuccess {
		return nil
	}

	req := domain.SubscribeRequest{
		Email:  c.email,
		Topics: c.selected.IDs(),
	}

	check := domain.SubscribeRequest{Email: strings.TrimSpace(req.Email), Topics: req.Topics}
	if err := c.validate.Struct(check); err != nil {
		c.phase = PhaseError
		c.message = MsgSubscribeInvalid
		return &domain.ValidationError{Message: MsgSubscribeInvalid, Err: err}
	}

	c.phase = PhaseSubmitting
	c.message = ""
	c.logger.Info("submitting subscription", "topics", strings.Join(req.Topics, ","))

	eventloop.Go(c.loop, c.ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.api.Subscribe(ctx, req)
	}, func(_ struct{}, err error) {
		c.submitted(req, err)
	})

	return nil
}

// SubscribeAnother leaves the terminal success state for an empty form.
func (c *SubscriptionComposer) SubscribeAnother() {
	if c.closed || c.phase != PhaseSuccess {
		return
	}
	c.phase = PhaseIdle
	c.message = ""
	c.email = ""
	c.setSelection(domain.NewTopicSelection())
}

func (c *SubscriptionComposer) State() FormState {
	return FormState{
		Email:          c.email,
		SelectedTopics: c.selected,
		Phase:          c.phase,
		Message:        c.message,
		LoadingTopics:  c.catalog == nil,
	}
}

// Close drops the outcome of a pending submission.
func (c *SubscriptionComposer) Close() {
	c.closed = true
	c.cancel()
}

func (c *SubscriptionComposer) submitted(req domain.SubscribeRequest, err error) {
	if c.closed {
		return
	}

	if err != nil {
		c.phase = PhaseError
		c.message = domain.MessageOr(err, MsgSubscribeFailed)
		c.logger.Warn("subscription failed", "error", err)
		return
	}

	c.logger.Info("subscribed", "topics", strings.Join(req.Topics, ","))
	c.phase = PhaseSuccess
	c.message = ""
	c.email = ""
	c.setSelection(domain.NewTopicSelection())

	publishEvent(c.loop, c.ctx, c.publisher, c.logger, &domain.SubscriptionEvent{
		Action: domain.ActionSubscribed,
		Email:  req.Email,
		Topics: req.Topics,
	})
}

func (c *SubscriptionComposer) setSelection(next domain.TopicSelection) {
	changed := !next.Equal(c.selected)
	c.selected = next
	if !changed {
		return
	}
	for _, fn := range c.selectionListeners {
		fn(next)
	}
}
