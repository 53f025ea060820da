package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
)

const (
	MsgInvalidLink       = "Invalid unsubscribe link or subscription not found."
	MsgUnsubscribeFailed = "Failed to unsubscribe. Please try again."
	MsgUnsubscribed      = "You've been unsubscribed from the newsletter. We're sorry to see you go!"
	MsgAlreadyInactive   = "This email address is already unsubscribed from our newsletter."

	HomePath = "/"
)

// ErrInvalidTransition is returned for actions the current state does not offer.
var ErrInvalidTransition = errors.New("invalid transition")

type UnsubscribeStatus int

const (
	UnsubscribeLoading UnsubscribeStatus = iota
	UnsubscribeError
	UnsubscribeAlreadyInactive
	UnsubscribeConfirming
	UnsubscribeSubmitting
	Unsubscribed
)

func (s UnsubscribeStatus) String() string {
	switch s {
	case UnsubscribeLoading:
		return "loading"
	case UnsubscribeError:
		return "error"
	case UnsubscribeAlreadyInactive:
		return "already_inactive"
	case UnsubscribeConfirming:
		return "confirming"
	case UnsubscribeSubmitting:
		return "submitting"
	case Unsubscribed:
		return "unsubscribed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s UnsubscribeStatus) Terminal() bool {
	return s == UnsubscribeError || s == UnsubscribeAlreadyInactive || s == Unsubscribed
}

type UnsubscribeState struct {
	Status UnsubscribeStatus
	Token  string
	Record *domain.SubscriptionRecord
	// Message is the terminal message, or the retryable error while Confirming.
	Message string
}

// CanConfirm reports whether the delete action is offered.
func (s UnsubscribeState) CanConfirm() bool {
	return s.Status == UnsubscribeConfirming
}

// UnsubscribeFlow is the two-step confirm/delete flow for one unsubscribe token.
type UnsubscribeFlow struct {
	loop      *eventloop.Loop
	api       SubscriptionAPI
	publisher Publisher
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	started bool
	token   string
	status  UnsubscribeStatus
	record  *domain.SubscriptionRecord
	message string
}

// NewUnsubscribeFlow creates a flow for token. publisher may be nil.
func NewUnsubscribeFlow(loop *eventloop.Loop, api SubscriptionAPI, publisher Publisher, token string, logger *slog.Logger) *UnsubscribeFlow {
	ctx, cancel := context.WithCancel(context.Background())

	return &UnsubscribeFlow{
		loop:      loop,
		api:       api,
		publisher: publisher,
		logger:    logger.With("component", "unsubscribe"),
		ctx:       ctx,
		cancel:    cancel,
		token:     token,
		status:    UnsubscribeLoading,
	}
}

// Start loads the subscription. Only the first call has any effect.
func (f *UnsubscribeFlow) Start() {
	if f.started || f.closed {
		return
	}
	f.started = true

	if f.token == "" {
		f.fail(&domain.NotFoundError{Resource: "subscription"})
		return
	}

	token := f.token
	eventloop.Go(f.loop, f.ctx, func(ctx context.Context) (*domain.SubscriptionRecord, error) {
		return f.api.FetchSubscription(ctx, token)
	}, f.loaded)
}

// Confirm issues the delete request. It is only valid while Confirming.
func (f *UnsubscribeFlow) Confirm() error {
	if f.closed || f.status != UnsubscribeConfirming {
		return fmt.Errorf("confirm from %s: %w", f.status, ErrInvalidTransition)
	}

	f.status = UnsubscribeSubmitting
	f.message = ""

	token := f.token
	eventloop.Go(f.loop, f.ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f.api.Unsubscribe(ctx, token)
	}, func(_ struct{}, err error) {
		f.deleted(err)
	})

	return nil
}

// Keep declines the unsubscribe. The flow state is left as is; the caller
// navigates to the returned path.
func (f *UnsubscribeFlow) Keep() string {
	f.logger.Debug("subscription kept")
	return HomePath
}

func (f *UnsubscribeFlow) State() UnsubscribeState {
	return UnsubscribeState{
		Status:  f.status,
		Token:   f.token,
		Record:  f.record,
		Message: f.message,
	}
}

// Close drops the outcome of any pending request.
func (f *UnsubscribeFlow) Close() {
	f.closed = true
	f.cancel()
}

func (f *UnsubscribeFlow) loaded(record *domain.SubscriptionRecord, err error) {
	if f.closed {
		return
	}
	if err != nil || record == nil {
		f.fail(err)
		return
	}

	f.record = record
	if !record.Active {
		f.status = UnsubscribeAlreadyInactive
		f.message = MsgAlreadyInactive
		f.logger.Info("subscription already inactive")
		return
	}

	f.status = UnsubscribeConfirming
}

func (f *UnsubscribeFlow) deleted(err error) {
	if f.closed {
		return
	}

	if err != nil {
		f.status = UnsubscribeConfirming
		f.message = domain.MessageOr(err, MsgUnsubscribeFailed)
		f.logger.Warn("unsubscribe failed", "error", err)
		return
	}

	f.status = Unsubscribed
	f.message = MsgUnsubscribed
	f.logger.Info("unsubscribed")

	publishEvent(f.loop, f.ctx, f.publisher, f.logger, &domain.SubscriptionEvent{
		Action: domain.ActionUnsubscribed,
		Email:  f.record.Email,
		Topics: f.record.Topics,
		Token:  f.token,
	})
}

func (f *UnsubscribeFlow) fail(err error) {
	f.status = UnsubscribeError
	f.message = MsgInvalidLink
	f.logger.Warn("failed to load subscription", "error", err)
}
