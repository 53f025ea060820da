package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"newsletter_client/internal/domain"
	"newsletter_client/internal/metrics"
)

const (
	DefaultUserAgent = "NewsletterClient/1.0"

	// maxErrorBody bounds how much of an error response is read for its detail.
	maxErrorBody = 64 << 10
)

// Endpoint names, used for logging and metric labels.
const (
	EndpointTopics       = "topics"
	EndpointSubscribe    = "subscribe"
	EndpointPreview      = "preview"
	EndpointNewsletter   = "newsletter"
	EndpointSubscription = "subscription"
	EndpointUnsubscribe  = "unsubscribe"
	EndpointHealth       = "health"
)

// Config holds API client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	UserAgent string
}

// Client talks to the newsletter REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// New creates a new API client. A nil recorder disables metrics.
func New(cfg Config, recorder metrics.Recorder, logger *slog.Logger) *Client {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: userAgent,
		limiter:   rate.NewLimiter(limit, burst),
		metrics:   recorder,
		logger:    logger.With("component", "api"),
	}
}

// FetchTopics loads the topic catalog in server order.
func (c *Client) FetchTopics(ctx context.Context) ([]domain.Topic, error) {
	var resp topicsResponse
	err := c.do(ctx, request{
		endpoint: EndpointTopics,
		method:   http.MethodGet,
		path:     "/api/topics",
		resource: "topics",
	}, &resp)
	if err != nil {
		return nil, err
	}

	topics := make([]domain.Topic, 0, len(resp.Topics))
	for _, id := range resp.Topics {
		label := resp.DisplayNames[id]
		if label == "" {
			label = id
		}
		topics = append(topics, domain.Topic{
			ID:          id,
			Label:       label,
			Description: resp.Descriptions[id],
		})
	}

	return topics, nil
}

// Subscribe creates a subscription. The request is sent as given; duplicate
// handling is the server's concern.
func (c *Client) Subscribe(ctx context.Context, req domain.SubscribeRequest) error {
	return c.do(ctx, request{
		endpoint: EndpointSubscribe,
		method:   http.MethodPost,
		path:     "/api/subscribe",
		body:     subscribeRequest{Email: req.Email, Topics: req.Topics},
		resource: "subscription",
		key:      req.Email,
	}, nil)
}

// FetchPreview loads at most limit past newsletters for the normalized topic key.
func (c *Client) FetchPreview(ctx context.Context, key string, limit int) ([]domain.NewsletterSummary, error) {
	query := url.Values{}
	query.Set("topics", key)
	query.Set("limit", strconv.Itoa(limit))

	var resp previewResponse
	err := c.do(ctx, request{
		endpoint: EndpointPreview,
		method:   http.MethodGet,
		path:     "/api/newsletters/preview",
		query:    query,
		resource: "preview",
		key:      key,
	}, &resp)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.NewsletterSummary, 0, len(resp.Newsletters))
	for _, p := range resp.Newsletters {
		summary, ok := c.toSummary(p)
		if !ok {
			continue
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// FetchNewsletter loads one newsletter including its HTML content.
func (c *Client) FetchNewsletter(ctx context.Context, id string) (*domain.Newsletter, error) {
	var resp newsletterPayload
	err := c.do(ctx, request{
		endpoint: EndpointNewsletter,
		method:   http.MethodGet,
		path:     "/api/newsletters/" + url.PathEscape(id),
		resource: "newsletter",
		key:      id,
	}, &resp)
	if err != nil {
		return nil, err
	}

	summary, ok := c.toSummary(resp)
	if !ok {
		// keep the record: the detail page is still useful without a date
		summary = domain.NewsletterSummary{
			ID:              string(resp.ID),
			Title:           resp.Title,
			SubscriberCount: max(resp.SubscriberCount, 0),
			Topics:          resp.Topics,
		}
	}
	if summary.ID == "" {
		summary.ID = id
	}

	return &domain.Newsletter{
		NewsletterSummary: summary,
		ContentHTML:       resp.ContentHTML,
	}, nil
}

// FetchSubscription loads the subscription identified by an unsubscribe token.
func (c *Client) FetchSubscription(ctx context.Context, token string) (*domain.SubscriptionRecord, error) {
	var resp subscriptionPayload
	err := c.do(ctx, request{
		endpoint: EndpointSubscription,
		method:   http.MethodGet,
		path:     "/api/subscription/" + url.PathEscape(token),
		resource: "subscription",
		key:      token,
	}, &resp)
	if err != nil {
		return nil, err
	}

	createdAt, ok := parseTimestamp(resp.CreatedAt)
	if !ok && resp.CreatedAt != "" {
		c.logger.Warn("failed to parse date",
			"endpoint", EndpointSubscription,
			"date", resp.CreatedAt,
		)
	}

	return &domain.SubscriptionRecord{
		Token:     token,
		Email:     resp.Email,
		Topics:    resp.Topics,
		Active:    resp.Active,
		CreatedAt: createdAt,
	}, nil
}

// Unsubscribe deactivates the subscription identified by token.
func (c *Client) Unsubscribe(ctx context.Context, token string) error {
	return c.do(ctx, request{
		endpoint: EndpointUnsubscribe,
		method:   http.MethodDelete,
		path:     "/api/unsubscribe/" + url.PathEscape(token),
		resource: "subscription",
		key:      token,
	}, nil)
}

// Health probes the API health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var resp healthResponse
	if err := c.do(ctx, request{
		endpoint: EndpointHealth,
		method:   http.MethodGet,
		path:     "/health",
		resource: "health",
	}, &resp); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return &domain.TransientFetchError{Op: EndpointHealth, Status: http.StatusOK, Detail: "status " + resp.Status}
	}
	return nil
}

type request struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
	resource string
	key      string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	start := time.Now()
	err := c.doRequest(ctx, r, out)
	c.metrics.RecordRequest(r.endpoint, outcome(err), time.Since(start))
	return err
}

func (c *Client) doRequest(ctx context.Context, r request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.TransientFetchError{Op: r.endpoint, Err: fmt.Errorf("wait for rate limiter: %w", err)}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransientFetchError{Op: r.endpoint, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	c.logger.Debug("api response",
		"endpoint", r.endpoint,
		"method", r.method,
		"status", resp.StatusCode,
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			return &domain.NotFoundError{Resource: r.resource, Key: r.key, Detail: detail}
		}
		return &domain.TransientFetchError{Op: r.endpoint, Status: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransientFetchError{Op: r.endpoint, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func (c *Client) toSummary(p newsletterPayload) (domain.NewsletterSummary, bool) {
	sentAt, ok := parseTimestamp(p.SentAt)
	if !ok {
		c.logger.Warn("failed to parse date",
			"newsletter_id", string(p.ID),
			"date", p.SentAt,
		)
		return domain.NewsletterSummary{}, false
	}

	count := p.SubscriberCount
	if count < 0 {
		count = 0
	}

	return domain.NewsletterSummary{
		ID:              string(p.ID),
		Title:           p.Title,
		SentAt:          sentAt,
		SubscriberCount: count,
		Topics:          p.Topics,
	}, true
}

func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var e errorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		return ""
	}
	return e.message()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCancelled
	case domain.IsNotFound(err):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeFailure
	}
}
