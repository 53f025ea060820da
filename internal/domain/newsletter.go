package domain

import "time"

// NewsletterSummary is a newsletter without its rendered content.
type NewsletterSummary struct {
	ID              string
	Title           string
	SentAt          time.Time
	SubscriberCount int
	Topics          []string
}

type Newsletter struct {
	NewsletterSummary
	// ContentHTML is passed through untouched; the client never parses it.
	ContentHTML string
}

// NewsletterPreviewList holds the previews produced for exactly one selection key.
type NewsletterPreviewList struct {
	Key         string
	Newsletters []NewsletterSummary
}
