package domain

import "time"

type SubscriptionRecord struct {
	Token     string
	Email     string
	Topics    []string
	Active    bool
	CreatedAt time.Time
}

type SubscribeRequest struct {
	Email  string   `json:"email" validate:"required"`
	Topics []string `json:"topics" validate:"required,min=1,dive,required"`
}

const (
	ActionSubscribed   = "subscribed"
	ActionUnsubscribed = "unsubscribed"
)

// SubscriptionEvent describes a completed subscription lifecycle transition.
type SubscriptionEvent struct {
	Action    string    `json:"action"`
	Email     string    `json:"email"`
	Topics    []string  `json:"topics,omitempty"`
	Token     string    `json:"token,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
