package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type topicsResponse struct {
	Topics       []string          `json:"topics"`
	DisplayNames map[string]string `json:"display_names"`
	Descriptions map[string]string `json:"descriptions"`
}

type subscribeRequest struct {
	Email  string   `json:"email"`
	Topics []string `json:"topics"`
}

type previewResponse struct {
	Topics      []string            `json:"topics"`
	Newsletters []newsletterPayload `json:"newsletters"`
	Count       int                 `json:"count"`
}

type newsletterPayload struct {
	ID              flexibleID `json:"id"`
	Title           string     `json:"title"`
	SentAt          string     `json:"sent_at"`
	SubscriberCount int        `json:"subscriber_count"`
	Topics          []string   `json:"topics"`
	ContentHTML     string     `json:"content_html"`
}

type subscriptionPayload struct {
	Email     string   `json:"email"`
	Topics    []string `json:"topics"`
	Active    bool     `json:"active"`
	CreatedAt string   `json:"created_at"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// errorResponse is the error body. Detail is either a string or, for
// request validation failures, a list of objects carrying "msg".
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func (e errorResponse) message() string {
	if len(e.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// flexibleID accepts both numeric and string identifiers.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp accepts RFC 3339 and zone-less ISO 8601 timestamps, the
// latter interpreted as UTC.
func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
