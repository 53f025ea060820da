package domain

import (
	"sort"
	"strings"
)

type Topic struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// TopicSelection is a set of topic ids. The zero value is an empty selection.
type TopicSelection struct {
	ids map[string]struct{}
}

func NewTopicSelection(ids ...string) TopicSelection {
	sel := TopicSelection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		sel.ids[id] = struct{}{}
	}
	return sel
}

// ParseTopicSelection builds a selection from a comma-separated list.
func ParseTopicSelection(csv string) TopicSelection {
	return NewTopicSelection(strings.Split(csv, ",")...)
}

func (s TopicSelection) Len() int {
	return len(s.ids)
}

func (s TopicSelection) IsEmpty() bool {
	return len(s.ids) == 0
}

func (s TopicSelection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the sorted topic ids.
func (s TopicSelection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Key is the normalized query key: sorted, deduplicated, comma-joined.
// Two selections are equal exactly when their keys are equal.
func (s TopicSelection) Key() string {
	return strings.Join(s.IDs(), ",")
}

func (s TopicSelection) Equal(other TopicSelection) bool {
	return s.Key() == other.Key()
}

// Toggle returns the symmetric difference of the selection and {id}.
// The receiver is not modified.
func (s TopicSelection) Toggle(id string) TopicSelection {
	next := TopicSelection{ids: make(map[string]struct{}, len(s.ids)+1)}
	for k := range s.ids {
		next.ids[k] = struct{}{}
	}
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else if id != "" {
		next.ids[id] = struct{}{}
	}
	return next
}

func (s TopicSelection) String() string {
	return "{" + s.Key() + "}"
}

// HumanizeTopic turns a topic id like "us_politics" into "Us Politics".
func HumanizeTopic(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
