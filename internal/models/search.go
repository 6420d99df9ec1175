package models

import "time"

// SearchResult is one ranked hit from the combined search
type SearchResult struct {
	Type      ItemType  `json:"type"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`

	Task     *Task     `json:"task,omitempty"`
	Resource *Resource `json:"resource,omitempty"`
	Thought  *Thought  `json:"thought,omitempty"`
}
