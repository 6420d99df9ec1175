package models

import "time"

// ItemType discriminates the three archivable item kinds
type ItemType string

const (
	ItemTypeTask     ItemType = "task"
	ItemTypeResource ItemType = "resource"
	ItemTypeThought  ItemType = "thought"
)

// ValidItemType reports whether t names an archivable item kind
func ValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeTask, ItemTypeResource, ItemTypeThought:
		return true
	}
	return false
}

// AwayItem is one archived item tagged with its kind, merged into the
// unified per-day feed. Exactly one of Task/Resource/Thought is set.
type AwayItem struct {
	Type      ItemType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`

	Task     *Task     `json:"task,omitempty"`
	Resource *Resource `json:"resource,omitempty"`
	Thought  *Thought  `json:"thought,omitempty"`
}

// AwayPage is one keyset page of a single item type within one day.
// NextCursor is the hex id to pass back for the following page, empty
// when the day is exhausted for that type.
type AwayPage struct {
	Items      []AwayItem `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// DayBucket is one calendar day of the merged feed: items of all three
// types sorted most-recent-first, plus the per-type continuation
// cursors for in-day paging.
type DayBucket struct {
	Date    string              `json:"date"` // YYYY-MM-DD
	Items   []AwayItem          `json:"items"`
	Cursors map[ItemType]string `json:"cursors,omitempty"`
}

// AwayFeed is the response of the day-walking merged listing
type AwayFeed struct {
	Days       []DayBucket `json:"days"`
	OldestDate *time.Time  `json:"oldest_date,omitempty"`
	HasMore    bool        `json:"has_more"`
}
