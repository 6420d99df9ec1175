package services

import (
	"fmt"
	"testing"
	"time"

	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDayBounds(t *testing.T) {
	start, end, err := DayBounds("2026-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Errorf("start not at midnight: %v", start)
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("end not at end of day: %v", end)
	}
	if got := end.Sub(start); got != 24*time.Hour-time.Millisecond {
		t.Errorf("day span = %v, want %v", got, 24*time.Hour-time.Millisecond)
	}
	if start.Day() != 15 || start.Month() != time.March || start.Year() != 2026 {
		t.Errorf("wrong day parsed: %v", start)
	}
}

func TestDayBoundsDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	tests := []struct {
		name string
		date string
		span time.Duration
	}{
		{"fall back day has 25 hours", "2025-11-02", 25*time.Hour - time.Millisecond},
		{"spring forward day has 23 hours", "2025-03-09", 23*time.Hour - time.Millisecond},
		{"plain day has 24 hours", "2025-06-15", 24*time.Hour - time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := dayBoundsIn(tt.date, loc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := start.Format(DateLayout); got != tt.date {
				t.Errorf("start on %q, want %q", got, tt.date)
			}
			if got := end.Format(DateLayout); got != tt.date {
				t.Errorf("end on %q, want %q (must not spill into the next day)", got, tt.date)
			}
			if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
				t.Errorf("end not at last millisecond of the day: %v", end)
			}
			if got := end.Sub(start); got != tt.span {
				t.Errorf("day span = %v, want %v", got, tt.span)
			}
		})
	}
}

func TestDayBoundsInvalid(t *testing.T) {
	for _, date := range []string{"", "2026-3-15", "15-03-2026", "not-a-date", "2026-13-01"} {
		if _, _, err := DayBounds(date); err == nil {
			t.Errorf("DayBounds(%q) expected error", date)
		}
	}
}

func TestDayStrings(t *testing.T) {
	day := func(s string) time.Time {
		parsed, _ := time.ParseInLocation(DateLayout, s, time.Local)
		return parsed
	}

	tests := []struct {
		name  string
		from  time.Time
		until time.Time
		want  []string
	}{
		{
			name:  "same day",
			from:  day("2026-03-15"),
			until: day("2026-03-15"),
			want:  []string{"2026-03-15"},
		},
		{
			name:  "walks backward inclusive",
			from:  day("2026-03-15"),
			until: day("2026-03-13"),
			want:  []string{"2026-03-15", "2026-03-14", "2026-03-13"},
		},
		{
			name:  "crosses month boundary",
			from:  day("2026-03-01"),
			until: day("2026-02-27"),
			want:  []string{"2026-03-01", "2026-02-28", "2026-02-27"},
		},
		{
			name:  "until after from yields just from",
			from:  day("2026-03-15"),
			until: day("2026-03-20"),
			want:  []string{"2026-03-15"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DayStrings(tt.from, tt.until)
			if len(got) != len(tt.want) {
				t.Fatalf("DayStrings returned %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("day[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMergeDayItems(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 15, hour, 0, 0, 0, time.UTC)
	}

	tasks := []models.AwayItem{
		{Type: models.ItemTypeTask, CreatedAt: at(9)},
		{Type: models.ItemTypeTask, CreatedAt: at(7)},
	}
	resources := []models.AwayItem{
		{Type: models.ItemTypeResource, CreatedAt: at(10)},
	}
	thoughts := []models.AwayItem{
		{Type: models.ItemTypeThought, CreatedAt: at(8)},
	}

	merged := MergeDayItems(tasks, resources, thoughts)

	if len(merged) != 4 {
		t.Fatalf("expected 4 items, got %d", len(merged))
	}
	wantOrder := []models.ItemType{
		models.ItemTypeResource,
		models.ItemTypeTask,
		models.ItemTypeThought,
		models.ItemTypeTask,
	}
	for i, want := range wantOrder {
		if merged[i].Type != want {
			t.Errorf("merged[%d].Type = %s, want %s", i, merged[i].Type, want)
		}
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].CreatedAt.After(merged[i-1].CreatedAt) {
			t.Errorf("merged feed not sorted most-recent-first at index %d", i)
		}
	}
}

func TestMergeDayItemsEmpty(t *testing.T) {
	if got := MergeDayItems(nil, nil, nil); len(got) != 0 {
		t.Errorf("expected empty merge, got %d items", len(got))
	}
}

func TestTrimPage(t *testing.T) {
	makeItems := func(n int) []models.AwayItem {
		items := make([]models.AwayItem, n)
		for i := range items {
			id, _ := primitive.ObjectIDFromHex(fmt.Sprintf("65f0000000000000000000%02d", i))
			items[i] = models.AwayItem{Type: models.ItemTypeTask, Task: &models.Task{ID: id}}
		}
		return items
	}

	tests := []struct {
		name       string
		items      int
		limit      int
		wantLen    int
		wantCursor string
	}{
		{"empty", 0, 20, 0, ""},
		{"under limit", 3, 20, 3, ""},
		{"exactly limit", 20, 20, 20, ""},
		{"one over limit", 21, 20, 20, "65f000000000000000000020"},
		{"small page", 4, 3, 3, "65f000000000000000000003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, cursor := trimPage(makeItems(tt.items), tt.limit)
			if len(items) != tt.wantLen {
				t.Errorf("kept %d items, want %d", len(items), tt.wantLen)
			}
			if cursor != tt.wantCursor {
				t.Errorf("cursor = %q, want %q", cursor, tt.wantCursor)
			}
			// The cursor row itself is never in the returned page.
			for _, item := range items {
				if cursor != "" && item.Task.ID.Hex() == cursor {
					t.Errorf("cursor id %s returned in the page", cursor)
				}
			}
		})
	}
}
