package services

import (
	"testing"
	"time"

	"cultivate/internal/models"
)

func TestScoreField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		query string
		want  int
	}{
		{"single occurrence", "A cat", "cat", 10},
		{"occurrences plus prefix bonus", "Cats cats run", "cat", 25},
		{"case insensitive", "CAT", "cat", 15},
		{"no match", "dog park", "cat", 0},
		{"empty query", "anything", "", 0},
		{"empty field", "", "cat", 0},
		{"query longer than field", "ca", "cat", 0},
		{"overlap counted per occurrence", "cat cat cat", "cat", 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreField(tt.field, tt.query); got != tt.want {
				t.Errorf("ScoreField(%q, %q) = %d, want %d", tt.field, tt.query, got, tt.want)
			}
		})
	}
}

func TestSortResults(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	results := []models.SearchResult{
		{Type: models.ItemTypeTask, Score: 10, CreatedAt: base},
		{Type: models.ItemTypeThought, Score: 25, CreatedAt: base.Add(-time.Hour)},
		{Type: models.ItemTypeResource, Score: 10, CreatedAt: base.Add(time.Hour)},
	}

	sorted := SortResults(results)

	if sorted[0].Score != 25 {
		t.Errorf("expected highest score first, got %d", sorted[0].Score)
	}
	// Tied scores break by recency.
	if sorted[1].Type != models.ItemTypeResource {
		t.Errorf("expected newer tied result second, got %s", sorted[1].Type)
	}
	if sorted[2].Type != models.ItemTypeTask {
		t.Errorf("expected older tied result last, got %s", sorted[2].Type)
	}
}

func TestSortResultsEmpty(t *testing.T) {
	if got := SortResults(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d items", len(got))
	}
}
