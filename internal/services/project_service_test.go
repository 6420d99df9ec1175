package services

import (
	"testing"

	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func taskWithID(t *testing.T, hex string) models.Task {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("bad test id %q: %v", hex, err)
	}
	return models.Task{ID: oid}
}

const (
	idA = "65f000000000000000000001"
	idB = "65f000000000000000000002"
	idC = "65f000000000000000000003"
)

func TestSortTasksByOrder(t *testing.T) {
	a := taskWithID(t, idA)
	b := taskWithID(t, idB)
	c := taskWithID(t, idC)

	tests := []struct {
		name  string
		tasks []models.Task
		order []string
		want  []string
	}{
		{
			name:  "applies stored permutation",
			tasks: []models.Task{a, b, c},
			order: []string{idC, idA, idB},
			want:  []string{idC, idA, idB},
		},
		{
			name:  "already ordered",
			tasks: []models.Task{a, b, c},
			order: []string{idA, idB, idC},
			want:  []string{idA, idB, idC},
		},
		{
			name:  "missing id floats to the front",
			tasks: []models.Task{a, b, c},
			order: []string{idB, idA},
			want:  []string{idB, idC, idA},
		},
		{
			name:  "stale ids in order are harmless",
			tasks: []models.Task{a, b},
			order: []string{idC, idB, idA},
			want:  []string{idB, idA},
		},
		{
			name:  "empty order keeps fetch order",
			tasks: []models.Task{c, a, b},
			order: nil,
			want:  []string{idC, idA, idB},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := SortTasksByOrder(tt.tasks, tt.order)
			if len(sorted) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(sorted), len(tt.want))
			}
			for i, want := range tt.want {
				if got := sorted[i].ID.Hex(); got != want {
					t.Errorf("sorted[%d] = %s, want %s", i, got, want)
				}
			}
		})
	}
}

func TestSortResourcesByOrder(t *testing.T) {
	oidA, _ := primitive.ObjectIDFromHex(idA)
	oidB, _ := primitive.ObjectIDFromHex(idB)

	resources := []models.Resource{{ID: oidA}, {ID: oidB}}
	sorted := SortResourcesByOrder(resources, []string{idB, idA})

	if sorted[0].ID.Hex() != idB || sorted[1].ID.Hex() != idA {
		t.Errorf("resource order not applied: got [%s, %s]", sorted[0].ID.Hex(), sorted[1].ID.Hex())
	}
}

func TestOrderIndex(t *testing.T) {
	order := []string{idA, idB, idC}

	if got := models.OrderIndex(order, idB); got != 1 {
		t.Errorf("OrderIndex(idB) = %d, want 1", got)
	}
	// Unknown ids sort as index 0 so unsynced items surface first.
	if got := models.OrderIndex(order, "missing"); got != 0 {
		t.Errorf("OrderIndex(missing) = %d, want 0", got)
	}
	if got := models.OrderIndex(nil, idA); got != 0 {
		t.Errorf("OrderIndex on nil order = %d, want 0", got)
	}
}
