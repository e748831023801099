package keyword

import (
	"context"
	"testing"

	"github.com/umbrellahq/onboard/internal/models"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })

	chunks := []models.Chunk{
		{ID: "vac", Text: "Employees accrue twenty vacation days per calendar year."},
		{ID: "rem", Text: "Remote work is allowed up to three days per week."},
		{ID: "sec", Text: "Security badges must be visible at all times in the office."},
	}
	if err := idx.IndexChunks(context.Background(), chunks); err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestSearchMatchesTerm(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search(context.Background(), "vacation days", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("no hits")
	}
	if results[0].ID != "vac" {
		t.Errorf("top hit %s, want vac", results[0].ID)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search(context.Background(), "SECURITY BADGES", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].ID != "sec" {
		t.Errorf("expected sec as top hit, got %v", results)
	}
}

func TestSearchLimit(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search(context.Background(), "days", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 1 {
		t.Errorf("limit ignored: %d hits", len(results))
	}
}

func TestSearchNoMatch(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search(context.Background(), "zebra", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("unexpected hits: %v", results)
	}
}
