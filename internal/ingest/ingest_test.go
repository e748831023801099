package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestPlainText(t *testing.T) {
	path := writeDoc(t, "policies.txt",
		"Vacation policy. Employees accrue twenty days per year.\fRemote work policy. Up to three days per week.\fSecurity policy. Badges must be worn at all times.")

	ing := NewIngestor(1000, 100)
	chunks, err := ing.Ingest(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected at least one chunk per page, got %d", len(chunks))
	}

	// Page numbers are 1-based and follow form-feed breaks.
	pages := map[int]bool{}
	for _, c := range chunks {
		if c.ID == "" {
			t.Error("chunk without ID")
		}
		if c.Metadata.Page < 1 || c.Metadata.Page > 3 {
			t.Errorf("page out of range: %d", c.Metadata.Page)
		}
		pages[c.Metadata.Page] = true
	}
	for p := 1; p <= 3; p++ {
		if !pages[p] {
			t.Errorf("no chunk for page %d", p)
		}
	}

	var found bool
	for _, c := range chunks {
		if strings.Contains(c.Text, "twenty days") {
			found = true
		}
	}
	if !found {
		t.Error("vacation chunk text missing")
	}
}

func TestIngestUniqueIDs(t *testing.T) {
	path := writeDoc(t, "doc.txt", "One sentence.\fAnother sentence.\fA third sentence.")
	ing := NewIngestor(1000, 100)
	chunks, err := ing.Ingest(path)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, c := range chunks {
		if seen[c.ID] {
			t.Fatalf("duplicate chunk ID %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestIngestMissingFile(t *testing.T) {
	ing := NewIngestor(1000, 100)
	if _, err := ing.Ingest(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestIngestEmptyDocument(t *testing.T) {
	path := writeDoc(t, "empty.txt", "   \n  \n")
	ing := NewIngestor(1000, 100)
	_, err := ing.Ingest(path)
	if err == nil {
		t.Fatal("expected error for document with no text")
	}
	if !strings.Contains(err.Error(), "no extractable text") {
		t.Errorf("unexpected error: %v", err)
	}
}
