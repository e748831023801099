package ingest

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	s := NewSplitter(1000, 100)
	spans := s.Split("A short paragraph that fits in one chunk.")
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].offset != 0 {
		t.Errorf("offset=%d", spans[0].offset)
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(1000, 100)
	if spans := s.Split(""); spans != nil {
		t.Errorf("expected nil for empty input, got %v", spans)
	}
	if spans := s.Split("   \n\n  \n\n"); spans != nil {
		t.Errorf("expected nil for whitespace-only input, got %v", spans)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	// 40 sentences of ~30 runes against a 200-rune target.
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The quick brown fox jumps high. ")
	}
	s := NewSplitter(200, 40)
	spans := s.Split(b.String())
	if len(spans) < 5 {
		t.Fatalf("expected several chunks, got %d", len(spans))
	}
	for i, sp := range spans {
		if n := len([]rune(sp.text)); n > 200 {
			t.Errorf("chunk %d has %d runes, exceeds target", i, n)
		}
	}
}

func TestSplitOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The quick brown fox jumps high. ")
	}
	s := NewSplitter(200, 60)
	spans := s.Split(b.String())
	if len(spans) < 2 {
		t.Fatalf("need at least 2 chunks, got %d", len(spans))
	}
	// Each chunk after the first starts with the tail of its predecessor.
	for i := 1; i < len(spans); i++ {
		if !strings.HasSuffix(spans[i-1].text, firstSentence(spans[i].text)) {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func firstSentence(text string) string {
	if idx := strings.Index(text, ". "); idx >= 0 {
		return text[:idx+1]
	}
	return text
}

func TestSplitParagraphBoundaries(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here."
	s := NewSplitter(1000, 100)
	spans := s.Split(text)
	if len(spans) != 1 {
		t.Fatalf("small paragraphs should pack into one chunk, got %d", len(spans))
	}
	if strings.Contains(spans[0].text, "\n\n") {
		t.Error("paragraph separator should not survive into chunk text")
	}
}

func TestSplitLongSentenceWindowed(t *testing.T) {
	// A single 500-rune "sentence" with no boundaries must still be cut.
	long := strings.Repeat("x", 500)
	s := NewSplitter(100, 10)
	spans := s.Split(long)
	if len(spans) < 5 {
		t.Fatalf("expected rune windows, got %d spans", len(spans))
	}
	for i, sp := range spans {
		if len([]rune(sp.text)) > 100 {
			t.Errorf("window %d too large", i)
		}
	}
}

func TestSplitOffsetsIncrease(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("Sentence number fits right here. ")
	}
	s := NewSplitter(150, 30)
	spans := s.Split(b.String())
	for i := 1; i < len(spans); i++ {
		if spans[i].offset <= spans[i-1].offset {
			t.Errorf("offsets not increasing at %d: %d then %d", i, spans[i-1].offset, spans[i].offset)
		}
	}
}

func TestNewSplitterSanitizesArgs(t *testing.T) {
	s := NewSplitter(0, -1)
	if s.chunkSize != 1000 {
		t.Errorf("chunkSize=%d", s.chunkSize)
	}
	if s.overlap != 100 {
		t.Errorf("overlap=%d", s.overlap)
	}
	s = NewSplitter(50, 50)
	if s.overlap != 5 {
		t.Errorf("overlap with overlap>=size should reset, got %d", s.overlap)
	}
}
