package ingest

import (
	"strings"
	"unicode"
)

// Splitter splits page text into overlapping chunks of roughly chunkSize
// runes. Boundaries are chosen in priority order: paragraph, then sentence,
// then a raw rune window, so text is not cut mid-sentence when avoidable.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter with the given target size and overlap (in runes).
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// span is a piece of page text together with its rune offset within the page.
type span struct {
	text   string
	offset int
}

// Split splits text into overlapping spans. Offsets are rune offsets of each
// span's first segment within the original text. Empty input yields nil.
func (s *Splitter) Split(text string) []span {
	segs := s.segments(text)
	if len(segs) == 0 {
		return nil
	}

	var out []span
	var cur []span
	curLen := 0
	flush := func() {
		if len(cur) == 0 {
			return
		}
		texts := make([]string, len(cur))
		for i, sp := range cur {
			texts[i] = sp.text
		}
		out = append(out, span{text: strings.Join(texts, " "), offset: cur[0].offset})
	}

	for _, seg := range segs {
		segLen := len([]rune(seg.text))
		if curLen > 0 && curLen+segLen+1 > s.chunkSize {
			flush()
			// Seed the next chunk with trailing segments of the previous one
			// so consecutive chunks overlap by roughly s.overlap runes.
			tail := overlapTail(cur, s.overlap)
			cur = append([]span(nil), tail...)
			curLen = 0
			for _, sp := range cur {
				curLen += len([]rune(sp.text)) + 1
			}
		}
		cur = append(cur, seg)
		curLen += segLen + 1
	}
	flush()
	return out
}

// overlapTail returns the longest suffix of spans whose combined rune length
// does not exceed overlap.
func overlapTail(spans []span, overlap int) []span {
	if overlap <= 0 {
		return nil
	}
	total := 0
	i := len(spans)
	for i > 0 {
		segLen := len([]rune(spans[i-1].text))
		if total+segLen > overlap {
			break
		}
		total += segLen + 1
		i--
	}
	return spans[i:]
}

// segments breaks text into units no larger than chunkSize, preferring
// paragraph boundaries, then sentences, then raw rune windows.
func (s *Splitter) segments(text string) []span {
	var segs []span
	for _, para := range splitWithOffsets(text, "\n\n") {
		para.text = strings.TrimSpace(para.text)
		if para.text == "" {
			continue
		}
		if len([]rune(para.text)) <= s.chunkSize {
			segs = append(segs, para)
			continue
		}
		for _, sent := range splitSentences(para.text, para.offset) {
			if len([]rune(sent.text)) <= s.chunkSize {
				segs = append(segs, sent)
				continue
			}
			segs = append(segs, windowRunes(sent.text, sent.offset, s.chunkSize)...)
		}
	}
	return segs
}

// splitWithOffsets splits text on sep, tracking the rune offset of each part.
func splitWithOffsets(text, sep string) []span {
	var parts []span
	offset := 0
	for _, p := range strings.Split(text, sep) {
		parts = append(parts, span{text: p, offset: offset})
		offset += len([]rune(p)) + len([]rune(sep))
	}
	return parts
}

// splitSentences splits text at sentence-ending punctuation followed by
// whitespace. base is the rune offset of text within the page.
func splitSentences(text string, base int) []span {
	var sents []span
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sent := strings.TrimSpace(string(runes[start : i+1]))
			if sent != "" {
				sents = append(sents, span{text: sent, offset: base + start})
			}
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sents = append(sents, span{text: rest, offset: base + start})
	}
	return sents
}

// windowRunes cuts text into fixed-size rune windows, the last boundary resort
// for sentences longer than the chunk size.
func windowRunes(text string, base, size int) []span {
	runes := []rune(text)
	var out []span
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, span{text: string(runes[i:end]), offset: base + i})
	}
	return out
}
