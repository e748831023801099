// Package ingest turns a policy document into overlapping text chunks ready
// for embedding. Extraction is page aware so chunks keep their source page.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts page-level plain text from policy document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPages reads the file at path and returns its text content, one entry
// per page. PDF pages map to real pages; other formats (DOCX, XLSX sheets,
// plain text) are returned as a single synthetic page each.
// Returns an error if the file cannot be read or parsed.
func (e *Extractor) ExtractPages(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDFPages(content)
	case ".docx":
		text, err := extractDOCX(content)
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	case ".xlsx":
		return extractExcelSheets(content)
	default:
		// Plain text formats (.txt, .md) and anything unknown. Form feeds
		// mark page breaks, so paginated text exports keep their pages.
		text, err := extractPlain(content)
		if err != nil {
			return nil, err
		}
		return strings.Split(text, "\f"), nil
	}
}
