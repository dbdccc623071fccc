// Package document models the boundary to the text-extraction collaborator
// that renders uploaded documents into plain text, one page at a time.
package document

import (
	"fmt"
	"io"
	"strings"
)

// Source yields the plain text of a document's pages in page order.
type Source interface {
	Pages() ([]string, error)
}

// TextSource reads a pre-rendered plain-text stream in which pages are
// separated by form-feed characters, the convention used by text-extraction
// front ends.
type TextSource struct {
	r io.Reader
}

func NewTextSource(r io.Reader) *TextSource {
	return &TextSource{r: r}
}

func (s *TextSource) Pages() ([]string, error) {
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	pages := strings.Split(string(data), "\f")
	// A trailing form feed after the last page is common; don't count the
	// empty remainder as a page.
	if n := len(pages); n > 0 && pages[n-1] == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}
