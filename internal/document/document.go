// Package document is the boundary to the remote document that holds the
// memories.
//
// The tool and prompt handlers depend on the Appender and Reader
// interfaces, never on the Google client, so tests can substitute an
// in-memory fake.
package document

import (
	"context"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// Appender appends text at the end of the document.
type Appender interface {
	AppendText(ctx context.Context, text string) error
}

// Reader returns the plain text of the whole document.
type Reader interface {
	ReadText(ctx context.Context) (string, error)
}

// Service is both capabilities; GoogleDocs implements it.
type Service interface {
	Appender
	Reader
}

// ExtractText flattens a document body into its non-blank paragraph text
// runs, one per line.
func ExtractText(doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}

	var lines []string
	for _, el := range doc.Body.Content {
		if el == nil || el.Paragraph == nil {
			continue
		}
		for _, pe := range el.Paragraph.Elements {
			if pe == nil || pe.TextRun == nil {
				continue
			}
			text := strings.TrimSpace(pe.TextRun.Content)
			if text != "" {
				lines = append(lines, text)
			}
		}
	}
	return strings.Join(lines, "\n")
}
