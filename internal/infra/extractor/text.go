// Package extractor converts raw inputs (plain text, PDF bytes, YouTube
// URLs) into normalized plain-text documents with metadata. Extraction
// failures are terminal for the request: an unreadable PDF or a video
// without captions is reported to the caller, never retried.
package extractor

import (
	"context"
	"strings"

	"docsum/internal/domain/entity"
	"docsum/internal/utils/text"
)

// Text is the pass-through extractor for plain text input.
type Text struct{}

// NewText creates a plain text extractor.
func NewText() *Text {
	return &Text{}
}

// Extract wraps raw text into a document. Fails with an empty input error
// when the text is blank after trimming.
func (t *Text) Extract(_ context.Context, raw string) (entity.Document, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return entity.Document{}, entity.ErrEmptyInput
	}
	return entity.Document{
		Text:       trimmed,
		SourceType: entity.SourcePlainText,
		CharLength: text.CountRunes(trimmed),
	}, nil
}
