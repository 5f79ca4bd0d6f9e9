// Package entity defines the core domain types for the summarization pipeline:
// documents, classification results, model specifications, selection decisions,
// chunks, and summary results. All types are request-scoped and immutable after
// creation unless noted otherwise.
package entity

// SourceType identifies the origin of a document's text.
type SourceType string

const (
	// SourcePlainText is raw text submitted directly by the caller.
	SourcePlainText SourceType = "PLAIN_TEXT"
	// SourcePDF is text extracted from an uploaded PDF file.
	SourcePDF SourceType = "PDF"
	// SourceYouTube is a transcript resolved from a YouTube video.
	SourceYouTube SourceType = "YOUTUBE"
)

// Document is the normalized output of the extraction stage.
// It is created once by an extractor and never mutated afterwards.
type Document struct {
	// Text is the normalized plain-text body of the document.
	Text string

	// SourceType records which extractor produced this document.
	SourceType SourceType

	// Title is the document title when one could be resolved
	// (PDF metadata, YouTube video title). Empty otherwise.
	Title string

	// CharLength is the rune count of Text, computed at creation.
	CharLength int

	// PageBreaks holds the rune offsets in Text where PDF page boundaries
	// fell. Empty for non-PDF sources. Page markers are kept here as
	// metadata rather than inline in the text body.
	PageBreaks []int

	// DurationSeconds is the video length for YouTube sources. Zero for
	// other sources.
	DurationSeconds int
}
