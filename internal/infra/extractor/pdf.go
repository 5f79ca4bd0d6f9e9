package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"docsum/internal/domain/entity"
	"docsum/internal/utils/text"
)

// PDF extracts the text layer of PDF documents, page by page in order.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Extract parses the PDF and concatenates the text of all pages. Page break
// positions are preserved as rune offsets in Document.PageBreaks, not as
// markers in the text body. Fails with an unreadable PDF error when no page
// yields extractable text (e.g. a scanned image-only PDF).
func (p *PDF) Extract(ctx context.Context, data []byte) (entity.Document, error) {
	if len(data) == 0 {
		return entity.Document{}, entity.ErrEmptyInput
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return entity.Document{}, entity.WrapPipelineError(entity.ErrUnreadablePDF,
			fmt.Errorf("parse pdf: %w", err))
	}

	var b strings.Builder
	var pageBreaks []int
	pagesWithText := 0

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return entity.Document{}, entity.WrapPipelineError(entity.ErrRequestTimeout, err)
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single damaged page does not fail the document; the
			// remaining pages may still carry the content.
			slog.Warn("skipping unreadable pdf page",
				slog.Int("page", pageNum),
				slog.Any("error", err))
			continue
		}

		cleaned := cleanPDFText(pageText)
		if cleaned == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		pageBreaks = append(pageBreaks, text.CountRunes(b.String()))
		b.WriteString(cleaned)
		pagesWithText++
	}

	if pagesWithText == 0 {
		return entity.Document{}, entity.WrapPipelineError(entity.ErrUnreadablePDF,
			fmt.Errorf("no extractable text layer in %d pages", reader.NumPage()))
	}

	body := b.String()
	doc := entity.Document{
		Text:       body,
		SourceType: entity.SourcePDF,
		Title:      pdfTitle(reader),
		CharLength: text.CountRunes(body),
		PageBreaks: pageBreaks,
	}

	slog.Info("extracted pdf document",
		slog.Int("pages", reader.NumPage()),
		slog.Int("pages_with_text", pagesWithText),
		slog.Int("chars", doc.CharLength))

	return doc, nil
}

// pdfTitle reads the Title entry of the document info dictionary, if any.
func pdfTitle(reader *pdf.Reader) (title string) {
	defer func() {
		// The pdf library panics on malformed trailer dictionaries; a
		// missing title is not worth failing extraction over.
		if recover() != nil {
			title = ""
		}
	}()
	v := reader.Trailer().Key("Info").Key("Title")
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// cleanPDFText normalizes the raw text layer of one page: collapses runs of
// whitespace and drops control characters the layout engine leaks through.
func cleanPDFText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return text.NormalizeWhitespace(b.String())
}
