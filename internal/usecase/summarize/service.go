// Package summarize orchestrates the summarization pipeline: extract,
// classify, select, infer, format. One Service instance handles many
// concurrent requests; all per-request state lives on the stack and is
// discarded with the response.
package summarize

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docsum/internal/domain/entity"
	"docsum/internal/formatter"
	"docsum/internal/handler/http/requestid"
	"docsum/internal/infra/inference"
	"docsum/internal/observability/logging"
	"docsum/internal/observability/metrics"
	"docsum/internal/observability/tracing"
	"docsum/internal/registry"
	"docsum/internal/utils/text"
)

// DefaultMaxLength is the summary token target used when the caller does
// not specify one.
const DefaultMaxLength = 500

// readingWordsPerMinute is the reading speed assumed when estimating how
// long a transcript takes to read.
const readingWordsPerMinute = 200

// TextExtractor turns raw text into a document.
type TextExtractor interface {
	Extract(ctx context.Context, raw string) (entity.Document, error)
}

// PDFExtractor turns PDF bytes into a document.
type PDFExtractor interface {
	Extract(ctx context.Context, data []byte) (entity.Document, error)
}

// YouTubeExtractor turns a video URL into a transcript document.
type YouTubeExtractor interface {
	Extract(ctx context.Context, url string) (entity.Document, error)
}

// Classifier tags a document with a content category.
type Classifier interface {
	Classify(doc entity.Document) entity.ClassificationResult
}

// Selector picks exactly one model for a request.
type Selector interface {
	Select(classification entity.ClassificationResult, requestedModel string, docTokens int) (entity.SelectionDecision, error)
}

// Engine runs chunked summarization against the selected model.
type Engine interface {
	Summarize(ctx context.Context, doc entity.Document, spec entity.ModelSpec, targetTokens int) (inference.Result, error)
}

// Request carries the caller's summarization options.
type Request struct {
	// MaxLength is the soft token ceiling for the summary. Zero means
	// DefaultMaxLength.
	MaxLength int

	// FormatWithTags enables the category-specific tag tree on the result.
	FormatWithTags bool

	// ModelType is "auto" or an explicit model id.
	ModelType string
}

// Service is the pipeline orchestrator.
type Service struct {
	text       TextExtractor
	pdf        PDFExtractor
	youtube    YouTubeExtractor
	classifier Classifier
	selector   Selector
	registry   *registry.Registry
	engine     Engine
}

// NewService wires the pipeline stages together.
func NewService(
	text TextExtractor,
	pdf PDFExtractor,
	youtube YouTubeExtractor,
	classifier Classifier,
	selector Selector,
	reg *registry.Registry,
	engine Engine,
) *Service {
	return &Service{
		text:       text,
		pdf:        pdf,
		youtube:    youtube,
		classifier: classifier,
		selector:   selector,
		registry:   reg,
		engine:     engine,
	}
}

// SummarizeText runs the pipeline over raw text input.
func (s *Service) SummarizeText(ctx context.Context, raw string, req Request) (*entity.SummaryResult, error) {
	return s.run(ctx, req, entity.SourcePlainText, func(ctx context.Context) (entity.Document, error) {
		return s.text.Extract(ctx, raw)
	})
}

// SummarizePDF runs the pipeline over uploaded PDF bytes.
func (s *Service) SummarizePDF(ctx context.Context, data []byte, req Request) (*entity.SummaryResult, error) {
	return s.run(ctx, req, entity.SourcePDF, func(ctx context.Context) (entity.Document, error) {
		return s.pdf.Extract(ctx, data)
	})
}

// SummarizeYouTube runs the pipeline over a video URL.
func (s *Service) SummarizeYouTube(ctx context.Context, url string, req Request) (*entity.SummaryResult, error) {
	return s.run(ctx, req, entity.SourceYouTube, func(ctx context.Context) (entity.Document, error) {
		return s.youtube.Extract(ctx, url)
	})
}

// run executes the five pipeline stages in order. Extraction failures stop
// the pipeline before any classifier or model work happens.
func (s *Service) run(ctx context.Context, req Request, source entity.SourceType, extract func(context.Context) (entity.Document, error)) (*entity.SummaryResult, error) {
	// The HTTP layer stamps a request id on the context; direct callers
	// without one get a fresh id so log lines still correlate.
	if requestid.FromContext(ctx) == "" {
		ctx = requestid.WithRequestID(ctx, uuid.New().String())
	}
	logger := logging.WithRequestID(ctx,
		slog.With(slog.String("source_type", string(source))))

	if req.MaxLength <= 0 {
		req.MaxLength = DefaultMaxLength
	}
	if req.ModelType == "" {
		req.ModelType = registry.ModeAuto
	}

	doc, err := s.stageExtract(ctx, source, extract)
	if err != nil {
		metrics.RecordExtractionError(string(source), string(entity.CodeOf(err)))
		metrics.RecordSummarizeRequest(string(source), "", "", false)
		return nil, err
	}

	classification := s.stageClassify(ctx, doc)
	logger.InfoContext(ctx, "document classified",
		slog.String("category", string(classification.Category)),
		slog.Float64("confidence", classification.Confidence))

	decision, docTokens, err := s.stageSelect(ctx, classification, req.ModelType, doc)
	if err != nil {
		metrics.RecordSummarizeRequest(string(source), string(classification.Category), "", false)
		return nil, err
	}
	logger.InfoContext(ctx, "model selected",
		slog.String("model", decision.ModelID),
		slog.String("reason", string(decision.Reason)),
		slog.Int("doc_tokens", docTokens))

	spec, ok := s.registry.Get(decision.ModelID)
	if !ok {
		// Selector output always comes from the registry; reaching this
		// means the two disagree.
		metrics.RecordSummarizeRequest(string(source), string(classification.Category), decision.ModelID, false)
		return nil, entity.WrapPipelineError(entity.ErrUnknownModel, nil)
	}

	result, err := s.stageInfer(ctx, doc, spec, req.MaxLength)
	if err != nil {
		metrics.RecordSummarizeRequest(string(source), string(classification.Category), spec.ID, false)
		return nil, err
	}

	tree := s.stageFormat(ctx, result.SummaryText, doc.Title, classification.Category, req.FormatWithTags)

	metrics.RecordSummarizeRequest(string(source), string(classification.Category), spec.ID, true)
	logger.InfoContext(ctx, "summarization completed",
		slog.String("model", spec.ID),
		slog.Int("chunks", result.ChunkCount),
		slog.Int("degraded_chunks", len(result.DegradedChunks)))

	var insights *entity.VideoInsights
	if doc.SourceType == entity.SourceYouTube {
		insights = videoInsights(doc)
	}

	return &entity.SummaryResult{
		SummaryText:    result.SummaryText,
		ModelUsed:      spec.ID,
		Category:       classification.Category,
		Formatted:      tree,
		DegradedChunks: result.DegradedChunks,
		InputTokens:    result.InputTokens,
		Insights:       insights,
	}, nil
}

// videoInsights derives consumption metadata from a transcript document:
// transcript word count, video duration, and the reading time the summary
// saves the caller. Reading time rounds up and never reports zero.
func videoInsights(doc entity.Document) *entity.VideoInsights {
	words := text.CountWords(doc.Text)
	minutes := (words + readingWordsPerMinute - 1) / readingWordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return &entity.VideoInsights{
		WordCount:               words,
		DurationSeconds:         doc.DurationSeconds,
		EstimatedReadingMinutes: minutes,
	}
}

func (s *Service) stageExtract(ctx context.Context, source entity.SourceType, extract func(context.Context) (entity.Document, error)) (entity.Document, error) {
	ctx, span := tracing.StartStage(ctx, "extract")
	defer span.End()
	start := time.Now()

	doc, err := extract(ctx)
	metrics.RecordStageDuration("extract", time.Since(start))
	if err != nil {
		return entity.Document{}, err
	}
	if doc.SourceType == "" {
		doc.SourceType = source
	}
	return doc, nil
}

func (s *Service) stageClassify(ctx context.Context, doc entity.Document) entity.ClassificationResult {
	_, span := tracing.StartStage(ctx, "classify")
	defer span.End()
	start := time.Now()

	classification := s.classifier.Classify(doc)
	metrics.RecordStageDuration("classify", time.Since(start))
	return classification
}

func (s *Service) stageSelect(ctx context.Context, classification entity.ClassificationResult, modelType string, doc entity.Document) (entity.SelectionDecision, int, error) {
	_, span := tracing.StartStage(ctx, "select")
	defer span.End()

	docTokens := estimateDocTokens(doc)
	decision, err := s.selector.Select(classification, modelType, docTokens)
	return decision, docTokens, err
}

func (s *Service) stageInfer(ctx context.Context, doc entity.Document, spec entity.ModelSpec, targetTokens int) (inference.Result, error) {
	ctx, span := tracing.StartStage(ctx, "infer")
	defer span.End()
	start := time.Now()

	result, err := s.engine.Summarize(ctx, doc, spec, targetTokens)
	metrics.RecordStageDuration("infer", time.Since(start))
	return result, err
}

func (s *Service) stageFormat(ctx context.Context, summaryText, title string, category entity.Category, withTags bool) *entity.TagTree {
	_, span := tracing.StartStage(ctx, "format")
	defer span.End()

	return formatter.Format(summaryText, title, category, withTags)
}

// estimateDocTokens estimates the document's token length for selection.
func estimateDocTokens(doc entity.Document) int {
	return text.EstimateTokens(doc.Text)
}
