package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"docsum/internal/domain/entity"
	"docsum/internal/infra/summarizer"
	"docsum/internal/observability/metrics"
	"docsum/internal/registry"
	"docsum/internal/resilience/retry"
	"docsum/internal/utils/text"
)

const (
	// DefaultMaxChunks bounds how many chunks one document may produce.
	DefaultMaxChunks = 12

	// DefaultChunkParallelism bounds how many chunk summarization calls of
	// one request run concurrently. Protects shared inference capacity
	// from unbounded fan-out.
	DefaultChunkParallelism = 4

	// OvershootTolerance is the number of estimated tokens a summary may
	// exceed the target by before the engine truncates with an ellipsis.
	OvershootTolerance = 12

	// degradedExcerptTokens is the length of the verbatim excerpt used in
	// place of a chunk summary when inference for that chunk permanently
	// fails.
	degradedExcerptTokens = 80
)

// Backends resolves a model id to its Summarizer implementation. Built once
// at startup from the registry table.
type Backends interface {
	Backend(modelID string) (summarizer.Summarizer, bool)
}

// Engine is the chunking inference engine. It is stateless per request and
// safe for concurrent use.
type Engine struct {
	backends    Backends
	registry    *registry.Registry
	maxChunks   int
	parallelism int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxChunks overrides the chunk count ceiling.
func WithMaxChunks(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxChunks = n
		}
	}
}

// WithParallelism overrides the concurrent chunk call bound.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// NewEngine creates a chunking inference engine over the given backends
// and registry.
func NewEngine(backends Backends, reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		backends:    backends,
		registry:    reg,
		maxChunks:   DefaultMaxChunks,
		parallelism: DefaultChunkParallelism,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one chunked summarization run.
type Result struct {
	// SummaryText is the merged, length-bounded summary.
	SummaryText string

	// DegradedChunks lists the indexes of chunks whose summary fell back
	// to a verbatim excerpt after retry exhaustion. Empty on a clean run.
	DegradedChunks []int

	// ChunkCount is the number of chunks the document was split into.
	ChunkCount int

	// InputTokens is the estimated token length of the whole document.
	InputTokens int
}

// Summarize splits the document to fit spec's token budget, summarizes each
// chunk independently with bounded parallelism, and merges the chunk
// summaries into one summary of at most targetTokens (plus the documented
// overshoot tolerance).
//
// Chunk failures degrade to verbatim excerpts rather than failing the run;
// only when every chunk fails does Summarize return ErrSummarizationFailed.
// Context cancellation aborts outstanding chunk calls and returns
// ErrRequestTimeout when the deadline caused it.
func (e *Engine) Summarize(ctx context.Context, doc entity.Document, spec entity.ModelSpec, targetTokens int) (Result, error) {
	backend, ok := e.backends.Backend(spec.ID)
	if !ok {
		return Result{}, entity.WrapPipelineError(entity.ErrUnknownModel,
			fmt.Errorf("no backend registered for model %q", spec.ID))
	}

	inputTokens := text.EstimateTokens(doc.Text)
	metrics.RecordInputTokens(inputTokens)

	chunks, err := SplitChunks(doc.Text, spec.MaxInputTokens)
	if err != nil {
		return Result{}, entity.WrapPipelineError(entity.ErrSummarizationFailed, err)
	}
	if len(chunks) == 0 {
		return Result{}, entity.ErrEmptyInput
	}
	if len(chunks) > e.maxChunks {
		return Result{}, entity.WrapPipelineError(entity.ErrSummarizationFailed,
			fmt.Errorf("document needs %d chunks of model %s, limit is %d",
				len(chunks), spec.ID, e.maxChunks))
	}

	slog.InfoContext(ctx, "starting chunked summarization",
		slog.String("model", spec.ID),
		slog.Int("chunks", len(chunks)),
		slog.Int("input_tokens", inputTokens),
		slog.Int("target_tokens", targetTokens))

	// Single chunk: the model output is the result; a second pass would
	// only re-summarize it and lose information.
	if len(chunks) == 1 {
		summary, err := backend.Summarize(ctx, chunks[0].Text, targetTokens)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, timeoutError(ctxErr)
			}
			return Result{}, entity.WrapPipelineError(entity.ErrSummarizationFailed, err)
		}
		return Result{
			SummaryText: enforceLength(summary, targetTokens),
			ChunkCount:  1,
			InputTokens: inputTokens,
		}, nil
	}

	summaries, degraded, err := e.summarizeChunks(ctx, backend, spec, chunks, targetTokens)
	if err != nil {
		return Result{}, err
	}
	metrics.RecordChunks(len(chunks), len(degraded))

	merged, err := e.merge(ctx, summaries, targetTokens)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, timeoutError(ctxErr)
		}
		return Result{}, entity.WrapPipelineError(entity.ErrSummarizationFailed, err)
	}

	return Result{
		SummaryText:    merged,
		DegradedChunks: degraded,
		ChunkCount:     len(chunks),
		InputTokens:    inputTokens,
	}, nil
}

// summarizeChunks fans the chunks out to the backend with bounded
// parallelism and joins on all results. Chunk order is preserved: result i
// always corresponds to chunk i regardless of completion order.
func (e *Engine) summarizeChunks(ctx context.Context, backend summarizer.Summarizer, spec entity.ModelSpec, chunks []entity.Chunk, targetTokens int) ([]string, []int, error) {
	// Per-chunk target: the merge pass compresses to the final length, so
	// chunk summaries aim for an even share with headroom for the merge
	// input budget.
	perChunkTarget := targetTokens / len(chunks)
	if perChunkTarget < 50 {
		perChunkTarget = 50
	}

	summaries := make([]string, len(chunks))
	degradedFlags := make([]bool, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, e.parallelism)

	for _, chunk := range chunks {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			summary, err := backend.Summarize(gctx, chunk.Text, perChunkTarget)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// Retries are exhausted inside the backend; degrade
				// this chunk to a verbatim excerpt instead of failing
				// the request.
				slog.WarnContext(gctx, "chunk degraded to excerpt",
					slog.Int("chunk", chunk.Index),
					slog.String("model", spec.ID),
					slog.Any("error", err))
				summaries[chunk.Index] = degradedExcerpt(chunk.Text)
				degradedFlags[chunk.Index] = true
				return nil
			}
			summaries[chunk.Index] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, timeoutError(err)
	}

	var degraded []int
	for i, d := range degradedFlags {
		if d {
			degraded = append(degraded, i)
		}
	}
	sort.Ints(degraded)

	if len(degraded) == len(chunks) {
		return nil, nil, entity.WrapPipelineError(entity.ErrSummarizationFailed,
			fmt.Errorf("all %d chunks failed for model %s", len(chunks), spec.ID))
	}
	return summaries, degraded, nil
}

// merge concatenates chunk summaries in document order and compresses them
// to targetTokens with a final pass through the fastest model whose budget
// holds the concatenation. The merge input is truncated to that budget when
// even the long-context model cannot hold it.
func (e *Engine) merge(ctx context.Context, summaries []string, targetTokens int) (string, error) {
	joined := strings.Join(summaries, "\n\n")
	joinedTokens := text.EstimateTokens(joined)

	mergeSpec := e.registry.FastestFitting(joinedTokens)
	if joinedTokens > mergeSpec.MaxInputTokens {
		joined = text.TruncateTokens(joined, mergeSpec.MaxInputTokens)
	}

	backend, ok := e.backends.Backend(mergeSpec.ID)
	if !ok {
		// Registry and backend table drifted; fall back to truncation so
		// the caller still gets a bounded summary.
		slog.ErrorContext(ctx, "no backend for merge model, truncating instead",
			slog.String("model", mergeSpec.ID))
		return enforceLength(joined, targetTokens), nil
	}

	start := time.Now()
	merged, err := backend.Summarize(ctx, joined, targetTokens)
	if err != nil {
		if retry.IsRetryable(err) || ctx.Err() != nil {
			return "", err
		}
		// Permanent merge failure: the ordered concatenation is still a
		// faithful, if uncompressed, summary.
		slog.WarnContext(ctx, "merge pass failed, falling back to concatenation",
			slog.String("model", mergeSpec.ID),
			slog.Any("error", err))
		return enforceLength(joined, targetTokens), nil
	}
	metrics.RecordStageDuration("merge", time.Since(start))

	return enforceLength(merged, targetTokens), nil
}

// enforceLength truncates s with an ellipsis when it exceeds targetTokens
// by more than the documented overshoot tolerance. targetTokens is a soft
// ceiling for the models but a hard contract for callers.
func enforceLength(s string, targetTokens int) string {
	if text.EstimateTokens(s) <= targetTokens+OvershootTolerance {
		return s
	}
	return text.TruncateTokens(s, targetTokens) + "..."
}

// degradedExcerpt returns the leading excerpt of a chunk used when its
// summarization permanently fails.
func degradedExcerpt(chunkText string) string {
	if text.EstimateTokens(chunkText) <= degradedExcerptTokens {
		return chunkText
	}
	return text.TruncateTokens(chunkText, degradedExcerptTokens) + "..."
}

// timeoutError maps context errors onto the pipeline timeout error; other
// errors pass through wrapped as summarization failures.
func timeoutError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return entity.WrapPipelineError(entity.ErrRequestTimeout, err)
	}
	return entity.WrapPipelineError(entity.ErrSummarizationFailed, err)
}
