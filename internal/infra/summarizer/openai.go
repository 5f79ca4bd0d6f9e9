package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"docsum/internal/domain/entity"
	"docsum/internal/resilience/circuitbreaker"
	"docsum/internal/resilience/retry"
	"docsum/internal/utils/text"
)

// OpenAICompat implements the Summarizer interface against an
// OpenAI-compatible inference gateway (e.g. a TGI or vLLM deployment
// exposing chat completions for the registered summarization models).
// One instance serves exactly one model; the registry decides which
// instance a request reaches.
type OpenAICompat struct {
	client          *openai.Client
	spec            entity.ModelSpec
	timeout         time.Duration
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder InferenceMetricsRecorder
}

// NewOpenAICompat creates a gateway backend for the given model spec.
// Each backend owns its own circuit breaker so a failing deployment of one
// model does not reject calls routed to the others.
func NewOpenAICompat(cfg GatewayConfig, spec entity.ModelSpec) *OpenAICompat {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	slog.Info("initialized inference gateway backend",
		slog.String("model", spec.ID),
		slog.String("base_url", cfg.BaseURL),
		slog.Int("max_input_tokens", spec.MaxInputTokens))

	return &OpenAICompat{
		client:          openai.NewClientWithConfig(clientConfig),
		spec:            spec,
		timeout:         cfg.Timeout,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.InferenceBackendConfig(spec.ID)),
		retryConfig:     retry.InferenceAPIConfig(),
		metricsRecorder: NewPrometheusInferenceMetrics(),
	}
}

// Summarize generates a summary of text bounded by targetTokens. It wraps
// the gateway call with retry and circuit breaker logic; a request that
// still fails after retries is permanent from the caller's point of view.
func (o *OpenAICompat) Summarize(ctx context.Context, input string, targetTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSummarize(ctx, input, targetTokens)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("inference circuit breaker open, request rejected",
					slog.String("model", o.spec.ID),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("model %s unavailable: circuit breaker open", o.spec.ID)
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		o.metricsRecorder.RecordFailure(o.spec.ID)
		return "", fmt.Errorf("model %s summarize failed after retries: %w", o.spec.ID, retryErr)
	}

	return result, nil
}

// doSummarize performs one gateway call without retry or circuit breaker.
func (o *OpenAICompat) doSummarize(ctx context.Context, input string, targetTokens int) (string, error) {
	// Guard against callers handing over more than the model accepts. The
	// chunking engine stays inside the budget, so this only fires for
	// direct single-pass calls on borderline estimates.
	truncated := input
	if inputTokens := text.EstimateTokens(input); inputTokens > o.spec.MaxInputTokens {
		truncated = text.TruncateTokens(input, o.spec.MaxInputTokens)
		o.metricsRecorder.RecordInputTruncated(o.spec.ID)
		slog.Warn("input truncated to model budget",
			slog.String("model", o.spec.ID),
			slog.Int("input_tokens", inputTokens),
			slog.Int("budget", o.spec.MaxInputTokens))
	}

	slog.InfoContext(ctx, "starting inference call",
		slog.String("model", o.spec.ID),
		slog.Int("target_tokens", targetTokens))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.spec.ID,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: buildPrompt(truncated, targetTokens),
		}},
		MaxTokens: targetTokens,
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "inference call failed",
			slog.String("model", o.spec.ID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", classifyAPIError(err)
	}

	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "inference gateway returned empty response",
			slog.String("model", o.spec.ID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("model %s returned empty response", o.spec.ID)
	}

	summary := resp.Choices[0].Message.Content
	outputTokens := text.EstimateTokens(summary)

	slog.InfoContext(ctx, "inference call completed",
		slog.String("model", o.spec.ID),
		slog.Int("output_tokens", outputTokens),
		slog.Duration("duration", duration))

	o.metricsRecorder.RecordDuration(o.spec.ID, duration)
	o.metricsRecorder.RecordOutputTokens(o.spec.ID, outputTokens)

	return summary, nil
}

// classifyAPIError converts gateway API errors into retry.HTTPError so the
// retry layer can distinguish transient statuses (5xx, 429) from permanent
// ones (4xx).
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &retry.HTTPError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}
	return fmt.Errorf("inference gateway error: %w", err)
}
