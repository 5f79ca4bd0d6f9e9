package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"docsum/internal/domain/entity"
	"docsum/internal/resilience/circuitbreaker"
	"docsum/internal/resilience/retry"
	"docsum/internal/utils/text"
	"docsum/pkg/config"
)

// Claude implements the Summarizer interface using Anthropic's Claude API.
// Registered for model specs with provider "anthropic", typically in the
// long-context role where a hosted model's large window replaces chunking.
type Claude struct {
	client          anthropic.Client
	spec            entity.ModelSpec
	apiModel        anthropic.Model
	timeout         time.Duration
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder InferenceMetricsRecorder
}

// NewClaude creates a Claude backend for the given model spec.
//
// Environment variables:
//   - ANTHROPIC_MODEL: API model identifier (default: claude-sonnet-4-5)
func NewClaude(apiKey string, spec entity.ModelSpec, timeout time.Duration) *Claude {
	apiModel := anthropic.Model(config.GetEnvString("ANTHROPIC_MODEL",
		string(anthropic.ModelClaudeSonnet4_5_20250929)))

	slog.Info("initialized claude backend",
		slog.String("model", spec.ID),
		slog.String("api_model", string(apiModel)),
		slog.Int("max_input_tokens", spec.MaxInputTokens))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		spec:            spec,
		apiModel:        apiModel,
		timeout:         timeout,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.InferenceBackendConfig(spec.ID)),
		retryConfig:     retry.InferenceAPIConfig(),
		metricsRecorder: NewPrometheusInferenceMetrics(),
	}
}

// Summarize generates a summary of text bounded by targetTokens, with
// retry and circuit breaker protection.
func (c *Claude) Summarize(ctx context.Context, input string, targetTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doSummarize(ctx, input, targetTokens)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude circuit breaker open, request rejected",
					slog.String("model", c.spec.ID),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("model %s unavailable: circuit breaker open", c.spec.ID)
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		c.metricsRecorder.RecordFailure(c.spec.ID)
		return "", fmt.Errorf("model %s summarize failed after retries: %w", c.spec.ID, retryErr)
	}

	return result, nil
}

func (c *Claude) doSummarize(ctx context.Context, input string, targetTokens int) (string, error) {
	truncated := input
	if inputTokens := text.EstimateTokens(input); inputTokens > c.spec.MaxInputTokens {
		truncated = text.TruncateTokens(input, c.spec.MaxInputTokens)
		c.metricsRecorder.RecordInputTruncated(c.spec.ID)
		slog.Warn("input truncated to model budget",
			slog.String("model", c.spec.ID),
			slog.Int("input_tokens", inputTokens),
			slog.Int("budget", c.spec.MaxInputTokens))
	}

	slog.InfoContext(ctx, "starting inference call",
		slog.String("model", c.spec.ID),
		slog.Int("target_tokens", targetTokens))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.apiModel,
		MaxTokens: int64(targetTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(buildPrompt(truncated, targetTokens)),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "inference call failed",
			slog.String("model", c.spec.ID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "claude api returned empty response",
			slog.String("model", c.spec.ID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	summary := textBlock.Text
	outputTokens := text.EstimateTokens(summary)

	slog.InfoContext(ctx, "inference call completed",
		slog.String("model", c.spec.ID),
		slog.Int("output_tokens", outputTokens),
		slog.Duration("duration", duration))

	c.metricsRecorder.RecordDuration(c.spec.ID, duration)
	c.metricsRecorder.RecordOutputTokens(c.spec.ID, outputTokens)

	return summary, nil
}
