package summarizer

import (
	"context"
	"strings"

	"docsum/internal/utils/text"
)

// NoOp is a summarizer that returns the leading sentences of the input,
// bounded by the target token count. Useful for tests and for running the
// full pipeline without an inference backend.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns whole leading sentences of input that fit within
// targetTokens, falling back to a word-boundary truncation when even the
// first sentence is too long.
func (n *NoOp) Summarize(_ context.Context, input string, targetTokens int) (string, error) {
	if text.EstimateTokens(input) <= targetTokens {
		return input, nil
	}

	var b strings.Builder
	used := 0
	for _, sentence := range text.SplitSentences(input) {
		cost := text.EstimateTokens(sentence)
		if used+cost > targetTokens {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
		used += cost
	}
	if b.Len() == 0 {
		return text.TruncateTokens(input, targetTokens), nil
	}
	return b.String(), nil
}
