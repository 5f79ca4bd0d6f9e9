// Package summarizer provides the model inference backends behind the
// registry's summarization models. Each backend wraps one deployed model
// with circuit breaker and retry logic, and records per-model metrics.
// Backends are selected through the registry table, never by runtime type
// inspection.
package summarizer

import (
	"context"
	"fmt"
)

// Summarizer is the capability interface every model backend implements.
type Summarizer interface {
	// Summarize generates a summary of text bounded by targetTokens.
	// targetTokens is a soft ceiling passed to the model as a length
	// control; callers that need a hard bound must truncate the result
	// themselves.
	Summarize(ctx context.Context, text string, targetTokens int) (string, error)
}

// buildPrompt constructs the summarization instruction shared by the API
// backends. Word count is stated alongside the token budget because chat
// models follow word guidance more reliably than raw token counts.
func buildPrompt(text string, targetTokens int) string {
	words := targetTokens * 3 / 4
	if words < 20 {
		words = 20
	}
	return fmt.Sprintf(
		"Summarize the following text in at most %d words. "+
			"Preserve the key facts and the original order of ideas. "+
			"Reply with the summary only.\n\n%s",
		words, text)
}
