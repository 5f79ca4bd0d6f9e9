package text

import (
	"strings"
	"unicode/utf8"
)

// EstimateTokens approximates the model token count of s without a
// model-specific vocabulary: one token per whitespace-delimited word plus
// one extra token per six runes a word carries beyond its first six.
// Subword tokenizers split long words, so plain word counts undercount;
// the correction keeps the estimate conservative enough that chunks built
// against it stay inside real model budgets.
func EstimateTokens(s string) int {
	tokens := 0
	for _, word := range strings.Fields(s) {
		tokens++
		if extra := utf8.RuneCountInString(word) - 6; extra > 0 {
			tokens += (extra + 5) / 6
		}
	}
	return tokens
}

// TruncateTokens cuts s down to approximately maxTokens estimated tokens,
// breaking on word boundaries. Returns s unchanged when it already fits.
func TruncateTokens(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if EstimateTokens(s) <= maxTokens {
		return s
	}

	words := strings.Fields(s)
	tokens := 0
	end := 0
	for i, word := range words {
		cost := 1
		if extra := utf8.RuneCountInString(word) - 6; extra > 0 {
			cost += (extra + 5) / 6
		}
		if tokens+cost > maxTokens {
			break
		}
		tokens += cost
		end = i + 1
	}
	return strings.Join(words[:end], " ")
}
