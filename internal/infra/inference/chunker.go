// Package inference runs token-bounded chunked summarization: it splits a
// document into chunks that respect the selected model's input budget, fans
// the chunks out to the model with bounded parallelism, and merges the chunk
// summaries into one length-bounded result.
package inference

import (
	"fmt"
	"strings"

	"docsum/internal/domain/entity"
	"docsum/internal/utils/text"
)

// boundarySlackFraction is the fraction of a model's token budget within
// which the chunker prefers a sentence or paragraph boundary over filling
// the budget exactly. A chunk is closed early when it is at least
// (1 - slack) full and the next unit would overflow it.
const boundarySlackFraction = 0.15

// SplitChunks splits doc text into contiguous, order-preserving chunks of
// at most budget estimated tokens each. Paragraph boundaries are preferred,
// then sentence boundaries; a sentence is split mid-word only when it alone
// exceeds the budget. The concatenation of all chunk texts covers the whole
// document in original order.
func SplitChunks(docText string, budget int) ([]entity.Chunk, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("chunk budget must be positive, got %d", budget)
	}

	var units []string
	for _, paragraph := range text.SplitParagraphs(docText) {
		if text.EstimateTokens(paragraph) <= budget {
			units = append(units, paragraph)
			continue
		}
		// Oversized paragraph: fall back to its sentences.
		for _, sentence := range text.SplitSentences(paragraph) {
			if text.EstimateTokens(sentence) <= budget {
				units = append(units, sentence)
				continue
			}
			// A single sentence beyond the budget is hard-split on
			// word boundaries; mid-sentence splits are the last resort.
			units = append(units, hardSplit(sentence, budget)...)
		}
	}

	var chunks []entity.Chunk
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunkText := joinUnits(current)
		chunks = append(chunks, entity.Chunk{
			Index:      len(chunks),
			Text:       chunkText,
			TokenCount: text.EstimateTokens(chunkText),
		})
		current = current[:0]
		currentTokens = 0
	}

	// Below this fill level a chunk counts as underfilled: its boundary is
	// outside the slack window and splitting the next sentence beats
	// wasting budget.
	boundaryFloor := budget - int(float64(budget)*boundarySlackFraction)

	for i := 0; i < len(units); i++ {
		unit := units[i]
		unitTokens := text.EstimateTokens(unit)
		if currentTokens+unitTokens <= budget {
			current = append(current, unit)
			currentTokens += unitTokens
			continue
		}

		if currentTokens >= boundaryFloor {
			// A legal boundary lies within the slack window; close the
			// chunk there rather than splitting the sentence.
			flush()
			current = append(current, unit)
			currentTokens = unitTokens
			continue
		}

		// Underfilled chunk: split the unit on a word boundary to fill
		// the remaining budget, and re-process the remainder.
		head := text.TruncateTokens(unit, budget-currentTokens)
		if head == "" {
			flush()
			current = append(current, unit)
			currentTokens = unitTokens
			continue
		}
		current = append(current, head)
		flush()
		units[i] = strings.TrimSpace(unit[len(head):])
		if units[i] != "" {
			i--
		}
	}
	flush()

	return chunks, nil
}

// hardSplit cuts an oversized sentence into word-boundary pieces of at most
// budget tokens. The pieces stop slightly short of the budget so the packer
// never produces a chunk that overflows it.
func hardSplit(sentence string, budget int) []string {
	var pieces []string
	rest := sentence
	for text.EstimateTokens(rest) > budget {
		head := text.TruncateTokens(rest, budget)
		if head == "" {
			break
		}
		pieces = append(pieces, head)
		rest = strings.TrimSpace(rest[len(head):])
	}
	if rest != "" {
		pieces = append(pieces, rest)
	}
	return pieces
}

func joinUnits(units []string) string {
	total := 0
	for _, u := range units {
		total += len(u) + 1
	}
	out := make([]byte, 0, total)
	for i, u := range units {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, u...)
	}
	return string(out)
}
