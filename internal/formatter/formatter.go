// Package formatter derives a structural tag tree from a finished summary.
// Structure is template-based on the already-produced text (sentence
// splitting plus simple key-point heuristics), never a second model call,
// so formatting stays cheap and deterministic.
package formatter

import (
	"strings"

	"docsum/internal/domain/entity"
	"docsum/internal/utils/text"
)

// methodologyCues mark sentences that describe how a study was conducted
// rather than what it found.
var methodologyCues = []string{
	"method", "approach", "we used", "conducted", "collected",
	"analysis", "evaluated", "measured", "dataset", "experiment",
}

// Format wraps summaryText in a category-specific tag tree. When withTags
// is false the summary passes through unchanged and no tree is built.
//
// Structures by category:
//   - RESEARCH_PAPER: title, key findings, methodology note
//   - MANUAL: title, steps
//   - everything else: title, key points
func Format(summaryText string, title string, category entity.Category, withTags bool) *entity.TagTree {
	if !withTags {
		return nil
	}

	sentences := text.SplitSentences(summaryText)
	tree := &entity.TagTree{Title: deriveTitle(title, sentences)}

	// The first sentence stays in the body even when it doubles as the
	// title fallback: dropping it would lose content whenever the title
	// came from the document itself.
	switch category {
	case entity.CategoryResearchPaper:
		findings, note := splitMethodology(sentences)
		tree.KeyFindings = findings
		tree.MethodologyNote = note
	case entity.CategoryManual:
		tree.Steps = sentences
	default:
		tree.KeyPoints = sentences
	}

	return tree
}

// deriveTitle prefers the document's own title; otherwise the summary's
// leading sentence stands in.
func deriveTitle(docTitle string, sentences []string) string {
	if t := strings.TrimSpace(docTitle); t != "" {
		return t
	}
	if len(sentences) > 0 {
		return strings.TrimSuffix(sentences[0], ".")
	}
	return ""
}

// splitMethodology partitions sentences into findings and a methodology
// note. The first sentence matching a methodology cue becomes the note; all
// other sentences are findings.
func splitMethodology(sentences []string) ([]string, string) {
	var findings []string
	note := ""
	for _, sentence := range sentences {
		if note == "" && isMethodology(sentence) {
			note = sentence
			continue
		}
		findings = append(findings, sentence)
	}
	return findings, note
}

func isMethodology(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, cue := range methodologyCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
