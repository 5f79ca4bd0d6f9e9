// Package classifier tags a normalized document with a coarse content
// category. Classification is purely heuristic (keyword and structural cues)
// so its latency stays negligible next to summarization; the category only
// steers model routing and output formatting, so a wrong guess degrades
// quality, never correctness.
package classifier

import (
	"regexp"
	"sort"
	"strings"

	"docsum/internal/domain/entity"
	"docsum/internal/utils/text"
)

// minScore is the minimum keyword/structure score a category must reach
// before it is trusted. Below it the document is GENERIC with confidence 0.
const minScore = 2

// scanLimit bounds each of the two keyword scan windows. Signals for
// document purpose concentrate at the edges: titles, abstracts, and section
// headings at the front, references and appendices at the back. Long
// documents are scanned head and tail; the middle adds cost, not accuracy.
const scanLimit = 4000

// categoryKeywords maps each category to the lowercase cues that vote for
// it. A cue appearing in the scanned text or the title scores one point.
var categoryKeywords = map[entity.Category][]string{
	entity.CategoryResearchPaper: {
		"abstract", "methodology", "references", "bibliography",
		"doi:", "arxiv", "journal", "conference", "hypothesis",
		"study", "findings", "peer-reviewed",
	},
	entity.CategoryManual: {
		"user manual", "installation", "configuration", "setup",
		"troubleshooting", "faq", "documentation", "prerequisites",
		"step 1", "getting started",
	},
	entity.CategoryEducational: {
		"tutorial", "how to", "learn", "course", "lesson",
		"explain", "introduction to", "basics of", "example",
	},
	entity.CategoryNews: {
		"news", "report", "breaking", "announced", "according to",
		"investigation", "update", "interview", "press release",
	},
}

var numberedStepPattern = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|step\s+\d+)`)

// Classifier classifies documents by keyword density and structural cues.
// It is stateless and safe for concurrent use.
type Classifier struct{}

// New creates a classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify inspects the document and returns its content category with a
// confidence in [0, 1]. Deterministic: the same document always yields the
// same result. Ties between categories are broken by the fixed priority
// order in entity.CategoryPriority.
func (c *Classifier) Classify(doc entity.Document) entity.ClassificationResult {
	head, tail := scanWindows(strings.ToLower(doc.Text))
	title := strings.ToLower(doc.Title)

	scores := make(map[entity.Category]int, len(categoryKeywords))
	signals := make(map[entity.Category][]string, len(categoryKeywords))

	for category, keywords := range categoryKeywords {
		for _, kw := range keywords {
			if strings.Contains(head, kw) || strings.Contains(tail, kw) || strings.Contains(title, kw) {
				scores[category]++
				signals[category] = append(signals[category], "keyword:"+strings.ReplaceAll(kw, " ", "_"))
			}
		}
	}

	// Structural cues. Numbered step lines are a strong manual signal; a
	// high question density suggests instructional material.
	if steps := len(numberedStepPattern.FindAllString(head, -1)); steps >= 3 {
		scores[entity.CategoryManual] += 2
		signals[entity.CategoryManual] = append(signals[entity.CategoryManual], "structure:numbered_steps")
	}
	if questionDensity(doc.Text) > 0.2 {
		scores[entity.CategoryEducational]++
		signals[entity.CategoryEducational] = append(signals[entity.CategoryEducational], "structure:question_density")
	}

	best, bestScore := pickBest(scores)
	if bestScore < minScore {
		return entity.ClassificationResult{
			Category:   entity.CategoryGeneric,
			Confidence: 0,
		}
	}

	sig := signals[best]
	sort.Strings(sig)
	return entity.ClassificationResult{
		Category:   best,
		Confidence: confidence(bestScore),
		Signals:    sig,
	}
}

// scanWindows returns the leading and trailing scan windows of the body.
// Short documents fit entirely in the head window and get an empty tail.
func scanWindows(body string) (head, tail string) {
	if len(body) <= 2*scanLimit {
		return body, ""
	}
	return body[:scanLimit], body[len(body)-scanLimit:]
}

// pickBest returns the highest-scoring category; ties go to the category
// listed earlier in entity.CategoryPriority.
func pickBest(scores map[entity.Category]int) (entity.Category, int) {
	best := entity.CategoryGeneric
	bestScore := 0
	for _, category := range entity.CategoryPriority {
		if s := scores[category]; s > bestScore {
			best = category
			bestScore = s
		}
	}
	return best, bestScore
}

// confidence maps a raw score onto (0, 0.95]: score/(score+4), saturating.
// The cap keeps the classifier from ever claiming certainty from keywords.
func confidence(score int) float64 {
	c := float64(score) / float64(score+4)
	if c > 0.95 {
		return 0.95
	}
	return c
}

// questionDensity returns the fraction of sentences ending in a question
// mark, over the first sentences of the document.
func questionDensity(s string) float64 {
	sentences := text.SplitSentences(s)
	if len(sentences) == 0 {
		return 0
	}
	const sample = 40
	if len(sentences) > sample {
		sentences = sentences[:sample]
	}
	questions := 0
	for _, sentence := range sentences {
		if strings.HasSuffix(strings.TrimSpace(sentence), "?") {
			questions++
		}
	}
	return float64(questions) / float64(len(sentences))
}
