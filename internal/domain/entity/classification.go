package entity

// Category is a coarse classification of document purpose used to route
// a document to its preferred summarization model.
type Category string

const (
	CategoryResearchPaper Category = "RESEARCH_PAPER"
	CategoryManual        Category = "MANUAL"
	CategoryEducational   Category = "EDUCATIONAL"
	CategoryNews          Category = "NEWS"
	CategoryGeneric       Category = "GENERIC"
)

// CategoryPriority is the fixed tie-break order for classification.
// Earlier entries win ties.
var CategoryPriority = []Category{
	CategoryResearchPaper,
	CategoryManual,
	CategoryEducational,
	CategoryNews,
	CategoryGeneric,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryResearchPaper, CategoryManual, CategoryEducational, CategoryNews, CategoryGeneric:
		return true
	}
	return false
}

// ClassificationResult is the output of the content classifier.
// Produced exactly once per document and never mutated.
type ClassificationResult struct {
	// Category is the inferred content category.
	Category Category

	// Confidence is in [0, 1]. Zero when no signal cleared the
	// classifier's minimum threshold.
	Confidence float64

	// Signals lists the heuristic cues that contributed to the decision,
	// e.g. "keyword:abstract" or "structure:numbered_steps".
	Signals []string
}
