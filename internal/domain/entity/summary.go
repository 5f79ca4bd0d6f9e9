package entity

// SelectionReason explains why the selector chose a model.
type SelectionReason string

const (
	// ReasonExplicitRequest means the caller named a model and it won
	// unconditionally.
	ReasonExplicitRequest SelectionReason = "EXPLICIT_REQUEST"
	// ReasonCategoryMatch means the model preferred the classified category
	// and was feasible for the document length.
	ReasonCategoryMatch SelectionReason = "CATEGORY_MATCH"
	// ReasonLengthFallback means the document exceeded every non-long-context
	// model's single-chunk budget, so the long-context model was chosen.
	ReasonLengthFallback SelectionReason = "LENGTH_FALLBACK"
	// ReasonDefault means the configured general-purpose model was chosen.
	ReasonDefault SelectionReason = "DEFAULT"
)

// SelectionDecision records the single model routing decision for a request.
type SelectionDecision struct {
	ModelID string
	Reason  SelectionReason
}

// Chunk is a token-budget-respecting contiguous slice of a document's text.
// Chunks exist only inside the inference engine and are discarded after merge.
type Chunk struct {
	// Index is the chunk's position in document order, starting at 0.
	Index int

	// Text is the chunk body.
	Text string

	// TokenCount is the estimated token count of Text. Always at most the
	// selected model's MaxInputTokens.
	TokenCount int
}

// TagTree is the structured form of a summary. The populated fields depend
// on the content category: research papers get key findings and a methodology
// note, manuals get steps, everything else gets key points.
type TagTree struct {
	Title           string   `json:"title"`
	KeyFindings     []string `json:"key_findings,omitempty"`
	MethodologyNote string   `json:"methodology_note,omitempty"`
	Steps           []string `json:"steps,omitempty"`
	KeyPoints       []string `json:"key_points,omitempty"`
}

// VideoInsights carries consumption metadata for a transcript: how long the
// video runs and how long the transcript would take to read instead.
type VideoInsights struct {
	WordCount               int `json:"word_count"`
	DurationSeconds         int `json:"duration_seconds"`
	EstimatedReadingMinutes int `json:"estimated_reading_minutes"`
}

// SummaryResult is the terminal artifact of the pipeline, returned to the
// caller and discarded after the response is produced.
type SummaryResult struct {
	// SummaryText is the plain-text summary.
	SummaryText string

	// ModelUsed is the id of the model that produced the summary.
	ModelUsed string

	// Category is the classified content category of the input document.
	Category Category

	// Formatted is the structured tag tree, present only when the caller
	// asked for tagged output.
	Formatted *TagTree

	// DegradedChunks lists the indexes of chunks whose model summarization
	// permanently failed and which fell back to a truncated excerpt.
	// Partial failure stays visible here instead of failing the request.
	DegradedChunks []int

	// InputTokens is the estimated token length of the input document.
	InputTokens int

	// Insights is transcript consumption metadata, populated only for
	// YouTube sources.
	Insights *VideoInsights
}
