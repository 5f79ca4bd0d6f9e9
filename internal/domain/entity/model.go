package entity

import "fmt"

// Tier is the quality/latency class of a summarization model.
type Tier string

const (
	TierFast        Tier = "FAST"
	TierBalanced    Tier = "BALANCED"
	TierHighQuality Tier = "HIGH_QUALITY"
)

// LatencyCost returns a relative latency cost for the tier, used as the
// deterministic tie-breaker during model selection. Lower is faster.
func (t Tier) LatencyCost() int {
	switch t {
	case TierFast:
		return 1
	case TierBalanced:
		return 2
	case TierHighQuality:
		return 3
	}
	return 4
}

// QualityRank returns a relative quality rank for the tier. Higher is better.
func (t Tier) QualityRank() int {
	switch t {
	case TierFast:
		return 1
	case TierBalanced:
		return 2
	case TierHighQuality:
		return 3
	}
	return 0
}

// Provider identifies which backend implementation serves a model.
type Provider string

const (
	// ProviderOpenAICompat is an OpenAI-compatible inference gateway
	// (e.g. a TGI or vLLM deployment exposing chat completions).
	ProviderOpenAICompat Provider = "openai-compat"
	// ProviderAnthropic is the Anthropic API, usable for long-context roles.
	ProviderAnthropic Provider = "anthropic"
	// ProviderNoop is a no-op backend for tests and development.
	ProviderNoop Provider = "noop"
)

// ModelSpec describes one summarization model available for routing.
// Specs are loaded once at startup into the registry and are read-only
// for the lifetime of the process.
type ModelSpec struct {
	// ID is the stable model identifier callers may request explicitly.
	ID string `yaml:"id"`

	// MaxInputTokens is the model's per-call input token budget.
	MaxInputTokens int `yaml:"max_input_tokens"`

	// Tier is the model's quality/latency class.
	Tier Tier `yaml:"tier"`

	// PreferredCategories lists the content categories this model is
	// best suited for. Empty means the model has no category preference.
	PreferredCategories []Category `yaml:"preferred_categories"`

	// SupportsLongContext marks the model whose budget is large enough to
	// absorb documents other models must chunk.
	SupportsLongContext bool `yaml:"supports_long_context"`

	// Provider selects the backend implementation serving this model.
	Provider Provider `yaml:"provider"`
}

// PrefersCategory reports whether the spec lists c as a preferred category.
func (m ModelSpec) PrefersCategory(c Category) bool {
	for _, pc := range m.PreferredCategories {
		if pc == c {
			return true
		}
	}
	return false
}

// Validate checks the spec for internal consistency.
func (m ModelSpec) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("model id cannot be empty")
	}
	if m.MaxInputTokens <= 0 {
		return fmt.Errorf("model %q: max_input_tokens must be positive, got %d", m.ID, m.MaxInputTokens)
	}
	switch m.Tier {
	case TierFast, TierBalanced, TierHighQuality:
	default:
		return fmt.Errorf("model %q: unknown tier %q", m.ID, m.Tier)
	}
	for _, c := range m.PreferredCategories {
		if !c.Valid() {
			return fmt.Errorf("model %q: unknown category %q", m.ID, c)
		}
	}
	switch m.Provider {
	case ProviderOpenAICompat, ProviderAnthropic, ProviderNoop, "":
	default:
		return fmt.Errorf("model %q: unknown provider %q", m.ID, m.Provider)
	}
	return nil
}
