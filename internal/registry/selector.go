package registry

import (
	"fmt"
	"log/slog"

	"docsum/internal/domain/entity"
)

// Selector applies the deterministic model routing policy. It is a total
// function: some decision is always reachable because the default model has
// no category restriction.
type Selector struct {
	registry  *Registry
	maxChunks int
}

// ModeAuto is the requested-model value that enables automatic routing.
const ModeAuto = "auto"

// NewSelector creates a selector over the given registry. maxChunks bounds
// chunking feasibility: a model is feasible for a document only if the
// document fits in at most maxChunks chunks of the model's budget.
func NewSelector(registry *Registry, maxChunks int) *Selector {
	if maxChunks <= 0 {
		maxChunks = 12
	}
	return &Selector{registry: registry, maxChunks: maxChunks}
}

// Select picks exactly one model for a request.
//
// Policy, in order:
//  1. An explicit, known requested model id always wins (caller override).
//     An unknown id is a configuration error, never silently substituted.
//  2. Among models preferring the classified category, the highest tier that
//     is chunking-feasible for docTokens; ties break toward lower latency,
//     then registration order.
//  3. If the document exceeds every non-long-context model's single-chunk
//     budget, the long-context model.
//  4. The configured default model.
func (s *Selector) Select(classification entity.ClassificationResult, requestedModel string, docTokens int) (entity.SelectionDecision, error) {
	if requestedModel != "" && requestedModel != ModeAuto {
		if _, ok := s.registry.Get(requestedModel); !ok {
			return entity.SelectionDecision{}, entity.WrapPipelineError(
				entity.ErrUnknownModel,
				fmt.Errorf("model %q", requestedModel),
			)
		}
		return entity.SelectionDecision{
			ModelID: requestedModel,
			Reason:  entity.ReasonExplicitRequest,
		}, nil
	}

	if decision, ok := s.selectByCategory(classification.Category, docTokens); ok {
		return decision, nil
	}

	if decision, ok := s.selectByLength(docTokens); ok {
		return decision, nil
	}

	return entity.SelectionDecision{
		ModelID: s.registry.Default().ID,
		Reason:  entity.ReasonDefault,
	}, nil
}

// Feasible reports whether doc of docTokens can be chunked into at most
// maxChunks chunks of the spec's budget.
func (s *Selector) Feasible(spec entity.ModelSpec, docTokens int) bool {
	if docTokens <= 0 {
		return true
	}
	chunks := (docTokens + spec.MaxInputTokens - 1) / spec.MaxInputTokens
	return chunks <= s.maxChunks
}

func (s *Selector) selectByCategory(category entity.Category, docTokens int) (entity.SelectionDecision, bool) {
	var best entity.ModelSpec
	found := false

	for _, spec := range s.registry.All() {
		if !spec.PrefersCategory(category) {
			continue
		}
		if !s.Feasible(spec, docTokens) {
			slog.Debug("category-preferred model infeasible for document length",
				slog.String("model", spec.ID),
				slog.Int("doc_tokens", docTokens),
				slog.Int("budget", spec.MaxInputTokens))
			continue
		}
		if !found || better(spec, best) {
			best = spec
			found = true
		}
	}

	if !found {
		return entity.SelectionDecision{}, false
	}
	return entity.SelectionDecision{
		ModelID: best.ID,
		Reason:  entity.ReasonCategoryMatch,
	}, true
}

func (s *Selector) selectByLength(docTokens int) (entity.SelectionDecision, bool) {
	longContext, ok := s.registry.LongContext()
	if !ok {
		return entity.SelectionDecision{}, false
	}

	for _, spec := range s.registry.All() {
		if spec.SupportsLongContext {
			continue
		}
		if docTokens <= spec.MaxInputTokens {
			// At least one regular model can take the document whole.
			return entity.SelectionDecision{}, false
		}
	}

	return entity.SelectionDecision{
		ModelID: longContext.ID,
		Reason:  entity.ReasonLengthFallback,
	}, true
}

// better reports whether a beats b under the category-match tie rules:
// higher quality tier first, then lower latency cost. Equal specs keep the
// earlier-registered one (stable because iteration is in registration order).
func better(a, b entity.ModelSpec) bool {
	if a.Tier.QualityRank() != b.Tier.QualityRank() {
		return a.Tier.QualityRank() > b.Tier.QualityRank()
	}
	return a.Tier.LatencyCost() < b.Tier.LatencyCost()
}
