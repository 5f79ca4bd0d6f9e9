// Package registry holds the fixed set of available summarization models and
// the deterministic selection policy that routes a document to exactly one of
// them. The registry is loaded once at startup and is read-only afterwards,
// so concurrent readers need no locking.
package registry

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"docsum/internal/domain/entity"
)

// Registry is the immutable table of model specifications.
type Registry struct {
	specs     map[string]entity.ModelSpec
	order     []string // registration order, used for deterministic iteration
	defaultID string
}

// File is the YAML shape of an external registry file.
type File struct {
	DefaultModel string             `yaml:"default_model"`
	Models       []entity.ModelSpec `yaml:"models"`
}

// DefaultSpecs returns the built-in model table. Budgets and category
// preferences follow the upstream model cards: BART and Pegasus accept 1024
// tokens, T5-small 512, LED 16384.
func DefaultSpecs() []entity.ModelSpec {
	return []entity.ModelSpec{
		{
			ID:                  "bart",
			MaxInputTokens:      1024,
			Tier:                entity.TierBalanced,
			PreferredCategories: []entity.Category{entity.CategoryNews, entity.CategoryEducational, entity.CategoryGeneric},
			Provider:            entity.ProviderOpenAICompat,
		},
		{
			ID:             "t5",
			MaxInputTokens: 512,
			Tier:           entity.TierFast,
			Provider:       entity.ProviderOpenAICompat,
		},
		{
			ID:                  "led",
			MaxInputTokens:      16384,
			Tier:                entity.TierHighQuality,
			PreferredCategories: []entity.Category{entity.CategoryManual},
			SupportsLongContext: true,
			Provider:            entity.ProviderOpenAICompat,
		},
		{
			ID:                  "pegasus",
			MaxInputTokens:      1024,
			Tier:                entity.TierHighQuality,
			PreferredCategories: []entity.Category{entity.CategoryResearchPaper},
			Provider:            entity.ProviderOpenAICompat,
		},
	}
}

// DefaultModelID is the general-purpose fallback model. It has no failure
// path: selection always terminates here when nothing else applies.
const DefaultModelID = "bart"

// New builds a registry from the given specs. Every spec is validated; the
// default model must be present.
func New(specs []entity.ModelSpec, defaultID string) (*Registry, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("registry requires at least one model")
	}

	r := &Registry{
		specs:     make(map[string]entity.ModelSpec, len(specs)),
		defaultID: defaultID,
	}
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("invalid model spec: %w", err)
		}
		if _, exists := r.specs[spec.ID]; exists {
			return nil, fmt.Errorf("duplicate model id %q", spec.ID)
		}
		r.specs[spec.ID] = spec
		r.order = append(r.order, spec.ID)
	}

	if _, ok := r.specs[defaultID]; !ok {
		return nil, fmt.Errorf("default model %q is not in the registry", defaultID)
	}
	return r, nil
}

// Load builds the registry from the built-in defaults, optionally overridden
// by a YAML file named in the MODEL_REGISTRY_PATH environment variable.
func Load() (*Registry, error) {
	path := os.Getenv("MODEL_REGISTRY_PATH")
	if path == "" {
		return New(DefaultSpecs(), DefaultModelID)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read model registry file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse model registry file: %w", err)
	}

	defaultID := file.DefaultModel
	if defaultID == "" {
		defaultID = DefaultModelID
	}

	slog.Info("loaded model registry from file",
		slog.String("path", path),
		slog.Int("models", len(file.Models)),
		slog.String("default_model", defaultID))

	return New(file.Models, defaultID)
}

// Get returns the spec for the given model id.
func (r *Registry) Get(id string) (entity.ModelSpec, bool) {
	spec, ok := r.specs[id]
	return spec, ok
}

// Default returns the configured general-purpose model.
func (r *Registry) Default() entity.ModelSpec {
	return r.specs[r.defaultID]
}

// All returns every spec in registration order.
func (r *Registry) All() []entity.ModelSpec {
	out := make([]entity.ModelSpec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}

// LongContext returns the long-context-capable model, if one is registered.
func (r *Registry) LongContext() (entity.ModelSpec, bool) {
	for _, id := range r.order {
		if r.specs[id].SupportsLongContext {
			return r.specs[id], true
		}
	}
	return entity.ModelSpec{}, false
}

// FastestFitting returns the lowest-latency model whose single-call budget
// holds tokens. Used for the merge pass of chunked inference. Falls back to
// the long-context model, then the default, when nothing fits.
func (r *Registry) FastestFitting(tokens int) entity.ModelSpec {
	var best entity.ModelSpec
	found := false
	for _, id := range r.order {
		spec := r.specs[id]
		if spec.MaxInputTokens < tokens {
			continue
		}
		if !found || spec.Tier.LatencyCost() < best.Tier.LatencyCost() {
			best = spec
			found = true
		}
	}
	if found {
		return best
	}
	if lc, ok := r.LongContext(); ok {
		return lc
	}
	return r.Default()
}
