package summarize

import (
	"net/http"

	"docsum/internal/domain/entity"
	"docsum/internal/handler/http/respond"
	"docsum/internal/registry"
)

// ModelInfo describes one routable model in the catalog response.
type ModelInfo struct {
	ID                  string            `json:"id"`
	MaxInputTokens      int               `json:"max_input_tokens"`
	Tier                entity.Tier       `json:"tier"`
	PreferredCategories []entity.Category `json:"preferred_categories,omitempty"`
	SupportsLongContext bool              `json:"supports_long_context"`
	Default             bool              `json:"default"`
}

// ModelsResponse is the body of GET /api/v1/models/info.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ModelsHandler serves the model catalog from the registry.
type ModelsHandler struct {
	registry *registry.Registry
}

// NewModelsHandler creates a ModelsHandler.
func NewModelsHandler(reg *registry.Registry) *ModelsHandler {
	return &ModelsHandler{registry: reg}
}

// Info handles GET /api/v1/models/info.
func (h *ModelsHandler) Info(w http.ResponseWriter, r *http.Request) {
	defaultID := h.registry.Default().ID

	specs := h.registry.All()
	models := make([]ModelInfo, 0, len(specs))
	for _, spec := range specs {
		models = append(models, ModelInfo{
			ID:                  spec.ID,
			MaxInputTokens:      spec.MaxInputTokens,
			Tier:                spec.Tier,
			PreferredCategories: spec.PreferredCategories,
			SupportsLongContext: spec.SupportsLongContext,
			Default:             spec.ID == defaultID,
		})
	}

	respond.JSON(w, http.StatusOK, ModelsResponse{Models: models})
}
