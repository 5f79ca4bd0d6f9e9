package summarize

import (
	"net/http"

	"docsum/internal/registry"
)

// Register mounts the summarization routes on mux.
func Register(mux *http.ServeMux, service Service, reg *registry.Registry) {
	handler := NewHandler(service)
	models := NewModelsHandler(reg)

	mux.HandleFunc("POST /api/v1/summarize/text", handler.Text)
	mux.HandleFunc("POST /api/v1/summarize/pdf", handler.PDF)
	mux.HandleFunc("POST /api/v1/summarize/youtube", handler.YouTube)
	mux.HandleFunc("GET /api/v1/models/info", models.Info)
}
