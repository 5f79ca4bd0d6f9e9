// Package summarize exposes the summarization pipeline over HTTP: one
// endpoint per source type plus a model catalog endpoint.
package summarize

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"docsum/internal/domain/entity"
	"docsum/internal/handler/http/respond"
	"docsum/internal/usecase/summarize"
)

// maxPDFUploadBytes caps the multipart memory buffer for PDF uploads.
// Larger files spill to disk; the request body limit is enforced upstream.
const maxPDFUploadBytes = 10 << 20

// Service is the pipeline surface the handlers depend on.
type Service interface {
	SummarizeText(ctx context.Context, raw string, req summarize.Request) (*entity.SummaryResult, error)
	SummarizePDF(ctx context.Context, data []byte, req summarize.Request) (*entity.SummaryResult, error)
	SummarizeYouTube(ctx context.Context, url string, req summarize.Request) (*entity.SummaryResult, error)
}

// Handler serves the summarization endpoints.
type Handler struct {
	service Service
}

// NewHandler creates a Handler backed by the given service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Text handles POST /api/v1/summarize/text.
func (h *Handler) Text(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.SummarizeText(r.Context(), req.Text, req.Options.toRequest())
	if err != nil {
		logPipelineError(r.Context(), "text", err)
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, newSummaryResponse(result, entity.SourcePlainText))
}

// YouTube handles POST /api/v1/summarize/youtube.
func (h *Handler) YouTube(w http.ResponseWriter, r *http.Request) {
	var req YouTubeRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.SummarizeYouTube(r.Context(), req.URL, req.Options.toRequest())
	if err != nil {
		logPipelineError(r.Context(), "youtube", err)
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, newSummaryResponse(result, entity.SourceYouTube))
}

// PDF handles POST /api/v1/summarize/pdf. The PDF arrives as a multipart
// upload under the "file" field; options ride along as form fields.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPDFUploadBytes); err != nil {
		respond.BadRequest(w, "request must be multipart/form-data with a file field")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.BadRequest(w, "failed to read uploaded file")
		return
	}

	opts, err := optionsFromForm(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.SummarizePDF(r.Context(), data, opts.toRequest())
	if err != nil {
		logPipelineError(r.Context(), "pdf", err)
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, newSummaryResponse(result, entity.SourcePDF))
}

func logPipelineError(ctx context.Context, endpoint string, err error) {
	slog.WarnContext(ctx, "summarization request failed",
		slog.String("endpoint", endpoint),
		slog.String("code", string(entity.CodeOf(err))),
		slog.String("error", err.Error()))
}
