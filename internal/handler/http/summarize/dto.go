package summarize

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"docsum/internal/domain/entity"
	"docsum/internal/registry"
	"docsum/internal/usecase/summarize"
)

// maxJSONBodyBytes caps JSON request bodies independently of the global
// body limit, so a text payload cannot exhaust memory through the decoder.
const maxJSONBodyBytes = 10 << 20

// Options are the tuning knobs shared by every summarize endpoint.
// FormatWithTags is a pointer so an absent field defaults to true.
type Options struct {
	MaxLength      int    `json:"max_length"`
	FormatWithTags *bool  `json:"format_with_tags"`
	ModelType      string `json:"model_type"`
}

func (o Options) toRequest() summarize.Request {
	withTags := true
	if o.FormatWithTags != nil {
		withTags = *o.FormatWithTags
	}
	modelType := o.ModelType
	if modelType == "" {
		modelType = registry.ModeAuto
	}
	return summarize.Request{
		MaxLength:      o.MaxLength,
		FormatWithTags: withTags,
		ModelType:      modelType,
	}
}

// TextRequest is the body of POST /api/v1/summarize/text.
type TextRequest struct {
	Text string `json:"text"`
	Options
}

// YouTubeRequest is the body of POST /api/v1/summarize/youtube.
type YouTubeRequest struct {
	URL string `json:"url"`
	Options
}

// SummaryResponse is the success body of every summarize endpoint.
type SummaryResponse struct {
	Summary        string          `json:"summary"`
	ModelUsed      string          `json:"model_used"`
	ContentType    entity.Category `json:"content_type"`
	SourceType     string          `json:"source_type"`
	Formatted      *entity.TagTree `json:"formatted,omitempty"`
	DegradedChunks []int           `json:"degraded_chunks,omitempty"`
	InputTokens    int             `json:"input_tokens"`

	// VideoInsights is present only for YouTube summaries.
	VideoInsights *entity.VideoInsights `json:"video_insights,omitempty"`
}

func newSummaryResponse(result *entity.SummaryResult, source entity.SourceType) SummaryResponse {
	return SummaryResponse{
		Summary:        result.SummaryText,
		ModelUsed:      result.ModelUsed,
		ContentType:    result.Category,
		SourceType:     string(source),
		Formatted:      result.Formatted,
		DegradedChunks: result.DegradedChunks,
		InputTokens:    result.InputTokens,
		VideoInsights:  result.Insights,
	}
}

// decodeJSON decodes a JSON request body into v, rejecting unknown fields
// and oversized payloads.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// optionsFromForm reads summarize options from multipart form fields.
func optionsFromForm(r *http.Request) (Options, error) {
	var opts Options

	if v := r.FormValue("max_length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Options{}, errors.New("max_length must be a positive integer")
		}
		opts.MaxLength = n
	}
	if v := r.FormValue("format_with_tags"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Options{}, errors.New("format_with_tags must be a boolean")
		}
		opts.FormatWithTags = &b
	}
	opts.ModelType = r.FormValue("model_type")

	return opts, nil
}
