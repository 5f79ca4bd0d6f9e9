package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"docsum/internal/domain/entity"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"ok": "yes"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["ok"] != "yes" {
		t.Errorf("body = %v", body)
	}
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty input", entity.ErrEmptyInput, http.StatusBadRequest, "empty_input"},
		{"invalid url", entity.ErrInvalidURL, http.StatusBadRequest, "invalid_url"},
		{"unknown model", entity.ErrUnknownModel, http.StatusBadRequest, "unknown_model"},
		{"unreadable pdf", entity.ErrUnreadablePDF, http.StatusUnprocessableEntity, "unreadable_pdf"},
		{"no transcript", entity.ErrNoTranscript, http.StatusUnprocessableEntity, "no_transcript"},
		{"video too long", entity.ErrVideoTooLong, http.StatusUnprocessableEntity, "video_too_long"},
		{"source fetch failed", entity.ErrSourceFetchFailed, http.StatusBadGateway, "source_fetch_failed"},
		{"timeout", entity.ErrRequestTimeout, http.StatusGatewayTimeout, "request_timeout"},
		{"summarization failed", entity.ErrSummarizationFailed, http.StatusInternalServerError, "summarization_failed"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestError_WrappedSentinelKeepsMapping(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, entity.WrapPipelineError(entity.ErrNoTranscript, errors.New("fetch failed")))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestError_WrappedCauseStaysOutOfBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, entity.WrapPipelineError(entity.ErrSourceFetchFailed,
		errors.New("Get \"https://www.youtube.com/watch?v=x\": dial tcp: i/o timeout")))

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != entity.ErrSourceFetchFailed.Msg {
		t.Errorf("error = %q, want the sentinel message only", body.Error)
	}
}

func TestError_InternalHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("dial tcp 10.0.0.1: connection refused"))

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "summarization failed" {
		t.Errorf("error = %q, internal detail must not leak", body.Error)
	}
}

func TestBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "file field is required")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "invalid_request" {
		t.Errorf("code = %q", body.Code)
	}
}
