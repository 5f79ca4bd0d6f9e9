package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docsum/internal/domain/entity"
	"docsum/internal/registry"
	"docsum/internal/usecase/summarize"
)

type fakeService struct {
	result  *entity.SummaryResult
	err     error
	lastRaw string
	lastURL string
	lastPDF []byte
	lastReq summarize.Request
}

func (f *fakeService) SummarizeText(_ context.Context, raw string, req summarize.Request) (*entity.SummaryResult, error) {
	f.lastRaw = raw
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeService) SummarizePDF(_ context.Context, data []byte, req summarize.Request) (*entity.SummaryResult, error) {
	f.lastPDF = data
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeService) SummarizeYouTube(_ context.Context, url string, req summarize.Request) (*entity.SummaryResult, error) {
	f.lastURL = url
	f.lastReq = req
	return f.result, f.err
}

func okResult() *entity.SummaryResult {
	return &entity.SummaryResult{
		SummaryText: "A short summary.",
		ModelUsed:   "bart",
		Category:    entity.CategoryNews,
		Formatted:   &entity.TagTree{Title: "A short summary", KeyPoints: []string{"A short summary."}},
		InputTokens: 120,
	}
}

func newTestMux(t *testing.T, svc Service) *http.ServeMux {
	t.Helper()
	reg, err := registry.New(registry.DefaultSpecs(), registry.DefaultModelID)
	if err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	Register(mux, svc, reg)
	return mux
}

func TestText_Success(t *testing.T) {
	svc := &fakeService{result: okResult()}
	mux := newTestMux(t, svc)

	body := `{"text":"some article","max_length":300,"model_type":"auto"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/text", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Summary != "A short summary." {
		t.Errorf("Summary = %q", resp.Summary)
	}
	if resp.ModelUsed != "bart" {
		t.Errorf("ModelUsed = %q", resp.ModelUsed)
	}
	if resp.SourceType != string(entity.SourcePlainText) {
		t.Errorf("SourceType = %q", resp.SourceType)
	}
	if svc.lastRaw != "some article" {
		t.Errorf("service received %q", svc.lastRaw)
	}
	if svc.lastReq.MaxLength != 300 {
		t.Errorf("MaxLength = %d", svc.lastReq.MaxLength)
	}
}

func TestText_TagsDefaultOn(t *testing.T) {
	svc := &fakeService{result: okResult()}
	mux := newTestMux(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/text", strings.NewReader(`{"text":"x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if !svc.lastReq.FormatWithTags {
		t.Error("FormatWithTags should default to true when omitted")
	}
	if svc.lastReq.ModelType != registry.ModeAuto {
		t.Errorf("ModelType = %q, want auto default", svc.lastReq.ModelType)
	}
}

func TestText_TagsExplicitlyOff(t *testing.T) {
	svc := &fakeService{result: okResult()}
	mux := newTestMux(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/text",
		strings.NewReader(`{"text":"x","format_with_tags":false}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if svc.lastReq.FormatWithTags {
		t.Error("FormatWithTags = true, want false")
	}
}

func TestText_MalformedJSON(t *testing.T) {
	svc := &fakeService{result: okResult()}
	mux := newTestMux(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/text", strings.NewReader(`{"text":`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestText_UnknownFieldRejected(t *testing.T) {
	svc := &fakeService{result: okResult()}
	mux := newTestMux(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/text",
		strings.NewReader(`{"text":"x","bogus":1}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestText_PipelineErrorMapped(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty input", entity.ErrEmptyInput, http.StatusBadRequest},
		{"unknown model", entity.ErrUnknownModel, http.StatusBadRequest},
		{"timeout", entity.ErrRequestTimeout, http.StatusGatewayTimeout},
		{"all chunks failed", entity.ErrSummarizationFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(t, &fakeService{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/text", strings.NewReader(`{"text":"x"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestYouTube_Success(t *testing.T) {
	svc := &fakeService{result: okResult()}
	mux := newTestMux(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/youtube",
		strings.NewReader(`{"url":"https://youtu.be/abc123DEF45"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.lastURL != "https://youtu.be/abc123DEF45" {
		t.Errorf("service received %q", svc.lastURL)
	}
}

func TestYouTube_VideoInsightsInBody(t *testing.T) {
	result := okResult()
	result.Insights = &entity.VideoInsights{
		WordCount:               1200,
		DurationSeconds:         600,
		EstimatedReadingMinutes: 6,
	}
	mux := newTestMux(t, &fakeService{result: result})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/youtube",
		strings.NewReader(`{"url":"https://youtu.be/abc123DEF45"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.VideoInsights == nil {
		t.Fatal("video_insights missing from YouTube response")
	}
	if resp.VideoInsights.WordCount != 1200 || resp.VideoInsights.EstimatedReadingMinutes != 6 {
		t.Errorf("video_insights = %+v", resp.VideoInsights)
	}
}

func TestYouTube_NoTranscriptIs422(t *testing.T) {
	mux := newTestMux(t, &fakeService{err: entity.ErrNoTranscript})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/youtube",
		strings.NewReader(`{"url":"https://youtu.be/abc123DEF45"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func pdfUpload(t *testing.T, fields map[string]string, fileBytes []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileBytes != nil {
		fw, err := mw.CreateFormFile("file", "doc.pdf")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(fileBytes); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestPDF_Success(t *testing.T) {
	svc := &fakeService{result: okResult()}
	mux := newTestMux(t, svc)

	body, contentType := pdfUpload(t, map[string]string{
		"max_length": "200",
		"model_type": "led",
	}, []byte("%PDF-1.4 fake"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if string(svc.lastPDF) != "%PDF-1.4 fake" {
		t.Errorf("service received %q", svc.lastPDF)
	}
	if svc.lastReq.MaxLength != 200 || svc.lastReq.ModelType != "led" {
		t.Errorf("options = %+v", svc.lastReq)
	}
}

func TestPDF_MissingFile(t *testing.T) {
	mux := newTestMux(t, &fakeService{result: okResult()})

	body, contentType := pdfUpload(t, map[string]string{"max_length": "200"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPDF_BadMaxLength(t *testing.T) {
	mux := newTestMux(t, &fakeService{result: okResult()})

	body, contentType := pdfUpload(t, map[string]string{"max_length": "lots"}, []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize/pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestModelsInfo(t *testing.T) {
	mux := newTestMux(t, &fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/models/info", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ModelsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Models) != 4 {
		t.Fatalf("models = %d, want 4", len(resp.Models))
	}

	defaults := 0
	longContext := 0
	for _, m := range resp.Models {
		if m.Default {
			defaults++
			if m.ID != "bart" {
				t.Errorf("default model = %q, want bart", m.ID)
			}
		}
		if m.SupportsLongContext {
			longContext++
			if m.ID != "led" {
				t.Errorf("long-context model = %q, want led", m.ID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("default flags = %d, want exactly 1", defaults)
	}
	if longContext != 1 {
		t.Errorf("long-context flags = %d, want exactly 1", longContext)
	}
}
