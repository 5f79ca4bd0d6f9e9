package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docsum/internal/domain/entity"
	"docsum/internal/infra/inference"
	"docsum/internal/registry"
)

type fakeTextExtractor struct {
	doc entity.Document
	err error
}

func (f *fakeTextExtractor) Extract(_ context.Context, raw string) (entity.Document, error) {
	if f.err != nil {
		return entity.Document{}, f.err
	}
	if f.doc.Text == "" {
		f.doc.Text = raw
	}
	return f.doc, nil
}

type fakePDFExtractor struct{ err error }

func (f *fakePDFExtractor) Extract(context.Context, []byte) (entity.Document, error) {
	if f.err != nil {
		return entity.Document{}, f.err
	}
	return entity.Document{Text: "pdf body", SourceType: entity.SourcePDF}, nil
}

type fakeYouTubeExtractor struct {
	doc entity.Document
	err error
}

func (f *fakeYouTubeExtractor) Extract(context.Context, string) (entity.Document, error) {
	if f.err != nil {
		return entity.Document{}, f.err
	}
	if f.doc.Text != "" {
		return f.doc, nil
	}
	return entity.Document{Text: "transcript body", SourceType: entity.SourceYouTube, Title: "Video"}, nil
}

type fakeClassifier struct {
	result entity.ClassificationResult
	calls  int
}

func (f *fakeClassifier) Classify(entity.Document) entity.ClassificationResult {
	f.calls++
	return f.result
}

type fakeEngine struct {
	result inference.Result
	err    error
	calls  int
}

func (f *fakeEngine) Summarize(_ context.Context, _ entity.Document, _ entity.ModelSpec, _ int) (inference.Result, error) {
	f.calls++
	if f.err != nil {
		return inference.Result{}, f.err
	}
	return f.result, nil
}

func newTestService(t *testing.T, classifier *fakeClassifier, engine *fakeEngine) *Service {
	t.Helper()
	reg, err := registry.New(registry.DefaultSpecs(), registry.DefaultModelID)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(
		&fakeTextExtractor{},
		&fakePDFExtractor{},
		&fakeYouTubeExtractor{},
		classifier,
		registry.NewSelector(reg, 12),
		reg,
		engine,
	)
}

func TestSummarizeText_FullPipeline(t *testing.T) {
	classifier := &fakeClassifier{result: entity.ClassificationResult{
		Category:   entity.CategoryNews,
		Confidence: 0.7,
	}}
	engine := &fakeEngine{result: inference.Result{
		SummaryText: "Short news summary. With a second point.",
		ChunkCount:  1,
		InputTokens: 42,
	}}
	svc := newTestService(t, classifier, engine)

	res, err := svc.SummarizeText(context.Background(), "some article text", Request{
		MaxLength:      300,
		FormatWithTags: true,
		ModelType:      "auto",
	})
	if err != nil {
		t.Fatalf("SummarizeText() error = %v", err)
	}
	if res.ModelUsed != "bart" {
		t.Errorf("ModelUsed = %q, want bart for NEWS", res.ModelUsed)
	}
	if res.Category != entity.CategoryNews {
		t.Errorf("Category = %q", res.Category)
	}
	if res.Formatted == nil || len(res.Formatted.KeyPoints) == 0 {
		t.Errorf("Formatted = %+v, want key points", res.Formatted)
	}
	if res.InputTokens != 42 {
		t.Errorf("InputTokens = %d", res.InputTokens)
	}
}

func TestSummarizeText_TagsOff(t *testing.T) {
	classifier := &fakeClassifier{result: entity.ClassificationResult{Category: entity.CategoryGeneric}}
	engine := &fakeEngine{result: inference.Result{SummaryText: "Plain summary."}}
	svc := newTestService(t, classifier, engine)

	res, err := svc.SummarizeText(context.Background(), "text", Request{FormatWithTags: false})
	if err != nil {
		t.Fatal(err)
	}
	if res.Formatted != nil {
		t.Errorf("Formatted = %+v, want nil when tags are off", res.Formatted)
	}
	if res.SummaryText != "Plain summary." {
		t.Errorf("SummaryText = %q", res.SummaryText)
	}
}

func TestSummarizeText_EmptyInputSkipsPipeline(t *testing.T) {
	classifier := &fakeClassifier{}
	engine := &fakeEngine{}
	svc := newTestService(t, classifier, engine)

	textExtractor := &fakeTextExtractor{err: entity.ErrEmptyInput}
	svc.text = textExtractor

	_, err := svc.SummarizeText(context.Background(), "", Request{})
	if !errors.Is(err, entity.ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times, want 0", classifier.calls)
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times, want 0", engine.calls)
	}
}

func TestSummarizePDF_UnreadableSkipsPipeline(t *testing.T) {
	classifier := &fakeClassifier{}
	engine := &fakeEngine{}
	svc := newTestService(t, classifier, engine)
	svc.pdf = &fakePDFExtractor{err: entity.ErrUnreadablePDF}

	_, err := svc.SummarizePDF(context.Background(), []byte("x"), Request{})
	if !errors.Is(err, entity.ErrUnreadablePDF) {
		t.Fatalf("error = %v, want ErrUnreadablePDF", err)
	}
	if classifier.calls != 0 || engine.calls != 0 {
		t.Error("no classifier or model invocation may happen for unreadable PDFs")
	}
}

func TestSummarizeYouTube_NoTranscript(t *testing.T) {
	svc := newTestService(t, &fakeClassifier{}, &fakeEngine{})
	svc.youtube = &fakeYouTubeExtractor{err: entity.ErrNoTranscript}

	_, err := svc.SummarizeYouTube(context.Background(), "https://youtu.be/x", Request{})
	if !errors.Is(err, entity.ErrNoTranscript) {
		t.Fatalf("error = %v, want ErrNoTranscript", err)
	}
}

func TestSummarizeYouTube_VideoInsights(t *testing.T) {
	classifier := &fakeClassifier{result: entity.ClassificationResult{Category: entity.CategoryEducational}}
	engine := &fakeEngine{result: inference.Result{SummaryText: "lecture summary."}}
	svc := newTestService(t, classifier, engine)
	svc.youtube = &fakeYouTubeExtractor{doc: entity.Document{
		Text:            strings.TrimSpace(strings.Repeat("word ", 450)),
		SourceType:      entity.SourceYouTube,
		Title:           "Lecture",
		DurationSeconds: 600,
	}}

	res, err := svc.SummarizeYouTube(context.Background(), "https://youtu.be/x", Request{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Insights == nil {
		t.Fatal("Insights = nil, want populated for YouTube sources")
	}
	if res.Insights.WordCount != 450 {
		t.Errorf("WordCount = %d, want 450", res.Insights.WordCount)
	}
	if res.Insights.DurationSeconds != 600 {
		t.Errorf("DurationSeconds = %d, want 600", res.Insights.DurationSeconds)
	}
	// 450 words at 200 wpm rounds up to 3 minutes.
	if res.Insights.EstimatedReadingMinutes != 3 {
		t.Errorf("EstimatedReadingMinutes = %d, want 3", res.Insights.EstimatedReadingMinutes)
	}
}

func TestSummarizeText_NoVideoInsights(t *testing.T) {
	classifier := &fakeClassifier{result: entity.ClassificationResult{Category: entity.CategoryGeneric}}
	engine := &fakeEngine{result: inference.Result{SummaryText: "done."}}
	svc := newTestService(t, classifier, engine)

	res, err := svc.SummarizeText(context.Background(), "some text", Request{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Insights != nil {
		t.Errorf("Insights = %+v, want nil for non-YouTube sources", res.Insights)
	}
}

func TestSummarizeText_UnknownExplicitModel(t *testing.T) {
	classifier := &fakeClassifier{result: entity.ClassificationResult{Category: entity.CategoryGeneric}}
	engine := &fakeEngine{}
	svc := newTestService(t, classifier, engine)

	_, err := svc.SummarizeText(context.Background(), "text", Request{ModelType: "nonexistent"})
	if !errors.Is(err, entity.ErrUnknownModel) {
		t.Fatalf("error = %v, want ErrUnknownModel", err)
	}
	if engine.calls != 0 {
		t.Error("engine must not run for unknown model ids")
	}
}

func TestSummarizeText_ExplicitModelWins(t *testing.T) {
	classifier := &fakeClassifier{result: entity.ClassificationResult{Category: entity.CategoryNews}}
	engine := &fakeEngine{result: inference.Result{SummaryText: "done."}}
	svc := newTestService(t, classifier, engine)

	res, err := svc.SummarizeText(context.Background(), "text", Request{ModelType: "led"})
	if err != nil {
		t.Fatal(err)
	}
	if res.ModelUsed != "led" {
		t.Errorf("ModelUsed = %q, want led despite NEWS classification", res.ModelUsed)
	}
}

func TestSummarizeText_DegradedChunksSurface(t *testing.T) {
	classifier := &fakeClassifier{result: entity.ClassificationResult{Category: entity.CategoryGeneric}}
	engine := &fakeEngine{result: inference.Result{
		SummaryText:    "partial summary.",
		DegradedChunks: []int{1, 3},
		ChunkCount:     5,
	}}
	svc := newTestService(t, classifier, engine)

	res, err := svc.SummarizeText(context.Background(), "text", Request{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.DegradedChunks) != 2 || res.DegradedChunks[0] != 1 || res.DegradedChunks[1] != 3 {
		t.Errorf("DegradedChunks = %v, want [1 3]", res.DegradedChunks)
	}
}

func TestSummarizeText_EngineFailure(t *testing.T) {
	classifier := &fakeClassifier{result: entity.ClassificationResult{Category: entity.CategoryGeneric}}
	engine := &fakeEngine{err: entity.ErrSummarizationFailed}
	svc := newTestService(t, classifier, engine)

	_, err := svc.SummarizeText(context.Background(), "text", Request{})
	if !errors.Is(err, entity.ErrSummarizationFailed) {
		t.Fatalf("error = %v, want ErrSummarizationFailed", err)
	}
}
