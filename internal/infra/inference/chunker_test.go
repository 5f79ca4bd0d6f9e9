package inference

import (
	"fmt"
	"strings"
	"testing"

	"docsum/internal/utils/text"
)

func sentenceDoc(sentences int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&b, "Sentence number %d carries a handful of ordinary words. ", i)
	}
	return b.String()
}

func TestSplitChunks_RespectsBudget(t *testing.T) {
	doc := sentenceDoc(200)
	const budget = 100

	chunks, err := SplitChunks(doc, budget)
	if err != nil {
		t.Fatalf("SplitChunks() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if c.TokenCount > budget {
			t.Errorf("chunk %d has %d tokens, budget %d", c.Index, c.TokenCount, budget)
		}
		if got := text.EstimateTokens(c.Text); got != c.TokenCount {
			t.Errorf("chunk %d TokenCount %d disagrees with estimate %d", c.Index, c.TokenCount, got)
		}
	}
}

func TestSplitChunks_PreservesOrderAndContent(t *testing.T) {
	doc := sentenceDoc(120)

	chunks, err := SplitChunks(doc, 80)
	if err != nil {
		t.Fatal(err)
	}

	var rebuilt strings.Builder
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk at position %d has Index %d", i, c.Index)
		}
		rebuilt.WriteString(c.Text)
		rebuilt.WriteByte(' ')
	}

	// Every word survives, in order.
	want := strings.Fields(doc)
	got := strings.Fields(rebuilt.String())
	if len(got) != len(want) {
		t.Fatalf("rebuilt document has %d words, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitChunks_PrefersSentenceBoundaries(t *testing.T) {
	// Each sentence is ~9 tokens; with a 60 token budget and a 15% slack
	// window, a boundary always exists inside the window, so no sentence
	// may be split across chunks.
	doc := sentenceDoc(60)

	chunks, err := SplitChunks(doc, 60)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range chunks {
		trimmed := strings.TrimSpace(c.Text)
		if !strings.HasSuffix(trimmed, ".") {
			t.Errorf("chunk %d does not end on a sentence boundary: %q", c.Index, tail(trimmed))
		}
		if !strings.HasPrefix(trimmed, "Sentence") {
			t.Errorf("chunk %d does not start on a sentence boundary: %q", c.Index, head(trimmed))
		}
	}
}

func TestSplitChunks_HardSplitsOversizedSentence(t *testing.T) {
	// One giant unbroken sentence forces mid-sentence word splits.
	doc := strings.Repeat("word ", 500) + "end."

	chunks, err := SplitChunks(doc, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 5 {
		t.Fatalf("expected >= 5 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if c.TokenCount > 100 {
			t.Errorf("chunk %d has %d tokens, budget 100", c.Index, c.TokenCount)
		}
	}
}

func TestSplitChunks_SingleChunkWhenFits(t *testing.T) {
	doc := sentenceDoc(5)

	chunks, err := SplitChunks(doc, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("Index = %d, want 0", chunks[0].Index)
	}
}

func TestSplitChunks_EmptyDocument(t *testing.T) {
	chunks, err := SplitChunks("   \n\n  ", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for blank input, got %d", len(chunks))
	}
}

func TestSplitChunks_InvalidBudget(t *testing.T) {
	if _, err := SplitChunks("text", 0); err == nil {
		t.Error("expected error for zero budget")
	}
}

func TestSplitChunks_ParagraphsStayTogether(t *testing.T) {
	doc := "First paragraph has a few words in it.\n\nSecond paragraph is also short.\n\nThird one too."

	chunks, err := SplitChunks(doc, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "Second paragraph") {
		t.Error("chunk lost paragraph content")
	}
}

func head(s string) string {
	if len(s) > 40 {
		return s[:40]
	}
	return s
}

func tail(s string) string {
	if len(s) > 40 {
		return s[len(s)-40:]
	}
	return s
}
