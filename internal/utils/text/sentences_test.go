package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "basic",
			in:   "First sentence. Second sentence! Third?",
			want: []string{"First sentence.", "Second sentence!", "Third?"},
		},
		{
			name: "no terminator",
			in:   "trailing fragment without punctuation",
			want: []string{"trailing fragment without punctuation"},
		},
		{
			name: "decimal not split",
			in:   "The score was 3.5 overall. Next.",
			want: []string{"The score was 3.5 overall.", "Next."},
		},
		{
			name: "initial not split",
			in:   "Written by J. Smith in 2020. It holds up.",
			want: []string{"Written by J. Smith in 2020.", "It holds up."},
		},
		{
			name: "empty",
			in:   "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitSentences mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitParagraphs(t *testing.T) {
	in := "para one\nline two\n\npara  two\n\n\n\npara three"
	want := []string{"para one line two", "para two", "para three"}
	got := SplitParagraphs(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitParagraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureTerminated(t *testing.T) {
	if got := EnsureTerminated("no punctuation"); got != "no punctuation." {
		t.Errorf("EnsureTerminated = %q", got)
	}
	if got := EnsureTerminated("done already!"); got != "done already!" {
		t.Errorf("EnsureTerminated = %q", got)
	}
	if got := EnsureTerminated("  "); got != "" {
		t.Errorf("EnsureTerminated of blank = %q", got)
	}
}
