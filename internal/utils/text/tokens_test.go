package text

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"single short word", "hello", 1},
		{"short words", "one two three", 3},
		{"long word costs extra", "internationalization", 4},
		{"mixed", "the internationalization effort", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.in); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateTokens(t *testing.T) {
	t.Run("already fits", func(t *testing.T) {
		in := "short text"
		if got := TruncateTokens(in, 10); got != in {
			t.Errorf("TruncateTokens() = %q, want unchanged input", got)
		}
	})

	t.Run("cuts on word boundary", func(t *testing.T) {
		got := TruncateTokens("alpha beta gamma delta epsilon", 3)
		if got != "alpha beta gamma" {
			t.Errorf("TruncateTokens() = %q", got)
		}
	})

	t.Run("zero budget", func(t *testing.T) {
		if got := TruncateTokens("anything", 0); got != "" {
			t.Errorf("TruncateTokens() = %q, want empty", got)
		}
	})

	t.Run("truncated text fits budget", func(t *testing.T) {
		got := TruncateTokens("some considerably longer input text with many ordinary words inside", 5)
		if EstimateTokens(got) > 5 {
			t.Errorf("truncated estimate = %d, want <= 5", EstimateTokens(got))
		}
	})
}
