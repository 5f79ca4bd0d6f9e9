package text

import (
	"strings"
	"unicode"
)

// sentenceTerminators are the runes that may end a sentence.
const sentenceTerminators = ".!?"

// SplitSentences splits text into sentences on terminal punctuation followed
// by whitespace. Terminators stay attached to their sentence. Common
// abbreviation traps (initials like "J. Smith", decimals like "3.5") are
// avoided by requiring the rune after the terminator to be whitespace and the
// next non-space rune to start a new token.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !strings.ContainsRune(sentenceTerminators, runes[i]) {
			continue
		}
		// Consume trailing terminators and closing quotes.
		end := i
		for end+1 < len(runes) && (strings.ContainsRune(sentenceTerminators+`"')`, runes[end+1])) {
			end++
		}
		// A sentence boundary needs whitespace after the terminator run.
		if end+1 < len(runes) && !unicode.IsSpace(runes[end+1]) {
			i = end
			continue
		}
		// Single-letter token before the period is likely an initial.
		if isInitial(runes, i) {
			i = end
			continue
		}
		s := strings.TrimSpace(string(runes[start : end+1]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = end + 1
		i = end
	}

	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// isInitial reports whether the period at index i terminates a single
// uppercase letter, as in "J. Smith".
func isInitial(runes []rune, i int) bool {
	if i == 0 || runes[i] != '.' {
		return false
	}
	if !unicode.IsUpper(runes[i-1]) {
		return false
	}
	return i < 2 || unicode.IsSpace(runes[i-2])
}

// SplitParagraphs splits text into paragraphs on blank lines. Each paragraph
// is whitespace-normalized. Empty paragraphs are dropped.
func SplitParagraphs(text string) []string {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if p := NormalizeWhitespace(block); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// EnsureTerminated appends a period to s unless it already ends with
// terminal punctuation. Used when reassembling transcript fragments.
func EnsureTerminated(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.ContainsRune(sentenceTerminators, []rune(s)[len([]rune(s))-1]) {
		return s
	}
	return s + "."
}
