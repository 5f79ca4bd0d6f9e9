// Package text provides utilities for text processing shared across the
// extraction, chunking, and formatting stages: rune counting, whitespace
// normalization, and sentence/paragraph splitting.
package text

import "strings"

// CountRunes counts Unicode characters (runes) in the given text.
// Counting runes instead of bytes keeps limits consistent for multi-byte
// scripts and emoji.
func CountRunes(s string) int {
	return len([]rune(s))
}

// CountWords counts whitespace-separated words in the given text.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// NormalizeWhitespace collapses runs of whitespace into single spaces and
// trims leading/trailing whitespace. Paragraph structure is NOT preserved;
// use it on text that is already a single logical block.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
