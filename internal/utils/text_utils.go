package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Ellipsis is appended to truncated previews
const Ellipsis = "…"

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger: logger,
	}
}

// LimitLength cuts text to at most maxChars characters. A non-positive
// limit disables the cut.
func (tp *TextProcessor) LimitLength(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	limited := string([]rune(text)[:maxChars])

	tp.logger.Debug("Text limited",
		zap.Int("original_chars", utf8.RuneCountInString(text)),
		zap.Int("max_chars", maxChars))

	return limited
}

// Preview returns text unchanged when it fits in maxChars characters,
// otherwise its first maxChars characters followed by an ellipsis
func (tp *TextProcessor) Preview(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	return string([]rune(text)[:maxChars]) + Ellipsis
}

// Remaining returns how many characters can still be added to text
func (tp *TextProcessor) Remaining(text string, maxChars int) int {
	remaining := maxChars - utf8.RuneCountInString(text)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}
