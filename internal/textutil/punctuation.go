package textutil

import (
	"strings"
	"unicode/utf8"
)

// trailingPunctuation lists the marks dropped from the end of a subtitle line.
// Question and exclamation marks carry meaning and are kept.
const trailingPunctuation = ",.，。、；;：:．｡､"

// TrimTrailingPunctuation removes trailing commas, periods and similar marks
// from each line of text. Ellipses are kept, and a line made only of
// punctuation is returned unchanged.
func TrimTrailingPunctuation(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = trimLine(line)
	}
	return strings.Join(lines, "\n")
}

func trimLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || hasEllipsis(trimmed) {
		return trimmed
	}
	cut := strings.TrimRight(trimmed, trailingPunctuation)
	if cut == "" {
		return trimmed
	}
	return strings.TrimRightFunc(cut, isSpace)
}

func hasEllipsis(s string) bool {
	if strings.HasSuffix(s, "...") || strings.HasSuffix(s, "。。。") {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == '…' || r == '⋯'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '　'
}
