package llm

import (
	"regexp"
	"strings"
)

var reasoningBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripReasoning removes every <think>…</think> span some reasoning models
// prepend to their answer and trims the remainder.
func StripReasoning(content string) string {
	return strings.TrimSpace(reasoningBlock.ReplaceAllString(content, ""))
}
