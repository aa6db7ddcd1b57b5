package llmutils

import (
	"regexp"
	"strings"
)

var reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Truncate shortens a string to at most n characters, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// StripThink removes <think>…</think> blocks that some models embed.
func StripThink(s string) string {
	if !strings.Contains(s, "<think>") {
		return s
	}
	return strings.TrimSpace(reThink.ReplaceAllString(s, ""))
}

// StringOrDefault returns s if it's not empty, or def if s is empty.
func StringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
