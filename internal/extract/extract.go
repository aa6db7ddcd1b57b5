// Package extract locates a candidate JSON object inside free-form model text.
package extract

import "strings"

// Extract returns the span from the first '{' to the last '}' inclusive.
// ok is false when either brace is missing or they are out of order.
//
// The span is a candidate only: braces are not balanced, and text holding
// several separate objects yields one span covering all of them. Callers pass
// the result to a real parser.
func Extract(text string) (candidate string, ok bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < 0 || start > end {
		return "", false
	}
	return text[start : end+1], true
}
