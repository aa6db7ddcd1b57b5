package cmdutils

import (
	"encoding/json"
	"fmt"
	"io"
)

const logo = "🛡"

// PrintResponse writes an agent answer with the CLI banner.
func PrintResponse(w io.Writer, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(w, "\n%s guardrail\n%s\n\n", logo, text)
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
