// Package dataset loads batch inputs for the classify command.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is one message to classify.
type Record struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type rawRecord struct {
	ID    yaml.Node `yaml:"id"`
	Text  string    `yaml:"text"`
	Email string    `yaml:"email"`
}

// Load reads a YAML or JSON list of {id, text} entries. "email" is accepted
// in place of "text".
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	recs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return recs, nil
}

// Parse decodes a dataset document. Entries without an id are numbered from 1.
func Parse(data []byte) ([]Record, error) {
	var raw []rawRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("no entries")
	}

	out := make([]Record, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, r := range raw {
		text := r.Text
		if text == "" {
			text = r.Email
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("entry %d: empty text", i+1)
		}
		id := r.ID.Value
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		if seen[id] {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i+1, id)
		}
		seen[id] = true
		out = append(out, Record{ID: id, Text: text})
	}
	return out, nil
}
