package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_YAML(t *testing.T) {
	recs, err := Parse([]byte(`
- id: 1
  email: "My card was charged but the order shows unpaid."
- id: outage
  text: "Nobody can log in since this morning!"
- text: "Do you publish API docs?"
`))
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{ID: "1", Text: "My card was charged but the order shows unpaid."},
		{ID: "outage", Text: "Nobody can log in since this morning!"},
		{ID: "3", Text: "Do you publish API docs?"},
	}, recs)
}

func TestParse_JSON(t *testing.T) {
	recs, err := Parse([]byte(`[{"id": 7, "text": "hello"}, {"id": "b", "email": "world"}]`))
	require.NoError(t, err)
	assert.Equal(t, []Record{{ID: "7", Text: "hello"}, {ID: "b", Text: "world"}}, recs)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":        `[]`,
		"not a list":   `{"id": 1}`,
		"blank text":   `[{"id": 1, "text": "  "}]`,
		"duplicate id": `[{"id": 1, "text": "a"}, {"id": 1, "text": "b"}]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- text: hi\n"), 0o600))

	recs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Record{{ID: "1", Text: "hi"}}, recs)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
