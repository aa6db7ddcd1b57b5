package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/guardrail/internal/providers"
)

// chatServer answers every chat completion with the next reply; the last
// reply repeats.
func chatServer(t *testing.T, replies ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(replies) {
			n = len(replies) - 1
		}
		content, _ := json.Marshal(replies[n])
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}],"usage":{}}`, content)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func setupConfig(t *testing.T, apiBase string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, spec := range providers.PROVIDERS {
		if spec.EnvKey != "" {
			t.Setenv(spec.EnvKey, "")
		}
	}

	cfg := map[string]any{
		"agents": map[string]any{"defaults": map[string]any{"model": "local-model", "maxRetries": 2}},
		"providers": map[string]any{
			"custom": map[string]any{"apiKey": "test-key", "apiBase": apiBase},
		},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(home, "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configPath, showLogs, verbose = "", false, false
	classifyMessage, classifyFile, classifyRetries, classifySchema = "", "", -1, false
	askMessage, askJSON = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const validPayload = `{"category": "payment", "urgency": "high", "summary": "double charge"}`

func TestClassify_RepairsThenPrintsPayload(t *testing.T) {
	srv, calls := chatServer(t, "not json at all", validPayload)
	path := setupConfig(t, srv.URL)

	out, err := execute(t, "", "--config", path, "classify", "-m", "I was charged twice")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "payment", got["category"])
	assert.Equal(t, "double charge", got["summary"])
}

func TestClassify_ReadsStdin(t *testing.T) {
	srv, _ := chatServer(t, validPayload)
	path := setupConfig(t, srv.URL)

	out, err := execute(t, "refund please\n", "--config", path, "classify")
	require.NoError(t, err)
	assert.Contains(t, out, `"category": "payment"`)
}

func TestClassify_ExhaustedRetries(t *testing.T) {
	srv, calls := chatServer(t, `{"category": "weather", "urgency": "high", "summary": "x"}`)
	path := setupConfig(t, srv.URL)

	_, err := execute(t, "", "--config", path, "classify", "-m", "hello", "--retries", "1")
	require.Error(t, err)
	assert.EqualValues(t, 2, calls.Load())
	assert.Contains(t, err.Error(), "no conforming output after 2 attempts")
}

func TestClassify_Batch(t *testing.T) {
	srv, calls := chatServer(t, validPayload)
	path := setupConfig(t, srv.URL)

	dataPath := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(dataPath, []byte(exampleDataset), 0o600))

	out, err := execute(t, "", "--config", path, "classify", "--file", dataPath)
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())

	var lines []batchLine
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"invoice", "login", "address"}, []string{lines[0].ID, lines[1].ID, lines[2].ID})
	for _, l := range lines {
		assert.Empty(t, l.Error)
		assert.Equal(t, "payment", l.Result["category"])
	}
}

func TestClassify_NoMessage(t *testing.T) {
	srv, calls := chatServer(t, validPayload)
	path := setupConfig(t, srv.URL)

	_, err := execute(t, "  \n", "--config", path, "classify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no message")
	assert.Zero(t, calls.Load())
}

func TestClassify_Schema(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"contract": {"categories": ["billing", "bug"], "summaryMaxLen": 12}}`), 0o600))

	out, err := execute(t, "", "--config", path, "classify", "--schema")
	require.NoError(t, err, "no provider key is needed")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []any{"category", "urgency", "summary"}, doc["required"])
	props := doc["properties"].(map[string]any)
	assert.Equal(t, []any{"billing", "bug"}, props["category"].(map[string]any)["enum"])
	assert.EqualValues(t, 12, props["summary"].(map[string]any)["maxLength"])
}

func TestAsk_DirectAnswer(t *testing.T) {
	srv, calls := chatServer(t, "Two plus two is four.")
	path := setupConfig(t, srv.URL)

	out, err := execute(t, "", "--config", path, "ask", "-m", "what is 2+2?", "--json")
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	var ans map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &ans))
	assert.Equal(t, "Two plus two is four.", ans["answer"])
	assert.NotContains(t, ans, "toolCall")
}

func TestAsk_InteractiveExits(t *testing.T) {
	srv, calls := chatServer(t, "Hello there.")
	path := setupConfig(t, srv.URL)

	out, err := execute(t, "hi\n\nexit\n", "--config", path, "ask")
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
	assert.Contains(t, out, "Hello there.")
	assert.Contains(t, out, "Goodbye!")
}

func TestStatus(t *testing.T) {
	path := setupConfig(t, "http://127.0.0.1:1")

	out, err := execute(t, "", "--config", path, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Model:     local-model (provider: custom)")
	assert.Contains(t, out, "* weather")
	assert.Contains(t, out, `  - urgency: one of ["low", "medium", "high"]`)
	assert.Contains(t, out, "  - summary: string, max length = 20")
}

func TestOnboard_WritesConfigAndDataset(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := execute(t, "", "--config", path, "onboard")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "messages.yaml"))

	_, err = execute(t, "", "--config", path, "onboard")
	require.NoError(t, err)
}
