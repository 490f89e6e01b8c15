package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the CLI with args and returns captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// newWorkspace lays out a corpus and a config pointing at temp dirs.
func newWorkspace(t *testing.T) (configFile, corpusDir string) {
	t.Helper()
	base := t.TempDir()
	corpusDir = filepath.Join(base, "corpus")
	require.NoError(t, os.MkdirAll(filepath.Join(corpusDir, "docs"), 0o755))

	guide := "# Widget Binding\n" + strings.Repeat("Bind the widget to a data source and refresh it. ", 8)
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "docs", "guide.md"), []byte(guide), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "notes.txt"),
		[]byte("Completely unrelated paragraph about deployment pipelines."), 0o644))

	configFile = filepath.Join(base, "kbindex.yaml")
	cfg := fmt.Sprintf(`
corpus:
  extensions: [".md", ".txt"]
index:
  dir: %q
cache:
  dir: %q
`, filepath.Join(base, "index"), filepath.Join(base, "cache"))
	require.NoError(t, os.WriteFile(configFile, []byte(cfg), 0o644))
	return configFile, corpusDir
}

func TestBuildThenQuery(t *testing.T) {
	configFile, corpusDir := newWorkspace(t)

	out, err := runCLI(t, "--config", configFile, "build", "--corpus", corpusDir)
	require.NoError(t, err)
	assert.Contains(t, out, "index built")

	out, err = runCLI(t, "--config", configFile, "query", "widget", "binding")
	require.NoError(t, err)
	assert.Contains(t, out, "docs/guide.md")
	assert.NotContains(t, out, "notes.txt")
}

func TestQueryBeforeBuildReturnsNoResults(t *testing.T) {
	configFile, _ := newWorkspace(t)

	out, err := runCLI(t, "--config", configFile, "query", "widget")
	require.NoError(t, err)
	assert.Contains(t, out, "no results")
}

func TestQueryJSONOutput(t *testing.T) {
	configFile, corpusDir := newWorkspace(t)

	_, err := runCLI(t, "--config", configFile, "build", "--corpus", corpusDir)
	require.NoError(t, err)

	out, err := runCLI(t, "--config", configFile, "query", "--json", "widget")
	require.NoError(t, err)
	assert.Contains(t, out, `"source_path": "docs/guide.md"`)
	assert.Contains(t, out, `"score"`)
}

func TestQueryContextOutput(t *testing.T) {
	configFile, corpusDir := newWorkspace(t)

	_, err := runCLI(t, "--config", configFile, "build", "--corpus", corpusDir)
	require.NoError(t, err)

	out, err := runCLI(t, "--config", configFile, "query", "--context", "widget", "binding")
	require.NoError(t, err)
	assert.Contains(t, out, "[docs/guide.md - Widget Binding]")
}

func TestRepeatQueriesAreIdentical(t *testing.T) {
	configFile, corpusDir := newWorkspace(t)

	_, err := runCLI(t, "--config", configFile, "build", "--corpus", corpusDir)
	require.NoError(t, err)

	first, err := runCLI(t, "--config", configFile, "query", "--json", "widget")
	require.NoError(t, err)
	second, err := runCLI(t, "--config", configFile, "query", "--json", "widget")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStatsCommand(t *testing.T) {
	configFile, corpusDir := newWorkspace(t)

	_, err := runCLI(t, "--config", configFile, "build", "--corpus", corpusDir)
	require.NoError(t, err)
	_, err = runCLI(t, "--config", configFile, "query", "widget")
	require.NoError(t, err)

	out, err := runCLI(t, "--config", configFile, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "chunks:")
	assert.Contains(t, out, "queries:")
}

func TestInitWritesConfigTemplate(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "kbindex.yaml")

	out, err := runCLI(t, "--config", configFile, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "corpus:")
	assert.Contains(t, string(data), "tokenizer:")

	out, err = runCLI(t, "--config", configFile, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	_, err = runCLI(t, "--config", configFile, "init", "--force")
	require.NoError(t, err)
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "kbindex version")
}
