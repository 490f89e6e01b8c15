package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kberrors "github.com/promptops/kbindex/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, DefaultMinSectionChars, cfg.Chunking.MinSectionChars)
	assert.Equal(t, DefaultMaxChunkChars, cfg.Chunking.MaxChunkChars)
	assert.Equal(t, DefaultMinTokenLength, cfg.Tokenizer.MinTokenLength)
	assert.Equal(t, DefaultMaxTokens, cfg.Tokenizer.MaxTokens)
	assert.Equal(t, DefaultTopK, cfg.Search.TopK)
	assert.Equal(t, ScorerLexical, cfg.Search.Scorer)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, cfg.Search.TopK)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbindex.yaml")
	data := `
search:
  top_k: 12
  scorer: embedding
chunking:
  min_section_chars: 150
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Search.TopK)
	assert.Equal(t, ScorerEmbedding, cfg.Search.Scorer)
	assert.Equal(t, 150, cfg.Chunking.MinSectionChars)
	// Untouched sections keep defaults.
	assert.Equal(t, DefaultMaxTokens, cfg.Tokenizer.MaxTokens)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, kberrors.ErrCodeConfigInvalid, kberrors.GetCode(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"min token length below floor", func(c *Config) { c.Tokenizer.MinTokenLength = 2 }, true},
		{"zero max tokens", func(c *Config) { c.Tokenizer.MaxTokens = 0 }, true},
		{"zero top_k", func(c *Config) { c.Search.TopK = 0 }, true},
		{"unknown scorer", func(c *Config) { c.Search.Scorer = "neural" }, true},
		{"negative min section chars", func(c *Config) { c.Chunking.MinSectionChars = -1 }, true},
		{"zero max file size", func(c *Config) { c.Corpus.MaxFileSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, kberrors.ErrCodeConfigInvalid, kberrors.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbindex.yaml")

	cfg := DefaultConfig()
	cfg.Search.TopK = 9
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Search.TopK)
}
