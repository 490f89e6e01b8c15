// Package config loads and validates kbindex configuration.
//
// Configuration is resolved in order: built-in defaults, then an optional
// YAML file (kbindex.yaml). All knobs of the retrieval pipeline live here;
// the core packages take plain values and never read files or environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	kberrors "github.com/promptops/kbindex/internal/errors"
)

// Pipeline defaults. The tokenizer floor of 3 characters and the 2000
// token cap apply identically to the build and query paths; weighting is
// only comparable when both sides tokenize the same way.
const (
	DefaultMinSectionChars = 200
	DefaultMaxChunkChars   = 4000
	DefaultMaxKeywords     = 20
	DefaultMinTokenLength  = 3
	DefaultMaxTokens       = 2000
	DefaultTopK            = 6
	DefaultMaxFileSize     = 2 * 1024 * 1024
	DefaultCacheEntries    = 256
	DefaultContextChars    = 8000
)

// Scorer backends selectable via search.scorer.
const (
	ScorerLexical   = "lexical"
	ScorerEmbedding = "embedding"
)

// Config represents the complete kbindex configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Corpus     CorpusConfig     `yaml:"corpus" json:"corpus"`
	Chunking   ChunkingConfig   `yaml:"chunking" json:"chunking"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer" json:"tokenizer"`
	Index      IndexConfig      `yaml:"index" json:"index"`
	Cache      CacheConfig      `yaml:"cache" json:"cache"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// CorpusConfig configures corpus discovery.
type CorpusConfig struct {
	// Extensions is the allow-list of file extensions to ingest.
	Extensions []string `yaml:"extensions" json:"extensions"`
	// Exclude lists file names that are never ingested (e.g. .env).
	Exclude []string `yaml:"exclude" json:"exclude"`
	// MaxFileSize is the per-file size cap in bytes.
	MaxFileSize int64 `yaml:"max_file_size" json:"max_file_size"`
}

// ChunkingConfig configures the chunker.
type ChunkingConfig struct {
	// MinSectionChars is the minimum length for a header-split segment
	// to become its own chunk.
	MinSectionChars int `yaml:"min_section_chars" json:"min_section_chars"`
	// MaxChunkChars truncates chunk text after chunking.
	MaxChunkChars int `yaml:"max_chunk_chars" json:"max_chunk_chars"`
	// MaxKeywords bounds the per-chunk keyword list.
	MaxKeywords int `yaml:"max_keywords" json:"max_keywords"`
}

// TokenizerConfig configures tokenization for both build and query.
type TokenizerConfig struct {
	// MinTokenLength is the minimum token length; must be >= 3.
	MinTokenLength int `yaml:"min_token_length" json:"min_token_length"`
	// MaxTokens caps tokens taken from a single text blob.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`
}

// IndexConfig configures snapshot persistence.
type IndexConfig struct {
	// Dir is the directory holding the snapshot artifact and build lock.
	Dir string `yaml:"dir" json:"dir"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	// Dir is the directory holding persisted result entries.
	Dir string `yaml:"dir" json:"dir"`
	// MemoryEntries is the size of the in-memory LRU front.
	MemoryEntries int `yaml:"memory_entries" json:"memory_entries"`
}

// SearchConfig configures query resolution.
type SearchConfig struct {
	// TopK is the default result bound.
	TopK int `yaml:"top_k" json:"top_k"`
	// Scorer selects the ranking backend: "lexical" or "embedding".
	Scorer string `yaml:"scorer" json:"scorer"`
	// ContextChars bounds assembled context strings.
	ContextChars int `yaml:"context_chars" json:"context_chars"`
}

// EmbeddingsConfig configures the optional embedding scorer.
type EmbeddingsConfig struct {
	// Provider selects the embedder: "ollama" or "static".
	Provider string `yaml:"provider" json:"provider"`
	// Host is the Ollama API endpoint.
	Host string `yaml:"host" json:"host"`
	// Model is the embedding model name.
	Model string `yaml:"model" json:"model"`
	// Dimensions is the embedding dimension (0 = auto-detect).
	Dimensions int `yaml:"dimensions" json:"dimensions"`
	// BatchSize is texts per embedding request.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	FilePath string `yaml:"file" json:"file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Corpus: CorpusConfig{
			Extensions:  []string{".md", ".markdown", ".txt", ".js", ".json"},
			Exclude:     []string{".env", ".env.example"},
			MaxFileSize: DefaultMaxFileSize,
		},
		Chunking: ChunkingConfig{
			MinSectionChars: DefaultMinSectionChars,
			MaxChunkChars:   DefaultMaxChunkChars,
			MaxKeywords:     DefaultMaxKeywords,
		},
		Tokenizer: TokenizerConfig{
			MinTokenLength: DefaultMinTokenLength,
			MaxTokens:      DefaultMaxTokens,
		},
		Index: IndexConfig{
			Dir: ".kbindex",
		},
		Cache: CacheConfig{
			Dir:           ".kbindex/cache",
			MemoryEntries: DefaultCacheEntries,
		},
		Search: SearchConfig{
			TopK:         DefaultTopK,
			Scorer:       ScorerLexical,
			ContextChars: DefaultContextChars,
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "ollama",
			Host:      "http://localhost:11434",
			Model:     "nomic-embed-text",
			BatchSize: 32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, applying defaults for absent fields.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, kberrors.New(kberrors.ErrCodeConfigNotFound,
			fmt.Sprintf("cannot read config %s", path), err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, kberrors.New(kberrors.ErrCodeConfigInvalid,
			fmt.Sprintf("cannot parse config %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Tokenizer.MinTokenLength < 3 {
		return kberrors.New(kberrors.ErrCodeConfigInvalid,
			fmt.Sprintf("tokenizer.min_token_length must be >= 3, got %d", c.Tokenizer.MinTokenLength), nil)
	}
	if c.Tokenizer.MaxTokens <= 0 {
		return kberrors.New(kberrors.ErrCodeConfigInvalid,
			"tokenizer.max_tokens must be positive", nil)
	}
	if c.Chunking.MaxChunkChars <= 0 {
		return kberrors.New(kberrors.ErrCodeConfigInvalid,
			"chunking.max_chunk_chars must be positive", nil)
	}
	if c.Chunking.MinSectionChars < 0 {
		return kberrors.New(kberrors.ErrCodeConfigInvalid,
			"chunking.min_section_chars must not be negative", nil)
	}
	if c.Search.TopK < 1 {
		return kberrors.New(kberrors.ErrCodeConfigInvalid,
			fmt.Sprintf("search.top_k must be >= 1, got %d", c.Search.TopK), nil)
	}
	switch c.Search.Scorer {
	case ScorerLexical, ScorerEmbedding:
	default:
		return kberrors.New(kberrors.ErrCodeConfigInvalid,
			fmt.Sprintf("search.scorer must be %q or %q, got %q", ScorerLexical, ScorerEmbedding, c.Search.Scorer), nil)
	}
	if c.Corpus.MaxFileSize <= 0 {
		return kberrors.New(kberrors.ErrCodeConfigInvalid,
			"corpus.max_file_size must be positive", nil)
	}
	return nil
}

// Save writes the configuration as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return kberrors.New(kberrors.ErrCodeConfigInvalid, "cannot marshal config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return kberrors.New(kberrors.ErrCodeConfigInvalid,
			fmt.Sprintf("cannot write config %s", path), err)
	}
	return nil
}
