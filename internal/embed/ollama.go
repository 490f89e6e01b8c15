package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	kberrors "github.com/promptops/kbindex/internal/errors"
)

// Ollama defaults.
const (
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "nomic-embed-text"
	DefaultBatchSize   = 32
	defaultHTTPTimeout = 120 * time.Second
)

// OllamaConfig configures the Ollama embedder.
type OllamaConfig struct {
	Host       string
	Model      string
	Dimensions int
	BatchSize  int
	Timeout    time.Duration
}

// OllamaEmbedder generates embeddings through Ollama's HTTP API.
type OllamaEmbedder struct {
	client *http.Client
	cfg    OllamaConfig
	dims   int
}

var _ Embedder = (*OllamaEmbedder)(nil)

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewOllamaEmbedder creates the embedder and probes the backend once
// to detect dimensions when the config leaves them at zero. A backend
// that cannot be reached yields ErrCodeEmbedUnavailable.
func NewOllamaEmbedder(ctx context.Context, cfg OllamaConfig) (*OllamaEmbedder, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultOllamaHost
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}

	e := &OllamaEmbedder{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		dims:   cfg.Dimensions,
	}

	if e.dims == 0 {
		probe, err := e.embedBatch(ctx, []string{"dimension probe"})
		if err != nil {
			return nil, kberrors.New(kberrors.ErrCodeEmbedUnavailable,
				fmt.Sprintf("cannot reach Ollama at %s", cfg.Host), err)
		}
		if len(probe) == 0 || len(probe[0]) == 0 {
			return nil, kberrors.EmbedError("empty probe embedding", nil)
		}
		e.dims = len(probe[0])
	}
	return e, nil
}

// Embed embeds texts in batches of the configured size.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.cfg.BatchSize {
		end := start + e.cfg.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(vecs) != end-start {
			return nil, kberrors.EmbedError(
				fmt.Sprintf("expected %d embeddings, got %d", end-start, len(vecs)), nil)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *OllamaEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: e.cfg.Model, Input: texts})
	if err != nil {
		return nil, kberrors.EmbedError("cannot encode embed request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.cfg.Host+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, kberrors.EmbedError("cannot build embed request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, kberrors.New(kberrors.ErrCodeEmbedUnavailable, "embed request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, kberrors.EmbedError(
			fmt.Sprintf("embed request returned %d: %s", resp.StatusCode, msg), nil)
	}

	var parsed ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, kberrors.EmbedError("cannot decode embed response", err)
	}
	return parsed.Embeddings, nil
}

// Dimensions reports the embedding width.
func (e *OllamaEmbedder) Dimensions() int {
	return e.dims
}

// Close releases idle connections.
func (e *OllamaEmbedder) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
