package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptops/kbindex/internal/cache"
	"github.com/promptops/kbindex/internal/config"
	"github.com/promptops/kbindex/internal/embed"
	"github.com/promptops/kbindex/internal/index"
	"github.com/promptops/kbindex/internal/output"
	"github.com/promptops/kbindex/internal/search"
	"github.com/promptops/kbindex/internal/telemetry"
)

func newQueryCmd() *cobra.Command {
	var (
		topK         int
		asJSON       bool
		asContext    bool
		contextChars int
		noCache      bool
		scorerName   string
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Rank corpus chunks against a query",
		Long: `Query tokenizes the input, scores every overlapping chunk by
weighted cosine similarity, and prints the top results. Results are
cached per (query, top-k) pair; identical queries are served from the
cache without rescoring.

Querying before any build behaves as an empty corpus and returns no
results.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			snap, err := index.LoadOrEmpty(cfg.Index.Dir)
			if err != nil {
				return err
			}

			tok := index.MustTokenizer(cfg.Tokenizer.MinTokenLength, cfg.Tokenizer.MaxTokens)

			if scorerName == "" {
				scorerName = cfg.Search.Scorer
			}
			scorer, err := buildScorer(cmd.Context(), scorerName, cfg, snap, tok)
			if err != nil {
				return err
			}

			engine := search.NewEngine(scorer, search.WithDefaultTopK(cfg.Search.TopK))

			var searcher cache.Searcher = engine
			var resultCache *cache.Cache
			if !noCache {
				resultCache, err = cache.New(engine, cfg.Cache.Dir,
					cache.WithMemoryEntries(cfg.Cache.MemoryEntries))
				if err != nil {
					return err
				}
				searcher = resultCache
			}

			start := time.Now()
			hits, err := searcher.Search(cmd.Context(), query, topK)
			if err != nil {
				return err
			}

			cached := false
			if resultCache != nil {
				cacheHits, _ := resultCache.Stats()
				cached = cacheHits > 0
			}
			recordTelemetry(cfg, telemetry.QueryEvent{
				Query:    query,
				Terms:    tok.Tokenize(query),
				Hits:     len(hits),
				Cached:   cached,
				Duration: time.Since(start),
			})

			switch {
			case asJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(hits)
			case asContext:
				if contextChars <= 0 {
					contextChars = cfg.Search.ContextChars
				}
				fmt.Fprintln(cmd.OutOrStdout(), search.BuildContext(hits, contextChars))
				return nil
			default:
				output.NewRenderer(cmd.OutOrStdout()).Hits(hits)
				return nil
			}
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 0, "Result bound (0 = config default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&asContext, "context", false, "Print assembled prompt context instead of a result list")
	cmd.Flags().IntVar(&contextChars, "context-chars", 0, "Context budget in characters (0 = config default)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the result cache")
	cmd.Flags().StringVar(&scorerName, "scorer", "", "Scoring backend: lexical or embedding (default from config)")
	return cmd
}

// buildScorer wires the configured ranking backend over the snapshot.
func buildScorer(ctx context.Context, name string, cfg *config.Config,
	snap *index.Snapshot, tok *index.Tokenizer) (search.Scorer, error) {
	switch name {
	case config.ScorerLexical:
		return search.NewLexicalScorer(snap, tok), nil
	case config.ScorerEmbedding:
		embedder, err := buildEmbedder(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return search.NewDenseScorer(ctx, snap, embedder)
	default:
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
}

func buildEmbedder(ctx context.Context, cfg *config.Config) (embed.Embedder, error) {
	switch cfg.Embeddings.Provider {
	case "static":
		return embed.NewStaticEmbedder(cfg.Embeddings.Dimensions), nil
	case "ollama", "":
		return embed.NewOllamaEmbedder(ctx, embed.OllamaConfig{
			Host:       cfg.Embeddings.Host,
			Model:      cfg.Embeddings.Model,
			Dimensions: cfg.Embeddings.Dimensions,
			BatchSize:  cfg.Embeddings.BatchSize,
		})
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Embeddings.Provider)
	}
}

// recordTelemetry stores usage stats next to the index. Telemetry
// failures never fail the query.
func recordTelemetry(cfg *config.Config, ev telemetry.QueryEvent) {
	store, err := telemetry.Open(telemetryPath(cfg))
	if err != nil {
		slog.Warn("telemetry unavailable", "error", err)
		return
	}
	defer store.Close()
	if err := store.Record(ev); err != nil {
		slog.Warn("telemetry record failed", "error", err)
	}
}

func telemetryPath(cfg *config.Config) string {
	return filepath.Join(cfg.Index.Dir, "telemetry.db")
}
