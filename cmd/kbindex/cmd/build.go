package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/promptops/kbindex/internal/cache"
	"github.com/promptops/kbindex/internal/chunk"
	"github.com/promptops/kbindex/internal/corpus"
	"github.com/promptops/kbindex/internal/index"
	"github.com/promptops/kbindex/internal/output"
)

func newBuildCmd() *cobra.Command {
	var corpusDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the index from the corpus directory",
		Long: `Build scans the corpus, chunks every eligible file, computes
TF-IDF weights, and atomically replaces the index snapshot. The
result cache is cleared so stale results never outlive their
snapshot. Rebuilds are always full; there is no incremental path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			lock, err := index.AcquireBuildLock(cfg.Index.Dir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					slog.Warn("releasing build lock", "error", err)
				}
			}()

			builder := index.NewBuilder(
				index.WithScanOptions(corpus.ScanOptions{
					Extensions:  cfg.Corpus.Extensions,
					Exclude:     cfg.Corpus.Exclude,
					MaxFileSize: cfg.Corpus.MaxFileSize,
				}),
				index.WithChunkOptions(chunk.Options{
					MinSectionChars: cfg.Chunking.MinSectionChars,
					MaxChunkChars:   cfg.Chunking.MaxChunkChars,
					MaxKeywords:     cfg.Chunking.MaxKeywords,
				}),
				index.WithTokenizer(index.MustTokenizer(
					cfg.Tokenizer.MinTokenLength, cfg.Tokenizer.MaxTokens)),
			)

			snap, err := builder.Build(cmd.Context(), corpusDir)
			if err != nil {
				return err
			}
			if err := index.Save(snap, cfg.Index.Dir); err != nil {
				return err
			}

			if err := clearResultCache(cfg.Cache.Dir); err != nil {
				return err
			}

			r := output.NewRenderer(cmd.OutOrStdout())
			r.BuildSummary(snap.Stats.Files, snap.Stats.Chunks, snap.Stats.Terms)
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusDir, "corpus", ".", "Corpus root directory")
	return cmd
}

// clearResultCache drops persisted query results after a rebuild.
func clearResultCache(dir string) error {
	c, err := cache.New(nil, dir)
	if err != nil {
		return err
	}
	return c.Clear()
}
