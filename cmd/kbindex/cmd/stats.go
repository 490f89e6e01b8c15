package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/promptops/kbindex/internal/index"
	"github.com/promptops/kbindex/internal/output"
	"github.com/promptops/kbindex/internal/telemetry"
)

func newStatsCmd() *cobra.Command {
	var topTerms int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index and query usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			snap, err := index.LoadOrEmpty(cfg.Index.Dir)
			if err != nil {
				return err
			}

			r := output.NewRenderer(cmd.OutOrStdout())
			if snap.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no index built yet")
			} else {
				r.BuildSummary(snap.Stats.Files, snap.Stats.Chunks, snap.Stats.Terms)
				r.KindCounts(snap.KindCounts())
			}

			store, err := telemetry.Open(telemetryPath(cfg))
			if err != nil {
				slog.Warn("telemetry unavailable", "error", err)
				return nil
			}
			defer store.Close()

			sum, err := store.Summarize()
			if err != nil {
				return err
			}
			terms, err := store.TopTerms(topTerms)
			if err != nil {
				return err
			}
			r.UsageSummary(sum, terms)
			return nil
		},
	}

	cmd.Flags().IntVar(&topTerms, "top-terms", 10, "How many top query terms to show")
	return cmd
}
