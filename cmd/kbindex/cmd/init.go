package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptops/kbindex/configs"
	kberrors "github.com/promptops/kbindex/internal/errors"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter kbindex.yaml in the current directory",
		Long: `Init writes the annotated configuration template as kbindex.yaml.
An existing file is preserved unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(cmd.OutOrStdout(),
						"%s already exists, use --force to overwrite\n", path)
					return nil
				}
			}
			if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
				return kberrors.New(kberrors.ErrCodeConfigInvalid,
					"writing config template", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
