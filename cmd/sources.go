package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fetiche/engine/internal/engine"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sites",
	Long:  "List every site name declared in sources.hcl under the config directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engine.Bootstrap(configDir)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		for _, name := range e.ListSources() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
