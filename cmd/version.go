package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fetiche/engine/internal/engine"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engine version and every decodable source format",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engine.Bootstrap(configDir)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		versions := e.Versions()
		names := make([]string, 0, len(versions))
		for name := range versions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, versions[name])
		}
		return nil
	},
}
