// Package cmd implements CLI commands using the cobra framework. It is a
// thin wrapper over internal/engine's facade — not part of SPEC_FULL.md's
// deliverable scope, but kept so the facade has one realistic caller
// besides its own tests, mirroring the teacher's cmd/root.go structure.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fetiche/engine/internal/log"
)

var (
	configDir string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "fetiched",
	Short: "fetiched ingests drone/aircraft surveillance feeds into configured sinks",
	Long: `fetiched loads sources.hcl, engine.hcl, and databases.hcl from a config
directory and runs job definitions against them: fetching or streaming from
configured sites, decoding vendor formats into canonical Cat-21 or
DronePoint records, and writing them to directory, cache, or hive storage
areas.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(log.Config{Level: logLevel, Format: logFormat})
	},
}

// Execute adds all child commands to rootCmd and runs it. Called once by
// main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "/etc/fetiche",
		"directory containing sources.hcl, engine.hcl, and databases.hcl")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "json or text")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(versionCmd)
}
