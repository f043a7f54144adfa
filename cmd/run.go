package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/engine"
)

// jobFile is the run command's declarative job shape: a name plus an
// ordered task list, the JSON mirror of core.TaskSpec.
type jobFile struct {
	Name  string          `json:"name"`
	Tasks []core.TaskSpec `json:"tasks"`
}

var runCmd = &cobra.Command{
	Use:   "run <job.json>",
	Short: "Run a job definition to completion",
	Long: `Run loads a job definition (a name plus an ordered task list) from the
given JSON file, submits it to the engine, and prints the resulting
per-job statistics once every task has finished.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(cmd.Context(), configDir, args[0], cmd.OutOrStdout())
	},
}

func runJob(ctx context.Context, configDir, jobPath string, out io.Writer) error {
	e, err := engine.Bootstrap(configDir)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	data, err := os.ReadFile(jobPath)
	if err != nil {
		return fmt.Errorf("read job file: %w", err)
	}
	var jf jobFile
	if err := json.Unmarshal(data, &jf); err != nil {
		return fmt.Errorf("parse job file: %w", err)
	}

	j := e.CreateJob(jf.Name)
	for _, spec := range jf.Tasks {
		if err := j.Add(spec); err != nil {
			return fmt.Errorf("add task %q: %w", spec.Kind, err)
		}
	}

	stats, runErr := e.Submit(ctx, j)
	fmt.Fprintf(out, "job %d (%s): pkts=%d bytes=%d err=%d empty=%d state=%s\n",
		j.ID(), jf.Name, stats.Pkts, stats.Bytes, stats.Err, stats.Empty, j.State())
	return runErr
}
