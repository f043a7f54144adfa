// Package main is the entry point for the fetiched ingestion daemon.
package main

import (
	"fmt"
	"os"

	"github.com/fetiche/engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
