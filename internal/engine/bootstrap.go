package engine

import (
	"fmt"
	"path/filepath"

	"github.com/fetiche/engine/internal/config"
	"github.com/fetiche/engine/internal/sites"
	"github.com/fetiche/engine/internal/token"
)

// Bootstrap loads the three versioned HCL files spec.md §6 names from dir
// (sources.hcl, engine.hcl, databases.hcl), registers the built-in site
// adapters, and returns a ready-to-use Engine. Grounded on
// internal/otus/otus.go's AppContext.BuildComponents/StartComponents pair,
// both empty stubs in the teacher; this is their concrete implementation
// for this domain.
func Bootstrap(dir string) (*Engine, error) {
	sourcesPath := filepath.Join(dir, "sources.hcl")
	enginePath := filepath.Join(dir, "engine.hcl")
	databasesPath := filepath.Join(dir, "databases.hcl")

	sitesByName, err := config.LoadSources(sourcesPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	loadedEngine, err := config.LoadEngine(enginePath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	databases, err := config.LoadDatabases(databasesPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	tokens, err := token.New(filepath.Join(loadedEngine.BaseDir, "tokens"))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	siteReg := sites.NewRegistry()
	sites.RegisterBuiltins(siteReg, tokens)

	return New(Config{
		BaseDir:   loadedEngine.BaseDir,
		Sites:     sitesByName,
		Databases: databases,
	}, siteReg, loadedEngine.Storage)
}
