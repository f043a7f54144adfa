package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/fetiche/engine/internal/core"
)

const databasesVersion = 1

// databasesFile is the root of databases.hcl: `version = 1` plus one `db`
// block per catalogued backing store. Unlike sources.hcl and engine.hcl,
// these blocks are descriptive only — nothing in internal/job or
// internal/engine opens a connection from them; they exist so
// Engine.ListDatabases can report what a deployment's sinks are backed by.
type databasesFile struct {
	Version int       `hcl:"version,attr"`
	DBs     []dbBlock `hcl:"db,block"`
}

type dbBlock struct {
	Name        string `hcl:"name,label"`
	Type        string `hcl:"type"`
	URL         string `hcl:"url"`
	Description string `hcl:"description,optional"`
}

// Database is one catalogued backing store entry from databases.hcl.
type Database struct {
	Name        string
	Type        string
	URL         string
	Description string
}

// LoadDatabases parses databases.hcl into a list of Database entries.
// Returns core.ErrBadConfigVersion if the file's declared version isn't 1.
func LoadDatabases(path string) ([]Database, error) {
	var f databasesFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, fmt.Errorf("config: load %q: %w", path, err)
	}
	if f.Version != databasesVersion {
		return nil, fmt.Errorf("%s: version %d: %w", path, f.Version, core.ErrBadConfigVersion)
	}

	dbs := make([]Database, 0, len(f.DBs))
	for _, b := range f.DBs {
		dbs = append(dbs, Database{
			Name:        b.Name,
			Type:        b.Type,
			URL:         b.URL,
			Description: b.Description,
		})
	}
	return dbs, nil
}
