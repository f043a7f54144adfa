package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/redis/go-redis/v9"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/storage"
)

const engineVersion = 2

// engineFile is the root of engine.hcl: `version = 2`, a base directory,
// and one `storage` block per named storage area.
type engineFile struct {
	Version int            `hcl:"version,attr"`
	BaseDir string         `hcl:"basedir"`
	Storage []storageBlock `hcl:"storage,block"`
}

type storageBlock struct {
	Name      string          `hcl:"name,label"`
	Directory *directoryBlock `hcl:"directory,block"`
	Cache     *cacheBlock     `hcl:"cache,block"`
	Hive      *hiveBlock      `hcl:"hive,block"`
}

type directoryBlock struct {
	Path     string `hcl:"path"`
	Rotation string `hcl:"rotation"`
}

type cacheBlock struct {
	URL string `hcl:"url"`
	TTL string `hcl:"ttl,optional"`
}

type hiveBlock struct {
	Path string `hcl:"path"`
}

// Engine is the result of loading engine.hcl: the resolved base directory
// and a populated storage.Registry, ready to hand to a job.Dependencies.
type Engine struct {
	BaseDir string
	Storage *storage.Registry
}

// LoadEngine parses engine.hcl and instantiates one storage.Area per
// `storage` block. Returns core.ErrBadConfigVersion if the file's declared
// version isn't 2.
func LoadEngine(path string) (*Engine, error) {
	var f engineFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, fmt.Errorf("config: load %q: %w", path, err)
	}
	if f.Version != engineVersion {
		return nil, fmt.Errorf("%s: version %d: %w", path, f.Version, core.ErrBadConfigVersion)
	}

	reg := storage.NewRegistry()
	for _, b := range f.Storage {
		area, err := buildArea(b)
		if err != nil {
			return nil, fmt.Errorf("%s: storage %q: %w", path, b.Name, err)
		}
		reg.Register(b.Name, area)
	}
	return &Engine{BaseDir: f.BaseDir, Storage: reg}, nil
}

func buildArea(b storageBlock) (storage.Area, error) {
	switch {
	case b.Directory != nil:
		rotation, err := core.ParseRotation(b.Directory.Rotation)
		if err != nil {
			return nil, err
		}
		return storage.NewDirectoryArea(b.Directory.Path, rotation)

	case b.Cache != nil:
		opts, err := redis.ParseURL(b.Cache.URL)
		if err != nil {
			return nil, fmt.Errorf("cache url: %w", err)
		}
		var ttl time.Duration
		if b.Cache.TTL != "" {
			ttl, err = core.ParseRotation(b.Cache.TTL)
			if err != nil {
				return nil, err
			}
		}
		return storage.NewCacheArea(redis.NewClient(opts), ttl), nil

	case b.Hive != nil:
		return storage.NewHiveArea(b.Hive.Path)

	default:
		return nil, fmt.Errorf("no directory/cache/hive block declared")
	}
}
