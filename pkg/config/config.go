package config

import (
	"time"

	"github.com/arthur-debert/synctree/pkg/layout"
	"github.com/arthur-debert/synctree/pkg/types"
)

// Config is the merged configuration of one synctree run.
type Config struct {
	Layout  Layout        `koanf:"layout"`
	Import  Import        `koanf:"import"`
	Store   Store         `koanf:"store"`
	Logging LoggingConfig `koanf:"logging"`
}

// Layout holds the on-disk layout settings
type Layout struct {
	Flat bool `koanf:"flat"`
}

// Mode returns the layout mode selected by Flat.
func (l Layout) Mode() types.LayoutMode {
	return layout.FromFlag(l.Flat)
}

// Import holds import behaviour settings
type Import struct {
	Extension string   `koanf:"extension"`
	Force     bool     `koanf:"force"`
	Clean     bool     `koanf:"clean"`
	Kinds     []string `koanf:"kinds"`
}

// Store selects and configures the entity store backend
type Store struct {
	// Backend is one of "memory", "yaml" or "mongo"
	Backend  string        `koanf:"backend"`
	Path     string        `koanf:"path"`
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Verbosity int `koanf:"verbosity"`
}

// EntityKinds parses Import.Kinds.
func (c *Config) EntityKinds() ([]types.EntityKind, error) {
	kinds := make([]types.EntityKind, 0, len(c.Import.Kinds))
	for _, k := range c.Import.Kinds {
		kind, err := types.ParseKind(k)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
