package config

import (
	"path/filepath"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/logging"
	"github.com/arthur-debert/synctree/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

var log = logging.GetLogger("config")

// HandlerConfigFile is the per-folder settings file name.
const HandlerConfigFile = ".synctree.toml"

// HandlerSettings are the options a handler reads for one kind folder.
type HandlerSettings struct {
	Enabled  bool              `toml:"enabled"`
	Ignore   []IgnoreRule      `toml:"ignore"`
	Settings map[string]string `toml:"settings"`
}

// IgnoreRule defines a file or pattern to be ignored
type IgnoreRule struct {
	Path string `toml:"path"`
}

// DefaultHandlerSettings enables the handler with no rules.
func DefaultHandlerSettings() HandlerSettings {
	return HandlerSettings{Enabled: true, Settings: map[string]string{}}
}

// IsIgnored checks if a given file name should be ignored.
// It matches the base name against the list of ignore rules.
func (h HandlerSettings) IsIgnored(filename string) bool {
	base := filepath.Base(filename)
	for _, rule := range h.Ignore {
		if matched, _ := filepath.Match(rule.Path, base); matched {
			return true
		}
	}
	return false
}

// Get returns a handler setting or def.
func (h HandlerSettings) Get(key, def string) string {
	if v, ok := h.Settings[key]; ok {
		return v
	}
	return def
}

// LoadHandlerSettings reads folder/.synctree.toml if present.
func LoadHandlerSettings(fsys types.FS, folder string) (HandlerSettings, error) {
	settings := DefaultHandlerSettings()
	path := filepath.Join(folder, HandlerConfigFile)

	if _, err := fsys.Stat(path); err != nil {
		return settings, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return settings, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path)
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
	}
	if settings.Settings == nil {
		settings.Settings = map[string]string{}
	}

	log.Debug().
		Str("path", path).
		Bool("enabled", settings.Enabled).
		Int("ignoreRules", len(settings.Ignore)).
		Msg("Loaded handler settings")
	return settings, nil
}
