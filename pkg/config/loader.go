package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. SYNCTREE_LAYOUT_FLAT.
const EnvPrefix = "SYNCTREE_"

// RootConfigNames are looked up, in order, in the sync root.
var RootConfigNames = []string{"synctree.toml", ".synctree.toml"}

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// Root is the sync root searched for a root config file.
	Root string
	// File, when set, replaces the root config lookup.
	File string
	// Overrides are dotted keys applied last, typically from flags.
	Overrides map[string]interface{}
	// FS, when set, is read for the root config instead of the OS
	// filesystem.
	FS types.FS
}

// Default returns the embedded defaults only.
func Default() *Config {
	cfg, err := Load(LoadOptions{})
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load merges defaults, the root config file, environment and overrides.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load root config if it exists
	path, err := rootConfigPath(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		provider, err := configProvider(opts.FS, path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(provider, toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
	}

	// 3. Load env vars
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Apply overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configProvider reads path from fsys, or from disk when fsys is nil.
func configProvider(fsys types.FS, path string) (koanf.Provider, error) {
	if fsys == nil {
		return file.Provider(path), nil
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config from %s", path)
	}
	return &rawBytesProvider{bytes: data}, nil
}

func rootConfigPath(opts LoadOptions) (string, error) {
	stat := os.Stat
	if opts.FS != nil {
		stat = opts.FS.Stat
	}

	if opts.File != "" {
		if _, err := stat(opts.File); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", opts.File)
		}
		return opts.File, nil
	}
	if opts.Root == "" {
		return "", nil
	}
	for _, name := range RootConfigNames {
		path := filepath.Join(opts.Root, name)
		if _, err := stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.Import.Extension, ".") {
		return errors.Newf(errors.ErrConfigParse, "import.extension must start with '.', got %q", cfg.Import.Extension)
	}
	// Record files are listed with the glob "*"+extension.
	if _, err := filepath.Match("*"+cfg.Import.Extension, ""); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "import.extension %q is not a valid file pattern", cfg.Import.Extension)
	}
	switch cfg.Store.Backend {
	case "memory", "yaml", "mongo":
	default:
		return errors.Newf(errors.ErrConfigParse, "unknown store.backend %q", cfg.Store.Backend)
	}
	if _, err := cfg.EntityKinds(); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "invalid import.kinds")
	}
	return nil
}
