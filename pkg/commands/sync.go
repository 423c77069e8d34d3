package commands

import (
	"path/filepath"

	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/core"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/arthur-debert/synctree/pkg/logging"
	"github.com/arthur-debert/synctree/pkg/types"
)

// SyncOptions are the inputs of import, export and clean.
type SyncOptions struct {
	Root       string
	ConfigFile string

	// Overrides are dotted config keys set from flags, e.g. "layout.flat".
	Overrides map[string]interface{}

	// Kinds restricts the run; empty means import.kinds from config.
	Kinds  []string
	DryRun bool

	// FileSystem defaults to the OS filesystem.
	FileSystem types.FS
}

// Sync runs command over opts.Root and returns the run's result.
func Sync(command core.CommandType, opts SyncOptions) (*core.Result, error) {
	logger := logging.GetLogger("commands.sync")

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid sync root %s", opts.Root)
	}

	overrides := make(map[string]interface{}, len(opts.Overrides)+1)
	for k, v := range opts.Overrides {
		overrides[k] = v
	}
	if len(opts.Kinds) > 0 {
		overrides["import.kinds"] = opts.Kinds
	}

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	cfg, err := config.Load(config.LoadOptions{Root: root, File: opts.ConfigFile, Overrides: overrides, FS: fsys})
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("root", root).
		Bool("flat", cfg.Layout.Flat).
		Str("backend", cfg.Store.Backend).
		Strs("kinds", cfg.Import.Kinds).
		Msg("Configuration loaded")

	execOpts, err := core.OptionsFromConfig(cfg, root)
	if err != nil {
		return nil, err
	}
	execOpts.FileSystem = fsys
	execOpts.DryRun = opts.DryRun

	// Import and clean mutate the store; a dry run must not persist it.
	store, err := core.OpenStore(cfg.Store, fsys, root, !opts.DryRun)
	if err != nil {
		return nil, err
	}
	execOpts.Store = store

	result, runErr := core.Execute(command, execOpts)
	if closeErr := store.Close(); closeErr != nil {
		if runErr == nil {
			return result, closeErr
		}
		logger.Error().Err(closeErr).Msg("Failed to close store")
	}
	return result, runErr
}
