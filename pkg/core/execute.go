package core

import (
	"path/filepath"

	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/arthur-debert/synctree/pkg/handlers"
	"github.com/arthur-debert/synctree/pkg/logging"
	"github.com/arthur-debert/synctree/pkg/record"
	"github.com/arthur-debert/synctree/pkg/registry"
	"github.com/arthur-debert/synctree/pkg/types"

	// Register the per-kind handlers
	_ "github.com/arthur-debert/synctree/pkg/handlers/kinds"
)

// CommandType represents the sync command being executed
type CommandType string

const (
	// CommandImport reads record files into the store
	CommandImport CommandType = "import"
	// CommandExport writes the store out as record files
	CommandExport CommandType = "export"
	// CommandClean prunes empty containers
	CommandClean CommandType = "clean"
)

// ExecuteOptions contains options for one sync run
type ExecuteOptions struct {
	Root       string
	Kinds      []types.EntityKind
	Mode       types.LayoutMode
	Extension  string
	Force      bool
	Clean      bool
	DryRun     bool
	FileSystem types.FS
	Store      datastore.EntityStore
}

// KindResult holds what happened to one kind.
type KindResult struct {
	Kind     types.EntityKind
	Folder   string
	Skipped  bool
	Reason   string
	Outcomes []types.Outcome
}

// Result is the report of one run.
type Result struct {
	Command   CommandType
	Root      string
	Mode      types.LayoutMode
	DryRun    bool
	Kinds     []KindResult
	ImportMap types.ImportMap
}

// Outcomes returns every outcome of the run in processing order.
func (r *Result) Outcomes() []types.Outcome {
	var all []types.Outcome
	for _, k := range r.Kinds {
		all = append(all, k.Outcomes...)
	}
	return all
}

// Summary tallies the run's outcomes.
func (r *Result) Summary() types.Summary {
	return types.Summarize(r.Outcomes())
}

// OptionsFromConfig fills the defaults of a run from cfg.
func OptionsFromConfig(cfg *config.Config, root string) (ExecuteOptions, error) {
	kinds, err := cfg.EntityKinds()
	if err != nil {
		return ExecuteOptions{}, errors.Wrap(err, errors.ErrConfigParse, "invalid import.kinds")
	}
	return ExecuteOptions{
		Root:      root,
		Kinds:     kinds,
		Mode:      cfg.Layout.Mode(),
		Extension: cfg.Import.Extension,
		Force:     cfg.Import.Force,
		Clean:     cfg.Import.Clean,
	}, nil
}

// Execute runs commandType for every kind in opts.
func Execute(commandType CommandType, opts ExecuteOptions) (*Result, error) {
	logger := logging.GetLogger("core.execute")
	defer logging.LogOperationStart(logger.With().
		Str("root", opts.Root).
		Str("layout", opts.Mode.String()).
		Bool("dryRun", opts.DryRun).
		Logger(), string(commandType))()

	if opts.Root == "" {
		return nil, errors.New(errors.ErrInvalidInput, "sync root is required")
	}
	if opts.Store == nil {
		return nil, errors.New(errors.ErrInvalidInput, "an entity store is required")
	}
	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}
	if opts.Extension == "" {
		opts.Extension = record.Extension
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = types.AllKinds()
	}

	// Settings are always read from the real tree; a dry-run export only
	// redirects writes.
	readFiles := filesystem.NewFileService(opts.FileSystem)
	if !readFiles.Exists(opts.Root) {
		return nil, errors.Newf(errors.ErrNotFound, "sync root %s does not exist", opts.Root)
	}
	files := readFiles
	if opts.DryRun && commandType == CommandExport {
		files = filesystem.NewFileService(filesystem.NewMemory())
	}

	result := &Result{
		Command:   commandType,
		Root:      opts.Root,
		Mode:      opts.Mode,
		DryRun:    opts.DryRun,
		ImportMap: types.ImportMap{},
	}

	for _, kind := range opts.Kinds {
		kr := runKind(commandType, kind, opts, readFiles, files, result.ImportMap)
		result.Kinds = append(result.Kinds, kr)
	}

	summary := result.Summary()
	logger.Info().
		Int("outcomes", summary.Total).
		Int("failed", summary.Failed).
		Msg("Sync finished")
	return result, nil
}

func runKind(commandType CommandType, kind types.EntityKind, opts ExecuteOptions, readFiles, files *filesystem.FileService, importMap types.ImportMap) KindResult {
	logger := logging.GetLogger("core.execute").With().Str("kind", string(kind)).Logger()
	folder := filepath.Join(opts.Root, string(kind))
	kr := KindResult{Kind: kind, Folder: folder}

	skip := func(reason string) KindResult {
		logger.Info().Str("reason", reason).Msg("Skipping kind")
		kr.Skipped = true
		kr.Reason = reason
		return kr
	}

	if commandType == CommandImport && !readFiles.Exists(folder) {
		return skip("no folder")
	}

	settings, err := config.LoadHandlerSettings(opts.FileSystem, folder)
	if err != nil {
		kr.Outcomes = []types.Outcome{{Name: filepath.Join(folder, config.HandlerConfigFile), Kind: kind, Change: types.ChangeFail, Message: err.Error(), Error: err}}
		return kr
	}
	if !settings.Enabled {
		return skip("disabled")
	}

	h, err := registry.NewHandler(kind, handlers.Options{
		Files:     files,
		Store:     opts.Store,
		Mode:      opts.Mode,
		Extension: opts.Extension,
	})
	if err != nil {
		return skip(err.Error())
	}

	switch commandType {
	case CommandImport:
		kr.Outcomes = h.ImportFolder(folder, settings, importMap, opts.Force)
		if opts.Clean {
			kr.Outcomes = append(kr.Outcomes, h.ProcessPostImport(folder, kr.Outcomes, settings)...)
		}
	case CommandExport:
		kr.Outcomes = h.Export(folder, settings)
	case CommandClean:
		kr.Outcomes = h.CleanFolders(folder, types.RootID)
	}

	logger.Debug().Int("outcomes", len(kr.Outcomes)).Msg("Kind finished")
	return kr
}
