package handlers

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/arthur-debert/synctree/pkg/importer"
	"github.com/arthur-debert/synctree/pkg/layout"
	"github.com/arthur-debert/synctree/pkg/logging"
	"github.com/arthur-debert/synctree/pkg/record"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/rs/zerolog"
)

// EmptyContainerMessage is the Outcome message of a pruned container.
const EmptyContainerMessage = "Empty Container"

// Options configures a TreeHandler.
type Options struct {
	Kind        types.EntityKind
	Description string
	Files       *filesystem.FileService
	Store       datastore.EntityStore
	Mode        types.LayoutMode

	// Extension of record files, including the dot. Defaults to
	// record.Extension.
	Extension string

	// Importer imports single records. Defaults to an importer.RecordImporter
	// over Files and Store.
	Importer importer.ItemImporter

	// DeleteContainer removes a container. Defaults to Store.Delete.
	DeleteContainer ContainerDeleter
}

// TreeHandler is the Handler shared by every hierarchical entity kind.
type TreeHandler struct {
	kind        types.EntityKind
	description string
	files       *filesystem.FileService
	store       datastore.EntityStore
	mode        types.LayoutMode
	ext         string
	importer    importer.ItemImporter
	deleter     ContainerDeleter
	resolver    *layout.Resolver
	logger      zerolog.Logger
}

var _ Handler = (*TreeHandler)(nil)

// LeveledFile pairs a record file with the level read from it.
type LeveledFile struct {
	Level int
	File  string
}

// NewTreeHandler creates a handler from opts.
func NewTreeHandler(opts Options) (*TreeHandler, error) {
	if opts.Kind == "" {
		return nil, errors.New(errors.ErrInvalidInput, "handler kind is required")
	}
	if opts.Files == nil || opts.Store == nil {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s handler needs a file service and a store", opts.Kind)
	}

	h := &TreeHandler{
		kind:        opts.Kind,
		description: opts.Description,
		files:       opts.Files,
		store:       opts.Store,
		mode:        opts.Mode,
		ext:         opts.Extension,
		importer:    opts.Importer,
		deleter:     opts.DeleteContainer,
		resolver:    layout.NewResolver(opts.Mode, opts.Store),
		logger: logging.GetLogger("handlers.tree").With().
			Str("kind", string(opts.Kind)).
			Str("layout", opts.Mode.String()).
			Logger(),
	}
	if h.ext == "" {
		h.ext = record.Extension
	}
	if h.importer == nil {
		h.importer = importer.New(opts.Kind, opts.Files, opts.Store)
	}
	if h.deleter == nil {
		h.deleter = opts.Store.Delete
	}
	return h, nil
}

func (h *TreeHandler) Kind() types.EntityKind { return h.kind }

func (h *TreeHandler) Description() string { return h.description }

// Mode returns the layout the handler reads and writes.
func (h *TreeHandler) Mode() types.LayoutMode { return h.mode }

// ImportFolder imports folder and all of its subdirectories. Nested
// layouts trust directory order. Flat layouts sort each directory's
// records by level first; files whose level cannot be read are skipped
// without an Outcome.
func (h *TreeHandler) ImportFolder(folder string, settings config.HandlerSettings, importMap types.ImportMap, force bool) []types.Outcome {
	if h.mode == types.LayoutFlat {
		return h.importFlat(folder, settings, importMap, force)
	}
	return h.importNested(folder, settings, importMap, force)
}

func (h *TreeHandler) importNested(folder string, settings config.HandlerSettings, importMap types.ImportMap, force bool) []types.Outcome {
	files, err := h.listFiles(folder, settings)
	if err != nil {
		return []types.Outcome{h.folderFailure(folder, err)}
	}

	outcomes := make([]types.Outcome, 0, len(files))
	for _, file := range files {
		outcomes = append(outcomes, h.importOne(file, settings, importMap, force))
	}

	dirs, err := h.listDirectories(folder, settings)
	if err != nil {
		return append(outcomes, h.folderFailure(folder, err))
	}
	for _, dir := range dirs {
		outcomes = append(outcomes, h.importNested(dir, settings, importMap, force)...)
	}
	return outcomes
}

func (h *TreeHandler) importFlat(folder string, settings config.HandlerSettings, importMap types.ImportMap, force bool) []types.Outcome {
	files, err := h.listFiles(folder, settings)
	if err != nil {
		return []types.Outcome{h.folderFailure(folder, err)}
	}

	leveled := make([]LeveledFile, 0, len(files))
	for _, file := range files {
		level, err := record.LevelOf(h.files, file)
		if err != nil {
			h.logger.Trace().Err(err).Str("file", file).Msg("Skipping record without a readable level")
			continue
		}
		leveled = append(leveled, LeveledFile{Level: level, File: file})
	}
	SortByLevel(leveled)

	outcomes := make([]types.Outcome, 0, len(leveled))
	for _, lf := range leveled {
		outcomes = append(outcomes, h.importOne(lf.File, settings, importMap, force))
	}

	dirs, err := h.listDirectories(folder, settings)
	if err != nil {
		return append(outcomes, h.folderFailure(folder, err))
	}
	for _, dir := range dirs {
		outcomes = append(outcomes, h.importFlat(dir, settings, importMap, force)...)
	}
	return outcomes
}

// SortByLevel orders files by ascending level, keeping enumeration order
// among files of equal level.
func SortByLevel(files []LeveledFile) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Level < files[j].Level
	})
}

func (h *TreeHandler) importOne(file string, settings config.HandlerSettings, importMap types.ImportMap, force bool) types.Outcome {
	attempt := h.importer.Import(file, settings, force)
	if attempt.Success && attempt.Item != nil && importMap != nil {
		importMap[file] = attempt.Item
	}

	event := h.logger.Debug()
	if !attempt.Success {
		event = h.logger.Warn().Err(attempt.Error)
	}
	event.Str("file", file).Str("change", string(attempt.Change)).Msg("Imported file")

	return types.OutcomeFromAttempt(h.kind, file, attempt)
}

// folderFailure reports a directory that could not be read. Its subtree
// is skipped and the caller carries on with the folder's siblings.
func (h *TreeHandler) folderFailure(folder string, err error) types.Outcome {
	h.logger.Error().Err(err).Str("folder", folder).Msg("Cannot read folder")
	return types.Outcome{Name: folder, Kind: h.kind, Change: types.ChangeFail, Message: err.Error(), Error: err}
}

func (h *TreeHandler) listFiles(folder string, settings config.HandlerSettings) ([]string, error) {
	files, err := h.files.ListFiles(folder, "*"+h.ext)
	if err != nil {
		return nil, err
	}

	kept := files[:0]
	for _, file := range files {
		if settings.IsIgnored(file) {
			h.logger.Debug().Str("file", file).Msg("Ignoring file")
			continue
		}
		kept = append(kept, file)
	}
	return kept, nil
}

func (h *TreeHandler) listDirectories(folder string, settings config.HandlerSettings) ([]string, error) {
	dirs, err := h.files.ListDirectories(folder)
	if err != nil {
		return nil, err
	}

	kept := dirs[:0]
	for _, dir := range dirs {
		if settings.IsIgnored(dir) {
			h.logger.Debug().Str("dir", dir).Msg("Ignoring directory")
			continue
		}
		kept = append(kept, dir)
	}
	return kept, nil
}

// ProcessPostImport prunes empty containers after an import. An import
// that produced nothing leaves the store untouched.
func (h *TreeHandler) ProcessPostImport(folder string, prior []types.Outcome, settings config.HandlerSettings) []types.Outcome {
	if len(prior) == 0 {
		return nil
	}
	return h.CleanFolders(folder, types.RootID)
}

// CleanFolders deletes empty containers below parentID depth first, so a
// container emptied by pruning its own children is removed in the same
// call. A failed delete is reported and pruning continues.
func (h *TreeHandler) CleanFolders(folder string, parentID int) []types.Outcome {
	containers, err := h.store.GetChildren(parentID, datastore.OfKind(h.kind), datastore.ContainersOnly())
	if err != nil {
		h.logger.Error().Err(err).Int("parentId", parentID).Msg("Cannot list containers")
		return []types.Outcome{h.containerFailure(folder, nil, err)}
	}

	var outcomes []types.Outcome
	for _, container := range containers {
		outcomes = append(outcomes, h.CleanFolders(folder, container.ID)...)

		children, err := h.store.GetChildren(container.ID)
		if err != nil {
			outcomes = append(outcomes, h.containerFailure(container.Name, container, err))
			continue
		}
		if len(children) > 0 {
			continue
		}

		if err := h.DeleteContainer(container.ID); err != nil {
			h.logger.Warn().Err(err).Int("id", container.ID).Str("container", container.Name).Msg("Cannot delete empty container")
			outcomes = append(outcomes, h.containerFailure(container.Name, container, err))
			continue
		}

		h.logger.Info().Int("id", container.ID).Str("container", container.Name).Msg("Deleted empty container")
		outcomes = append(outcomes, types.Outcome{
			Name:      container.Name,
			Kind:      h.kind,
			Success:   true,
			Change:    types.ChangeDelete,
			Message:   EmptyContainerMessage,
			Container: true,
			Item:      container,
		})
	}
	return outcomes
}

func (h *TreeHandler) containerFailure(name string, container *types.Entity, err error) types.Outcome {
	return types.Outcome{
		Name:      name,
		Kind:      h.kind,
		Change:    types.ChangeFail,
		Message:   err.Error(),
		Container: true,
		Item:      container,
		Error:     err,
	}
}

// DeleteContainer removes a container with the kind's deleter.
func (h *TreeHandler) DeleteContainer(id int) error {
	if err := h.deleter(id); err != nil {
		return errors.Wrapf(err, errors.ErrDeleteContainer, "cannot delete %s container %d", h.kind, id)
	}
	return nil
}

// Export writes every non-container entity of the kind to its record file
// below folder. An entity whose path was already written in this run, as
// happens when sibling names sanitize to the same file name, fails with
// ErrAlreadyExists and the earlier file is kept.
func (h *TreeHandler) Export(folder string, settings config.HandlerSettings) []types.Outcome {
	entities, err := h.store.All(h.kind)
	if err != nil {
		h.logger.Error().Err(err).Msg("Cannot list entities for export")
		return []types.Outcome{{Name: folder, Kind: h.kind, Change: types.ChangeFail, Message: err.Error(), Error: err}}
	}

	written := make(map[string]string)
	var outcomes []types.Outcome
	for _, e := range entities {
		if e.Container {
			continue
		}
		outcomes = append(outcomes, h.exportOne(folder, e, settings, written))
	}
	return outcomes
}

func (h *TreeHandler) exportOne(folder string, e *types.Entity, settings config.HandlerSettings, written map[string]string) types.Outcome {
	fail := func(name string, err error) types.Outcome {
		h.logger.Warn().Err(err).Str("key", e.Key).Msg("Cannot export entity")
		return types.Outcome{Name: name, Kind: h.kind, Change: types.ChangeFail, Message: err.Error(), Item: e, Error: err}
	}

	rel, err := h.resolver.ItemPath(e)
	if err != nil {
		return fail(e.Name, err)
	}
	file := filepath.Join(folder, filepath.FromSlash(rel)+h.ext)
	if settings.IsIgnored(file) {
		return types.Outcome{Name: file, Kind: h.kind, Success: true, Change: types.ChangeNoChange, Message: "Ignored", Item: e}
	}
	if owner, ok := written[file]; ok {
		return fail(file, errors.Newf(errors.ErrAlreadyExists, "%s was already exported for %s", file, owner).
			WithDetail("key", e.Key))
	}

	rec, err := h.recordFor(e)
	if err != nil {
		return fail(file, err)
	}
	data, err := record.Encode(rec)
	if err != nil {
		return fail(file, err)
	}
	if err := h.files.WriteFile(file, data); err != nil {
		return fail(file, err)
	}
	written[file] = e.Key

	h.logger.Debug().Str("file", file).Str("key", e.Key).Msg("Exported entity")
	return types.Outcome{Name: file, Kind: h.kind, Success: true, Change: types.ChangeExport, Message: "Exported " + e.Name, Item: e}
}

// recordFor builds the record of e. The nearest item ancestor becomes the
// Parent key and the containers between it and e become the Folder path.
// The level is the number of item ancestors.
func (h *TreeHandler) recordFor(e *types.Entity) (*record.Record, error) {
	ancestors, err := h.ancestors(e)
	if err != nil {
		return nil, err
	}

	rec := &record.Record{
		Kind:       e.Kind,
		Key:        e.Key,
		Alias:      e.Alias,
		Name:       e.Name,
		Properties: e.Properties,
	}

	var folders []string
	for _, a := range ancestors {
		if !a.Container {
			rec.Level++
			if rec.ParentKey == "" {
				rec.ParentKey = a.Key
			}
			continue
		}
		if rec.ParentKey == "" {
			folders = append(folders, a.Name)
		}
	}
	for i, j := 0, len(folders)-1; i < j; i, j = i+1, j-1 {
		folders[i], folders[j] = folders[j], folders[i]
	}
	rec.Folder = strings.Join(folders, "/")
	return rec, nil
}

// ancestors returns e's ancestors nearest first.
func (h *TreeHandler) ancestors(e *types.Entity) ([]*types.Entity, error) {
	var chain []*types.Entity
	visited := map[int]bool{e.ID: true}
	parentID := e.ParentID
	for parentID > 0 {
		if visited[parentID] {
			return nil, errors.Newf(errors.ErrConsistency, "parent cycle at entity %d", parentID)
		}
		visited[parentID] = true

		parent, err := h.store.Get(parentID)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrNotFound) {
				break
			}
			return nil, err
		}
		chain = append(chain, parent)
		parentID = parent.ParentID
	}
	return chain, nil
}
