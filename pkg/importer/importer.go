// Package importer turns one serialized record into a stored entity. It
// knows nothing about trees beyond resolving an already-imported parent
// and creating the containers a record's Folder names.
package importer

import (
	"strconv"

	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/arthur-debert/synctree/pkg/logging"
	"github.com/arthur-debert/synctree/pkg/record"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/rs/zerolog"
)

// SettingCreateContainers controls whether missing containers named by a
// record's Folder are created ("true", the default) or fail the import.
const SettingCreateContainers = "create_containers"

// ItemImporter imports exactly one serialized record.
type ItemImporter interface {
	Import(file string, settings config.HandlerSettings, force bool) types.Attempt
}

// RecordImporter imports XML records of one kind into an entity store.
type RecordImporter struct {
	kind   types.EntityKind
	files  *filesystem.FileService
	store  datastore.EntityStore
	logger zerolog.Logger
}

var _ ItemImporter = (*RecordImporter)(nil)

// New creates a RecordImporter for kind.
func New(kind types.EntityKind, files *filesystem.FileService, store datastore.EntityStore) *RecordImporter {
	return &RecordImporter{
		kind:   kind,
		files:  files,
		store:  store,
		logger: logging.GetLogger("importer").With().Str("kind", string(kind)).Logger(),
	}
}

// Import loads file, resolves its parent and saves the entity. Unless
// force is set, a record whose checksum and parent match the stored
// entity reports NoChange without writing.
func (i *RecordImporter) Import(file string, settings config.HandlerSettings, force bool) types.Attempt {
	node, err := record.LoadNode(i.files, file)
	if err != nil {
		return types.FailAttempt(err, "")
	}

	rec, err := record.Decode(node)
	if err != nil {
		return types.FailAttempt(err, "")
	}
	if rec.Kind != i.kind {
		return types.FailAttempt(errors.Newf(errors.ErrInvalidInput, "%s holds a %s, expected %s", file, rec.Kind, i.kind), "")
	}

	checksum, err := record.Checksum(rec)
	if err != nil {
		return types.FailAttempt(err, "")
	}

	existing, err := i.store.GetByKey(i.kind, rec.Key)
	if err != nil && !errors.IsErrorCode(err, errors.ErrNotFound) {
		return types.FailAttempt(err, "")
	}

	parentID, err := i.resolveParent(rec, settings)
	if err != nil {
		return types.FailAttempt(err, "")
	}

	if existing != nil && !force && existing.Checksum == checksum && existing.ParentID == parentID {
		i.logger.Trace().Str("file", file).Str("key", rec.Key).Msg("Record unchanged")
		return types.SucceedAttempt(existing, types.ChangeNoChange, "No changes")
	}

	entity := &types.Entity{}
	change := types.ChangeCreate
	if existing != nil {
		entity = existing
		change = types.ChangeUpdate
	}

	entity.Key = rec.Key
	entity.Kind = i.kind
	entity.Name = rec.Name
	entity.Alias = rec.Alias
	entity.ParentID = parentID
	entity.Level = rec.Level
	entity.Properties = rec.Properties
	entity.Checksum = checksum

	saved, err := i.store.Save(entity)
	if err != nil {
		return types.FailAttempt(err, "")
	}

	i.logger.Debug().
		Str("file", file).
		Str("key", saved.Key).
		Int("id", saved.ID).
		Int("parentId", saved.ParentID).
		Str("change", string(change)).
		Msg("Imported record")

	return types.SucceedAttempt(saved, change, string(change)+" "+saved.Name)
}

// resolveParent finds the entity rec belongs under. Folder names a chain
// of containers below the Parent item, or below the root when rec has no
// Parent.
func (i *RecordImporter) resolveParent(rec *record.Record, settings config.HandlerSettings) (int, error) {
	parentID, level := types.RootID, 0
	if rec.ParentKey != "" {
		parent, err := i.store.GetByKey(i.kind, rec.ParentKey)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrNotFound) {
				return 0, errors.Newf(errors.ErrNotFound, "parent %s of %s has not been imported", rec.ParentKey, rec.Name).
					WithDetail("parent", rec.ParentKey)
			}
			return 0, err
		}
		parentID, level = parent.ID, parent.Level+1
	}

	folders := rec.FolderPath()
	if len(folders) == 0 {
		return parentID, nil
	}

	create, err := strconv.ParseBool(settings.Get(SettingCreateContainers, "true"))
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrConfigParse, "invalid %s setting", SettingCreateContainers)
	}
	return i.ensureContainers(parentID, level, folders, create)
}

// ensureContainers walks (and optionally creates) the container chain
// named by folders below parentID and returns the id of the last one.
func (i *RecordImporter) ensureContainers(parentID, level int, folders []string, create bool) (int, error) {
	for depth, name := range folders {
		containers, err := i.store.GetChildren(parentID, datastore.OfKind(i.kind), datastore.ContainersOnly())
		if err != nil {
			return 0, err
		}

		var found *types.Entity
		for _, c := range containers {
			if c.Name == name {
				found = c
				break
			}
		}

		if found == nil {
			if !create {
				return 0, errors.Newf(errors.ErrNotFound, "container %q does not exist", name)
			}
			found, err = i.store.Save(&types.Entity{
				Name:      name,
				Kind:      i.kind,
				Container: true,
				ParentID:  parentID,
				Level:     level + depth,
			})
			if err != nil {
				return 0, err
			}
			i.logger.Debug().Str("container", name).Int("id", found.ID).Msg("Created container")
		}
		parentID = found.ID
	}
	return parentID, nil
}
