package handlers

import (
	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/types"
)

// Handler synchronizes one entity kind.
type Handler interface {
	// Kind returns the entity kind this handler manages
	Kind() types.EntityKind

	// Description returns a human-readable description of the handler
	Description() string

	// ImportFolder imports every record below folder and returns one
	// Outcome per processed file. Successful imports are added to importMap.
	ImportFolder(folder string, settings config.HandlerSettings, importMap types.ImportMap, force bool) []types.Outcome

	// ProcessPostImport runs after ImportFolder. It prunes empty containers
	// unless the import produced no outcomes at all.
	ProcessPostImport(folder string, prior []types.Outcome, settings config.HandlerSettings) []types.Outcome

	// CleanFolders deletes every container below parentID that has no
	// children, evaluating descendants before ancestors.
	CleanFolders(folder string, parentID int) []types.Outcome

	// DeleteContainer removes one container through the kind's own service.
	DeleteContainer(id int) error

	// Export writes every entity of the kind below folder.
	Export(folder string, settings config.HandlerSettings) []types.Outcome
}

// ContainerDeleter deletes a container by id.
type ContainerDeleter func(id int) error
