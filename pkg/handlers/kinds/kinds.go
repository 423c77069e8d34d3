// Package kinds registers a TreeHandler for every entity kind. Importing
// it for side effects makes the kinds available through pkg/registry.
package kinds

import (
	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/handlers"
	"github.com/arthur-debert/synctree/pkg/registry"
	"github.com/arthur-debert/synctree/pkg/types"
)

var descriptions = map[types.EntityKind]string{
	types.KindDataType:    "Synchronizes data types and their containers",
	types.KindContentType: "Synchronizes content types and their containers",
	types.KindMediaType:   "Synchronizes media types and their containers",
	types.KindMemberType:  "Synchronizes member types and their containers",
}

func init() {
	for _, kind := range types.AllKinds() {
		registry.MustRegisterHandlerFactory(kind, factoryFor(kind))
	}
}

func factoryFor(kind types.EntityKind) registry.HandlerFactory {
	return func(opts handlers.Options) (handlers.Handler, error) {
		opts.Kind = kind
		opts.Description = descriptions[kind]
		if opts.DeleteContainer == nil && opts.Store != nil {
			opts.DeleteContainer = ContainerDeleter(kind, opts.Store)
		}
		return handlers.NewTreeHandler(opts)
	}
}

// ContainerDeleter deletes containers of kind only. Entities of another
// kind or non-container entities are refused.
func ContainerDeleter(kind types.EntityKind, store datastore.EntityStore) handlers.ContainerDeleter {
	return func(id int) error {
		e, err := store.Get(id)
		if err != nil {
			return err
		}
		if e.Kind != kind {
			return errors.Newf(errors.ErrInvalidInput, "entity %d is a %s, not a %s", id, e.Kind, kind)
		}
		if !e.Container {
			return errors.Newf(errors.ErrInvalidInput, "entity %d is not a container", id)
		}
		return store.Delete(id)
	}
}
