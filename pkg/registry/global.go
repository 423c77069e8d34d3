package registry

import (
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/handlers"
	"github.com/arthur-debert/synctree/pkg/types"
)

// HandlerFactory builds the handler of one kind. The factory fills in
// Kind, Description and DeleteContainer; callers supply the rest.
type HandlerFactory func(opts handlers.Options) (handlers.Handler, error)

var handlerFactories = New[types.EntityKind, HandlerFactory]()

// RegisterHandlerFactory registers the factory for kind.
func RegisterHandlerFactory(kind types.EntityKind, factory HandlerFactory) error {
	return handlerFactories.Register(kind, factory)
}

// MustRegisterHandlerFactory registers the factory for kind or panics.
func MustRegisterHandlerFactory(kind types.EntityKind, factory HandlerFactory) {
	MustRegister(handlerFactories, kind, factory)
}

// HasHandler reports whether a factory is registered for kind.
func HasHandler(kind types.EntityKind) bool {
	return handlerFactories.Has(kind)
}

// RegisteredKinds lists the kinds with a registered factory.
func RegisteredKinds() []types.EntityKind {
	return handlerFactories.Keys()
}

// NewHandler creates the handler for kind.
func NewHandler(kind types.EntityKind, opts handlers.Options) (handlers.Handler, error) {
	factory, err := handlerFactories.Get(kind)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "no handler for kind %s", kind)
	}
	h, err := factory(opts)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to create %s handler", kind)
	}
	return h, nil
}

// Unregister removes the factory for kind.
func Unregister(kind types.EntityKind) error {
	return handlerFactories.Remove(kind)
}
