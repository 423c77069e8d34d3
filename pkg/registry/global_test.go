package registry

import (
	"testing"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/handlers"
	"github.com/arthur-debert/synctree/pkg/testutil"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKind types.EntityKind = "testkind"

func TestHandlerFactoryRegistration(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	factory := func(opts handlers.Options) (handlers.Handler, error) {
		opts.Kind = testKind
		opts.Description = "test handler"
		return handlers.NewTreeHandler(opts)
	}

	require.NoError(t, RegisterHandlerFactory(testKind, factory))
	t.Cleanup(func() { _ = Unregister(testKind) })

	assert.True(t, HasHandler(testKind))
	assert.Contains(t, RegisteredKinds(), testKind)

	h, err := NewHandler(testKind, handlers.Options{Files: env.Files, Store: env.Store})
	require.NoError(t, err)
	assert.Equal(t, testKind, h.Kind())
	assert.Equal(t, "test handler", h.Description())

	err = RegisterHandlerFactory(testKind, factory)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestNewHandler_Errors(t *testing.T) {
	_, err := NewHandler("absent", handlers.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	failing := types.EntityKind("failing")
	require.NoError(t, RegisterHandlerFactory(failing, func(opts handlers.Options) (handlers.Handler, error) {
		return nil, errors.New(errors.ErrInvalidInput, "bad options")
	}))
	t.Cleanup(func() { _ = Unregister(failing) })

	_, err = NewHandler(failing, handlers.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}
