package core_test

import (
	"testing"

	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/core"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/testutil"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_YAMLPersistsOnClose(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := config.Store{Backend: core.BackendYAML, Path: ".synctree/store.yaml"}

	opened, err := core.OpenStore(cfg, env.FS, env.Root, true)
	require.NoError(t, err)
	_, err = opened.Save(&types.Entity{Key: "k", Name: "A", Kind: types.KindDataType})
	require.NoError(t, err)
	require.NoError(t, opened.Close())
	assert.True(t, env.Files.Exists(env.Path(".synctree", "store.yaml")))

	reopened, err := core.OpenStore(cfg, env.FS, env.Root, true)
	require.NoError(t, err)
	e, err := reopened.GetByKey(types.KindDataType, "k")
	require.NoError(t, err)
	assert.Equal(t, "A", e.Name)
}

func TestOpenStore_YAMLWithoutPersist(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := config.Store{Backend: core.BackendYAML, Path: "/state/store.yaml"}

	opened, err := core.OpenStore(cfg, env.FS, env.Root, false)
	require.NoError(t, err)
	_, err = opened.Save(&types.Entity{Key: "k", Name: "A", Kind: types.KindDataType})
	require.NoError(t, err)
	require.NoError(t, opened.Close())

	assert.False(t, env.Files.Exists("/state/store.yaml"))
}

func TestOpenStore_Memory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	opened, err := core.OpenStore(config.Store{Backend: core.BackendMemory}, env.FS, env.Root, true)
	require.NoError(t, err)
	assert.NoError(t, opened.Close())
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, err := core.OpenStore(config.Store{Backend: "sqlite"}, env.FS, env.Root, true)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
