// pkg/commands/sync_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: testutil (memory FS), YAML snapshot store
// PURPOSE: Test config-driven sync runs and store persistence

package commands_test

import (
	"testing"

	"github.com/arthur-debert/synctree/pkg/commands"
	"github.com/arthur-debert/synctree/pkg/core"
	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/testutil"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(env *testutil.TestEnvironment) {
	env.WriteRecord("contenttype/root.config", testutil.RecordSpec{Key: "r", Name: "Root"})
	env.WriteRecord("contenttype/root/child.config", testutil.RecordSpec{Key: "c", Name: "Child", Level: 1, ParentKey: "r"})
	env.WriteRecord("mediatype/image.config", testutil.RecordSpec{Kind: types.KindMediaType, Key: "i", Name: "Image", Folder: "Media"})
}

func TestSync_ImportPersistsSnapshot(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeTree(env)

	result, err := commands.Sync(core.CommandImport, commands.SyncOptions{Root: env.Root, FileSystem: env.FS})
	require.NoError(t, err)

	summary := result.Summary()
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 0, summary.Failed)

	snap, err := datastore.LoadSnapshot(env.FS, env.Path(".synctree", "store.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Len())

	t.Run("second_import_is_unchanged", func(t *testing.T) {
		again, err := commands.Sync(core.CommandImport, commands.SyncOptions{Root: env.Root, FileSystem: env.FS})
		require.NoError(t, err)
		assert.Equal(t, 3, again.Summary().ByChange[types.ChangeNoChange])
	})
}

func TestSync_DryRunDoesNotPersist(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeTree(env)

	_, err := commands.Sync(core.CommandImport, commands.SyncOptions{Root: env.Root, FileSystem: env.FS, DryRun: true})
	require.NoError(t, err)

	assert.False(t, env.Files.Exists(env.Path(".synctree", "store.yaml")))
}

func TestSync_KindsAndOverrides(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeTree(env)

	result, err := commands.Sync(core.CommandImport, commands.SyncOptions{
		Root:       env.Root,
		FileSystem: env.FS,
		Kinds:      []string{"mediatype"},
		Overrides:  map[string]interface{}{"layout.flat": true, "store.backend": "memory"},
	})
	require.NoError(t, err)

	require.Len(t, result.Kinds, 1)
	assert.Equal(t, types.KindMediaType, result.Kinds[0].Kind)
	assert.Equal(t, types.LayoutFlat, result.Mode)
	assert.False(t, env.Files.Exists(env.Path(".synctree", "store.yaml")))
}

func TestSync_RootConfigFromFileSystem(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeTree(env)
	env.WriteFile("synctree.toml", "[layout]\nflat = true\n\n[store]\nbackend = \"memory\"\n")

	result, err := commands.Sync(core.CommandImport, commands.SyncOptions{Root: env.Root, FileSystem: env.FS})
	require.NoError(t, err)

	assert.Equal(t, types.LayoutFlat, result.Mode)
	assert.False(t, env.Files.Exists(env.Path(".synctree", "store.yaml")))
}

func TestSync_InvalidConfig(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := commands.Sync(core.CommandImport, commands.SyncOptions{
		Root:       env.Root,
		FileSystem: env.FS,
		Kinds:      []string{"widgets"},
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}
