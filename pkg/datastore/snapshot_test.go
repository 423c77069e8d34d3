// pkg/datastore/snapshot_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Test YAML persistence of the in-memory store

package datastore_test

import (
	"testing"

	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	fs := filesystem.NewMemory()
	s := datastore.NewMemory()

	folder := mustSave(t, s, &types.Entity{Name: "Folder", Kind: types.KindContentType, Container: true, ParentID: types.RootID})
	mustSave(t, s, &types.Entity{
		Key:        "page",
		Name:       "Page",
		Kind:       types.KindContentType,
		ParentID:   folder.ID,
		Level:      1,
		Properties: map[string]string{"icon": "doc"},
	})
	gone := mustSave(t, s, &types.Entity{Key: "gone", Name: "Gone", Kind: types.KindContentType})
	require.NoError(t, s.Delete(gone.ID))

	require.NoError(t, s.SaveSnapshot(fs, "/state/store.yaml"))

	loaded, err := datastore.LoadSnapshot(fs, "/state/store.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())

	page, err := loaded.GetByKey(types.KindContentType, "page")
	require.NoError(t, err)
	assert.Equal(t, folder.ID, page.ParentID)
	assert.Equal(t, "doc", page.Properties["icon"])

	// ids keep increasing past deleted entities
	next := mustSave(t, loaded, &types.Entity{Key: "new", Kind: types.KindContentType})
	assert.Equal(t, 4, next.ID)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	s, err := datastore.LoadSnapshot(filesystem.NewMemory(), "/nope.yaml")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoadSnapshot_Invalid(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("/bad.yaml", []byte("entities: [unclosed"), 0644))

	_, err := datastore.LoadSnapshot(fs, "/bad.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))

	require.NoError(t, fs.WriteFile("/noid.yaml", []byte("entities:\n  - name: x\n"), 0644))
	_, err = datastore.LoadSnapshot(fs, "/noid.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
}
