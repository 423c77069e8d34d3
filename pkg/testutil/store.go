package testutil

import (
	"testing"

	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/require"
)

// SeedContainer saves a container of kind under parentID.
func SeedContainer(t *testing.T, store datastore.EntityStore, kind types.EntityKind, name string, parentID int) *types.Entity {
	t.Helper()
	e, err := store.Save(&types.Entity{Name: name, Kind: kind, Container: true, ParentID: parentID})
	require.NoError(t, err)
	return e
}

// SeedItem saves a non-container entity of kind under parentID.
func SeedItem(t *testing.T, store datastore.EntityStore, kind types.EntityKind, key, name string, parentID int) *types.Entity {
	t.Helper()
	e, err := store.Save(&types.Entity{Key: key, Name: name, Kind: kind, ParentID: parentID})
	require.NoError(t, err)
	return e
}

// SeedChain saves nested containers names[0] > names[1] > ... under the
// root and returns them in the same order.
func SeedChain(t *testing.T, store datastore.EntityStore, kind types.EntityKind, names ...string) []*types.Entity {
	t.Helper()
	chain := make([]*types.Entity, 0, len(names))
	parentID := types.RootID
	for _, name := range names {
		c := SeedContainer(t, store, kind, name, parentID)
		chain = append(chain, c)
		parentID = c.ID
	}
	return chain
}
