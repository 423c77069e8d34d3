// pkg/testutil/environment.go
// DEPENDENCIES: filesystem, datastore
// PURPOSE: Wire an isolated sync root for tests

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/require"
)

// DefaultRoot is the sync root used by NewTestEnvironment.
const DefaultRoot = "/sync"

// TestEnvironment bundles the dependencies most engine tests need.
type TestEnvironment struct {
	Root  string
	FS    types.FS
	Files *filesystem.FileService
	Store *datastore.MemoryStore

	t *testing.T
}

// NewTestEnvironment creates an empty in-memory environment.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll(DefaultRoot, 0755))

	return &TestEnvironment{
		Root:  DefaultRoot,
		FS:    fsys,
		Files: filesystem.NewFileService(fsys),
		Store: datastore.NewMemory(),
		t:     t,
	}
}

// Path joins elements onto the sync root.
func (e *TestEnvironment) Path(elem ...string) string {
	return filepath.Join(append([]string{e.Root}, elem...)...)
}

// KindFolder returns <root>/<kind>, creating it.
func (e *TestEnvironment) KindFolder(kind types.EntityKind) string {
	e.t.Helper()
	dir := e.Path(string(kind))
	require.NoError(e.t, e.FS.MkdirAll(dir, 0755))
	return dir
}

// WriteFile writes raw content relative to the sync root and returns the
// absolute path.
func (e *TestEnvironment) WriteFile(rel, content string) string {
	e.t.Helper()
	full := e.Path(rel)
	require.NoError(e.t, e.Files.WriteFile(full, []byte(content)))
	return full
}

// WriteRecord encodes spec and writes it relative to the sync root.
func (e *TestEnvironment) WriteRecord(rel string, spec RecordSpec) string {
	e.t.Helper()
	return e.WriteFile(rel, string(spec.Bytes(e.t)))
}
