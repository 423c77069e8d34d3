// pkg/config/loader_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dirs), memory FS, environment
// PURPOSE: Test layered configuration loading

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)

	assert.False(t, cfg.Layout.Flat)
	assert.Equal(t, types.LayoutNested, cfg.Layout.Mode())
	assert.Equal(t, ".config", cfg.Import.Extension)
	assert.True(t, cfg.Import.Clean)
	assert.Equal(t, "yaml", cfg.Store.Backend)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)

	kinds, err := cfg.EntityKinds()
	require.NoError(t, err)
	assert.Equal(t, types.AllKinds(), kinds)
}

func TestLoad_RootFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "synctree.toml"), `
[layout]
flat = true

[import]
kinds = ["contenttype"]
`)

	cfg, err := config.Load(config.LoadOptions{Root: root})
	require.NoError(t, err)

	assert.True(t, cfg.Layout.Flat)
	assert.Equal(t, types.LayoutFlat, cfg.Layout.Mode())
	assert.Equal(t, []string{"contenttype"}, cfg.Import.Kinds)
	assert.Equal(t, ".config", cfg.Import.Extension, "unset keys keep defaults")
}

func TestLoad_HiddenRootFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".synctree.toml"), "[store]\nbackend = \"memory\"\n")

	cfg, err := config.Load(config.LoadOptions{Root: root})
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoad_Precedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "synctree.toml"), "[store]\nbackend = \"memory\"\ntimeout = \"3s\"\n")
	t.Setenv("SYNCTREE_STORE_BACKEND", "mongo")
	t.Setenv("SYNCTREE_LAYOUT_FLAT", "true")

	cfg, err := config.Load(config.LoadOptions{
		Root:      root,
		Overrides: map[string]interface{}{"layout.flat": false},
	})
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Store.Backend, "env beats file")
	assert.Equal(t, 3*time.Second, cfg.Store.Timeout)
	assert.False(t, cfg.Layout.Flat, "overrides beat env")
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[import]\nextension = \".xml\"\n")

	cfg, err := config.Load(config.LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, ".xml", cfg.Import.Extension)

	_, err = config.Load(config.LoadOptions{File: path + ".missing"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_InjectedFileSystem(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/sync", 0755))
	require.NoError(t, fsys.WriteFile("/sync/synctree.toml", []byte("[layout]\nflat = true\n\n[logging]\nverbosity = 2\n"), 0644))

	cfg, err := config.Load(config.LoadOptions{Root: "/sync", FS: fsys})
	require.NoError(t, err)
	assert.True(t, cfg.Layout.Flat)
	assert.Equal(t, 2, cfg.Logging.Verbosity)

	// The same root on disk has no config file.
	cfg, err = config.Load(config.LoadOptions{Root: "/sync"})
	require.NoError(t, err)
	assert.False(t, cfg.Layout.Flat)

	_, err = config.Load(config.LoadOptions{File: "/sync/absent.toml", FS: fsys})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_LoggingVerbosityFromEnv(t *testing.T) {
	t.Setenv("SYNCTREE_LOGGING_VERBOSITY", "3")

	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Logging.Verbosity)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad_toml", "[layout\nflat = true"},
		{"bad_extension", "[import]\nextension = \"xml\"\n"},
		{"bad_extension_glob", "[import]\nextension = \".[x\"\n"},
		{"bad_backend", "[store]\nbackend = \"sqlite\"\n"},
		{"bad_kind", "[import]\nkinds = [\"template\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "synctree.toml"), tt.content)

			_, err := config.Load(config.LoadOptions{Root: root})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse), "got %v", err)
		})
	}
}

func TestDefaultContent(t *testing.T) {
	assert.Contains(t, config.DefaultContent(), "[layout]")
	assert.NotNil(t, config.Default())
}
