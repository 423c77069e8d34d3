// internal/cli/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: testutil (memory FS), commands, output
// PURPOSE: Test the command tree end to end against an in-memory root

package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/output"
	"github.com/arthur-debert/synctree/pkg/testutil"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, env *testutil.TestEnvironment, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(env.FS)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, env *testutil.TestEnvironment, args ...string) (*output.Report, error) {
	t.Helper()
	out, err := run(t, env, append(args, "--format", "json")...)
	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	return &report, err
}

func writeTree(env *testutil.TestEnvironment) {
	env.WriteRecord("contenttype/page.config", testutil.RecordSpec{Key: "p", Name: "Page"})
	env.WriteRecord("contenttype/page/article.config", testutil.RecordSpec{Key: "a", Name: "Article", Level: 1, ParentKey: "p"})
}

func TestImportCommand(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeTree(env)

	report, err := runJSON(t, env, "import", env.Root, "--kind", "contenttype")
	require.NoError(t, err)

	assert.Equal(t, "import", report.Command)
	assert.Equal(t, "nested", report.Layout)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Totals[string(types.ChangeCreate)])
	require.Len(t, report.Kinds, 1)
	assert.Equal(t, "contenttype", report.Kinds[0].Kind)

	t.Run("rerun_is_unchanged", func(t *testing.T) {
		report, err := runJSON(t, env, "import", env.Root, "-k", "contenttype")
		require.NoError(t, err)
		assert.Equal(t, 2, report.Totals[string(types.ChangeNoChange)])
	})

	t.Run("force_updates", func(t *testing.T) {
		report, err := runJSON(t, env, "import", env.Root, "-k", "contenttype", "--force")
		require.NoError(t, err)
		assert.Equal(t, 2, report.Totals[string(types.ChangeUpdate)])
	})
}

func TestImportCommand_DryRunDoesNotPersist(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeTree(env)

	report, err := runJSON(t, env, "import", env.Root, "-k", "contenttype", "--dry-run")
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.False(t, env.Files.Exists(env.Path(".synctree", "store.yaml")))
}

func TestImportCommand_FailedOutcomeFails(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile("contenttype/broken.config", "<ContentType")

	report, err := runJSON(t, env, "import", env.Root, "-k", "contenttype", "--backend", "memory")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	assert.Equal(t, 1, report.Failed)
}

func TestExportCommand_DryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeTree(env)

	_, err := runJSON(t, env, "import", env.Root, "-k", "contenttype")
	require.NoError(t, err)

	exportRoot := env.Path("out")
	require.NoError(t, env.FS.MkdirAll(exportRoot, 0755))
	// The export root has its own store path; point it back at the imported one.
	report, err := runJSON(t, env, "export", exportRoot, "-k", "contenttype", "--dry-run",
		"--store", "../.synctree/store.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Totals[string(types.ChangeExport)])
	assert.False(t, env.Files.Exists(env.Path("out", "contenttype", "page.config")))
}

func TestTextOutput(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeTree(env)

	out, err := run(t, env, "import", env.Root, "-k", "contenttype", "--backend", "memory", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "contenttype")
	assert.Contains(t, out, "2 outcomes")
}

func TestInvalidFormat(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, err := run(t, env, "import", env.Root, "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRequiresRootArgument(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	for _, name := range []string{"import", "export", "clean"} {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, env, name)
			assert.Error(t, err)
		})
	}
}

func TestHelpTopics(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	out, err := run(t, env, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "layouts")
	assert.Contains(t, out, "records")
	assert.Contains(t, out, "--flat")

	out, err = run(t, env, "help", "flat")
	require.NoError(t, err)
	assert.Contains(t, out, "flat layout")
}

func TestVersionCommand(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	out, err := run(t, env, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "synctree version")
}

func TestConfigCommand(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	out, err := run(t, env, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[store]")
}

func TestOverrides(t *testing.T) {
	g := &globalFlags{backend: "mongo", storePath: "db.yaml"}
	assert.Equal(t, map[string]interface{}{"store.backend": "mongo", "store.path": "db.yaml"}, g.overrides())
	assert.Empty(t, (&globalFlags{}).overrides())
}

func TestLogVerbosity(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile("synctree.toml", "[logging]\nverbosity = 2\n")

	t.Run("config_when_flag_absent", func(t *testing.T) {
		g := &globalFlags{}
		assert.Equal(t, 2, g.logVerbosity(false, env.Root, env.FS))
	})

	t.Run("flag_wins", func(t *testing.T) {
		g := &globalFlags{verbosity: 1}
		assert.Equal(t, 1, g.logVerbosity(true, env.Root, env.FS))
	})

	t.Run("defaults_without_root", func(t *testing.T) {
		g := &globalFlags{}
		assert.Equal(t, 0, g.logVerbosity(false, "", env.FS))
	})

	t.Run("broken_config_keeps_flag_value", func(t *testing.T) {
		g := &globalFlags{configFile: env.Path("absent.toml")}
		assert.Equal(t, 0, g.logVerbosity(false, env.Root, env.FS))
	})
}
