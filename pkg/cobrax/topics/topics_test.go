package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts.md":     {Data: []byte("# Layouts\n\nFlat and nested.")},
		"records.txt":    {Data: []byte("Record files are XML.")},
		"option-flat.md": {Data: []byte("# --flat\n\nUse the flat layout.")},
		"nested/deep.md": {Data: []byte("Deep topic")},
		"ignored.json":   {Data: []byte("{}")},
	}
}

func TestNew_ScansSupportedExtensions(t *testing.T) {
	tm, err := New(testFS(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"deep", "layouts", "option-flat", "records"}, tm.ListTopics())

	_, ok := tm.GetTopic("ignored")
	assert.False(t, ok)

	t.Run("custom_extensions", func(t *testing.T) {
		tm, err := New(testFS(), Options{Extensions: []string{".json"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"ignored"}, tm.ListTopics())
	})
}

func TestGetTopic_FlagStyle(t *testing.T) {
	tm, err := New(testFS(), Options{})
	require.NoError(t, err)

	for _, name := range []string{"flat", "--flat", "option-flat"} {
		t.Run(name, func(t *testing.T) {
			topic, ok := tm.GetTopic(name)
			require.True(t, ok)
			assert.Equal(t, "option-flat", topic.Name)
		})
	}
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# Title", r.Render("# Title", ".md"))
}

func TestGlamourRenderer_PassesThroughNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain *text*", r.Render("plain *text*", ".txt"))
}

func TestGlamourRenderer_RendersMarkdown(t *testing.T) {
	r := &GlamourRenderer{Style: "notty", Width: 40}
	out := r.Render("# Title\n\nSome **bold** text.", ".md")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
	assert.NotEqual(t, "# Title\n\nSome **bold** text.", out)
}

func TestInstall(t *testing.T) {
	newRoot := func() (*cobra.Command, *bytes.Buffer) {
		root := &cobra.Command{Use: "app"}
		root.AddCommand(&cobra.Command{Use: "sync", Short: "Sync things", Run: func(*cobra.Command, []string) {}})
		tm, err := New(testFS(), Options{})
		require.NoError(t, err)
		tm.Install(root)

		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		return root, &out
	}

	t.Run("lists_topics", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())

		assert.Contains(t, out.String(), "General topics:")
		assert.Contains(t, out.String(), "  layouts")
		assert.Contains(t, out.String(), "  --flat")
		assert.Contains(t, out.String(), "'app help <topic>'")
	})

	t.Run("shows_topic", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "records"})
		require.NoError(t, root.Execute())
		assert.Equal(t, "Record files are XML.", out.String())
	})

	t.Run("falls_back_to_command_help", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "sync"})
		require.NoError(t, root.Execute())
		assert.True(t, strings.Contains(out.String(), "Sync things"))
	})
}
