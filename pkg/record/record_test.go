// pkg/record/record_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Test full record decoding and canonical encoding

package record_test

import (
	"testing"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/record"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageRecord = `<?xml version="1.0" encoding="utf-8"?>
<ContentType Key="2f1c" Alias="page" Level="1">
  <Name>Page</Name>
  <Parent Key="9a0b" />
  <Folder>/Site/Pages/</Folder>
  <Properties>
    <Property Name="icon">icon-document</Property>
    <Property>ignored</Property>
  </Properties>
</ContentType>`

func TestDecode(t *testing.T) {
	files := newFiles(t, map[string]string{"/r/page.config": pageRecord})

	node, err := record.LoadNode(files, "/r/page.config")
	require.NoError(t, err)

	r, err := record.Decode(node)
	require.NoError(t, err)

	assert.Equal(t, types.KindContentType, r.Kind)
	assert.Equal(t, "2f1c", r.Key)
	assert.Equal(t, "page", r.Alias)
	assert.Equal(t, "Page", r.Name)
	assert.Equal(t, 1, r.Level)
	assert.Equal(t, "9a0b", r.ParentKey)
	assert.Equal(t, "Site/Pages", r.Folder)
	assert.Equal(t, []string{"Site", "Pages"}, r.FolderPath())
	assert.Equal(t, map[string]string{"icon": "icon-document"}, r.Properties)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown_root", `<Template Key="a" Level="0"><Name>A</Name></Template>`},
		{"missing_key", `<DataType Level="0"><Name>A</Name></DataType>`},
		{"missing_name", `<DataType Key="a" Level="0" />`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := newFiles(t, map[string]string{"/r/x.config": tt.content})
			node, err := record.LoadNode(files, "/r/x.config")
			require.NoError(t, err)

			_, err = record.Decode(node)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	in := &record.Record{
		Kind:       types.KindMediaType,
		Key:        "k-1",
		Alias:      "image",
		Name:       "Image & Photo",
		Level:      2,
		ParentKey:  "k-0",
		Folder:     "Media",
		Properties: map[string]string{"b": "2", "a": "1"},
	}

	data, err := record.Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<MediaType Key="k-1" Alias="image" Level="2">`)

	files := newFiles(t, map[string]string{"/r/image.config": string(data)})
	node, err := record.LoadNode(files, "/r/image.config")
	require.NoError(t, err)

	out, err := record.Decode(node)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncode_UnknownKind(t *testing.T) {
	_, err := record.Encode(&record.Record{Kind: "template", Key: "k", Name: "n"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestChecksum_StableAcrossPropertyOrder(t *testing.T) {
	a := &record.Record{Kind: types.KindDataType, Key: "k", Name: "n", Properties: map[string]string{"x": "1", "y": "2"}}
	b := &record.Record{Kind: types.KindDataType, Key: "k", Name: "n", Properties: map[string]string{"y": "2", "x": "1"}}

	ca, err := record.Checksum(a)
	require.NoError(t, err)
	cb, err := record.Checksum(b)
	require.NoError(t, err)
	assert.Equal(t, ca, cb)

	b.Name = "changed"
	cc, err := record.Checksum(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca, cc)
}
