package testutil

import (
	"testing"

	"github.com/arthur-debert/synctree/pkg/record"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// RecordSpec declares a record file. Key defaults to a fresh UUID and
// Kind to content types.
type RecordSpec struct {
	Kind       types.EntityKind
	Key        string
	Name       string
	Level      int
	ParentKey  string
	Folder     string
	Properties map[string]string
}

// Record converts the spec into a record.Record, filling defaults.
func (s RecordSpec) Record() *record.Record {
	r := &record.Record{
		Kind:       s.Kind,
		Key:        s.Key,
		Name:       s.Name,
		Level:      s.Level,
		ParentKey:  s.ParentKey,
		Folder:     s.Folder,
		Properties: s.Properties,
	}
	if r.Kind == "" {
		r.Kind = types.KindContentType
	}
	if r.Key == "" {
		r.Key = uuid.NewString()
	}
	return r
}

// Bytes encodes the spec.
func (s RecordSpec) Bytes(t *testing.T) []byte {
	t.Helper()
	data, err := record.Encode(s.Record())
	require.NoError(t, err)
	return data
}

// LevelOnly is a record body carrying only a Level attribute, enough for
// level extraction but not for a full decode.
func LevelOnly(tag string, level string) string {
	return `<?xml version="1.0" encoding="utf-8"?>` + "\n" +
		"<" + tag + ` Level="` + level + `"/>` + "\n"
}
