// Package layout decides how entities map onto the on-disk tree: which
// layout mode is in force and what file name and relative path an entity
// is stored under.
package layout

import (
	"path"
	"strings"
	"unicode"

	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/google/uuid"
)

// FromFlag maps the flat-structure setting to a layout mode.
func FromFlag(useFlat bool) types.LayoutMode {
	if useFlat {
		return types.LayoutFlat
	}
	return types.LayoutNested
}

// Resolver computes on-disk identities for entities.
type Resolver struct {
	Mode  types.LayoutMode
	Store datastore.EntityStore
}

// NewResolver creates a resolver for mode reading ancestors from store.
func NewResolver(mode types.LayoutMode, store datastore.EntityStore) *Resolver {
	return &Resolver{Mode: mode, Store: store}
}

// ItemFileName is the base name (without extension) of e's record. Flat
// layouts use the key so renames never move files; nested layouts use the
// sanitized display name. A nil entity gets a fresh random name.
func (r *Resolver) ItemFileName(e *types.Entity) string {
	if e == nil {
		return uuid.NewString()
	}
	if r.Mode == types.LayoutFlat {
		return e.Key
	}
	return SafeFileName(e.Name)
}

// ItemPath is the slash-separated path of e's record relative to the kind
// folder. In nested mode it joins every ancestor's file name from the root
// down. A parent cycle fails with ErrConsistency; a missing ancestor ends
// the walk as if it were a root.
func (r *Resolver) ItemPath(e *types.Entity) (string, error) {
	if r.Mode == types.LayoutFlat || e == nil {
		return r.ItemFileName(e), nil
	}

	var names []string
	visited := make(map[int]bool)
	current := e

	for current != nil {
		if current.ID > 0 {
			if visited[current.ID] {
				return "", errors.Newf(errors.ErrConsistency, "parent cycle at entity %d while resolving path of %q", current.ID, e.Name).
					WithDetail("entity", e.ID)
			}
			visited[current.ID] = true
		}

		names = append(names, r.ItemFileName(current))

		if current.ParentID <= 0 {
			break
		}
		parent, err := r.Store.Get(current.ParentID)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrNotFound) {
				break
			}
			return "", err
		}
		current = parent
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return path.Join(names...), nil
}

// SafeFileName turns a display name into a single portable path segment.
// Separators, reserved punctuation and control characters become '_';
// leading and trailing dots and spaces are dropped.
func SafeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	safe := strings.Trim(b.String(), ". ")
	if safe == "" {
		return "_"
	}
	return safe
}
