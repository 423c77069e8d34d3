package datastore

import "github.com/arthur-debert/synctree/pkg/types"

// EntityStore is the live hierarchy the engine reconciles against.
type EntityStore interface {
	// Get returns the entity with the given id, or an ErrNotFound error.
	Get(id int) (*types.Entity, error)

	// GetByKey finds an entity of kind by its stable key.
	GetByKey(kind types.EntityKind, key string) (*types.Entity, error)

	// GetChildren returns the direct children of parentID ordered by id.
	// Any parentID <= 0 addresses the roots.
	GetChildren(parentID int, opts ...QueryOption) ([]*types.Entity, error)

	// Save inserts an entity with ID 0 or replaces an existing one and
	// returns the stored copy.
	Save(e *types.Entity) (*types.Entity, error)

	// Delete removes a childless entity.
	Delete(id int) error

	// All returns every entity of kind ordered by id.
	All(kind types.EntityKind) ([]*types.Entity, error)
}

// Query narrows a GetChildren call.
type Query struct {
	Kind           types.EntityKind
	ContainersOnly bool
}

// QueryOption configures a Query.
type QueryOption func(*Query)

// OfKind restricts results to one entity kind.
func OfKind(kind types.EntityKind) QueryOption {
	return func(q *Query) { q.Kind = kind }
}

// ContainersOnly restricts results to container entities.
func ContainersOnly() QueryOption {
	return func(q *Query) { q.ContainersOnly = true }
}

// BuildQuery applies options to an empty Query.
func BuildQuery(opts ...QueryOption) Query {
	var q Query
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// Matches reports whether e satisfies the query.
func (q Query) Matches(e *types.Entity) bool {
	if q.Kind != "" && e.Kind != q.Kind {
		return false
	}
	if q.ContainersOnly && !e.Container {
		return false
	}
	return true
}
