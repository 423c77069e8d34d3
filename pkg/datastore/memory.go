package datastore

import (
	"sort"
	"sync"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/types"
)

// MemoryStore is an EntityStore held in a map. It hands out copies so
// callers cannot mutate stored entities behind its back.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[int]*types.Entity
	nextID   int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entities: make(map[int]*types.Entity),
		nextID:   1,
	}
}

func (s *MemoryStore) Get(id int) (*types.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[id]
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "entity %d not found", id)
	}
	return e.Clone(), nil
}

func (s *MemoryStore) GetByKey(kind types.EntityKind, key string) (*types.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entities {
		if e.Kind == kind && e.Key == key {
			return e.Clone(), nil
		}
	}
	return nil, errors.Newf(errors.ErrNotFound, "%s %s not found", kind, key)
}

func (s *MemoryStore) GetChildren(parentID int, opts ...QueryOption) ([]*types.Entity, error) {
	q := BuildQuery(opts...)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var children []*types.Entity
	for _, e := range s.entities {
		if !isChildOf(e, parentID) || !q.Matches(e) {
			continue
		}
		children = append(children, e.Clone())
	}
	sortByID(children)
	return children, nil
}

func (s *MemoryStore) Save(e *types.Entity) (*types.Entity, error) {
	if e == nil {
		return nil, errors.New(errors.ErrInvalidInput, "cannot save nil entity")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Key != "" {
		for id, existing := range s.entities {
			if id != e.ID && existing.Kind == e.Kind && existing.Key == e.Key {
				return nil, errors.Newf(errors.ErrAlreadyExists, "%s with key %s already exists as %d", e.Kind, e.Key, id)
			}
		}
	}

	stored := e.Clone()
	if stored.ID == 0 {
		stored.ID = s.nextID
		s.nextID++
	} else if stored.ID >= s.nextID {
		s.nextID = stored.ID + 1
	}
	s.entities[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *MemoryStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[id]; !ok {
		return errors.Newf(errors.ErrNotFound, "entity %d not found", id)
	}
	for _, e := range s.entities {
		if e.ParentID == id {
			return errors.Newf(errors.ErrInvalidInput, "entity %d still has children", id)
		}
	}
	delete(s.entities, id)
	return nil
}

func (s *MemoryStore) All(kind types.EntityKind) ([]*types.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*types.Entity
	for _, e := range s.entities {
		if kind == "" || e.Kind == kind {
			all = append(all, e.Clone())
		}
	}
	sortByID(all)
	return all, nil
}

// Len returns the number of stored entities.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

func isChildOf(e *types.Entity, parentID int) bool {
	if parentID <= 0 {
		return e.ParentID <= 0
	}
	return e.ParentID == parentID
}

func sortByID(entities []*types.Entity) {
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ID < entities[j].ID
	})
}
