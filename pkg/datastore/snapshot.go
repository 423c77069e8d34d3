package datastore

import (
	"path/filepath"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/types"
	"gopkg.in/yaml.v3"
)

type snapshot struct {
	NextID   int             `yaml:"nextId"`
	Entities []*types.Entity `yaml:"entities"`
}

// LoadSnapshot reads a YAML snapshot into a new MemoryStore. A missing
// file yields an empty store.
func LoadSnapshot(fsys types.FS, path string) (*MemoryStore, error) {
	s := NewMemory()

	data, err := fsys.ReadFile(path)
	if err != nil {
		if _, statErr := fsys.Stat(path); statErr != nil {
			return s, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read snapshot %s", path)
	}

	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "cannot parse snapshot %s", path)
	}

	for _, e := range snap.Entities {
		if e == nil || e.ID <= 0 {
			return nil, errors.Newf(errors.ErrParse, "snapshot %s holds an entity without id", path)
		}
		s.entities[e.ID] = e
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
	if snap.NextID > s.nextID {
		s.nextID = snap.NextID
	}
	return s, nil
}

// SaveSnapshot writes the store to path as YAML.
func (s *MemoryStore) SaveSnapshot(fsys types.FS, path string) error {
	all, err := s.All("")
	if err != nil {
		return err
	}

	s.mu.RLock()
	snap := snapshot{NextID: s.nextID, Entities: all}
	s.mu.RUnlock()

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode snapshot")
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create directory for %s", path)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write snapshot %s", path)
	}
	return nil
}
