package core

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/datastore/mongostore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/logging"
	"github.com/arthur-debert/synctree/pkg/types"
)

// Store backends accepted in store.backend.
const (
	BackendMemory = "memory"
	BackendYAML   = "yaml"
	BackendMongo  = "mongo"
)

// OpenedStore is an EntityStore plus the function that persists and
// releases it. Close must be called once the run is over.
type OpenedStore struct {
	datastore.EntityStore
	Close func() error
}

// OpenStore creates the store selected by cfg. A relative snapshot path
// is resolved against root. With persist false a YAML snapshot is loaded
// but never written back, and a Mongo store is copied into memory so the
// run cannot change the database.
func OpenStore(cfg config.Store, fsys types.FS, root string, persist bool) (*OpenedStore, error) {
	logger := logging.GetLogger("core.store")

	switch cfg.Backend {
	case BackendMemory:
		return &OpenedStore{EntityStore: datastore.NewMemory(), Close: func() error { return nil }}, nil

	case BackendYAML:
		path := cfg.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		s, err := datastore.LoadSnapshot(fsys, path)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Int("entities", s.Len()).Msg("Loaded snapshot")
		return &OpenedStore{
			EntityStore: s,
			Close: func() error {
				if !persist {
					return nil
				}
				logger.Debug().Str("path", path).Int("entities", s.Len()).Msg("Saving snapshot")
				return s.SaveSnapshot(fsys, path)
			},
		}, nil

	case BackendMongo:
		client, s, err := mongostore.Connect(cfg.URI, cfg.Database, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("database", cfg.Database).Msg("Connected to MongoDB")
		if !persist {
			defer func() {
				_ = client.Disconnect(context.Background())
			}()
			snapshot, err := copyToMemory(s)
			if err != nil {
				return nil, err
			}
			return &OpenedStore{EntityStore: snapshot, Close: func() error { return nil }}, nil
		}
		return &OpenedStore{
			EntityStore: s,
			Close: func() error {
				return client.Disconnect(context.Background())
			},
		}, nil
	}

	return nil, errors.Newf(errors.ErrInvalidInput, "unknown store backend %q", cfg.Backend)
}

// copyToMemory loads every entity of src into a new MemoryStore keeping ids.
func copyToMemory(src datastore.EntityStore) (*datastore.MemoryStore, error) {
	all, err := src.All("")
	if err != nil {
		return nil, err
	}
	dst := datastore.NewMemory()
	for _, e := range all {
		if _, err := dst.Save(e); err != nil {
			return nil, errors.Wrapf(err, errors.ErrStore, "cannot copy entity %d", e.ID)
		}
	}
	return dst, nil
}
