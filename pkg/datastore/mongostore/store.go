// Package mongostore provides an EntityStore backed by a MongoDB collection.
package mongostore

import (
	"context"
	"time"

	"github.com/arthur-debert/synctree/pkg/datastore"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	entitiesCollection = "entities"
	countersCollection = "counters"
	entityCounter      = "entity_id"

	// DefaultTimeout bounds every single store call.
	DefaultTimeout = 10 * time.Second
)

// Store provides access to the entities collection.
type Store struct {
	c        *mongo.Collection
	counters *mongo.Collection
	timeout  time.Duration
}

var _ datastore.EntityStore = (*Store)(nil)

// New creates a store on db. A zero timeout uses DefaultTimeout.
func New(db *mongo.Database, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		c:        db.Collection(entitiesCollection),
		counters: db.Collection(countersCollection),
		timeout:  timeout,
	}
}

// Connect dials uri and returns the client with a store on database.
func Connect(uri, database string, timeout time.Duration) (*mongo.Client, *Store, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrStore, "cannot connect to %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrapf(err, errors.ErrStore, "cannot reach %s", uri)
	}

	s := New(client.Database(database), timeout)
	if err := s.EnsureIndexes(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, s, nil
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// EnsureIndexes creates the lookup indexes the store relies on.
func (s *Store) EnsureIndexes() error {
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"key": bson.M{"$gt": ""}}),
		},
		{
			Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "_id", Value: 1}},
		},
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrStore, "cannot create indexes")
	}
	return nil
}

// Get retrieves an entity by ID.
func (s *Store) Get(id int) (*types.Entity, error) {
	return s.findOne(bson.M{"_id": id}, "entity %d not found", id)
}

// GetByKey retrieves an entity by kind and key.
func (s *Store) GetByKey(kind types.EntityKind, key string) (*types.Entity, error) {
	return s.findOne(bson.M{"kind": kind, "key": key}, "%s %s not found", kind, key)
}

func (s *Store) findOne(filter bson.M, notFound string, args ...interface{}) (*types.Entity, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var e types.Entity
	if err := s.c.FindOne(ctx, filter).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Newf(errors.ErrNotFound, notFound, args...)
		}
		return nil, errors.Wrap(err, errors.ErrStore, "find entity")
	}
	return &e, nil
}

// GetChildren returns the direct children of parentID ordered by id.
func (s *Store) GetChildren(parentID int, opts ...datastore.QueryOption) ([]*types.Entity, error) {
	q := datastore.BuildQuery(opts...)

	filter := bson.M{"parent_id": parentID}
	if parentID <= 0 {
		filter["parent_id"] = bson.M{"$lte": 0}
	}
	if q.Kind != "" {
		filter["kind"] = q.Kind
	}
	if q.ContainersOnly {
		filter["container"] = true
	}
	return s.find(filter)
}

// All returns every entity of kind ordered by id. An empty kind lists all.
func (s *Store) All(kind types.EntityKind) ([]*types.Entity, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	return s.find(filter)
}

func (s *Store) find(filter bson.M) ([]*types.Entity, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	cursor, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "list entities")
	}
	defer cursor.Close(ctx)

	var entities []*types.Entity
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "decode entities")
	}
	return entities, nil
}

// Save inserts or replaces an entity.
func (s *Store) Save(e *types.Entity) (*types.Entity, error) {
	if e == nil {
		return nil, errors.New(errors.ErrInvalidInput, "cannot save nil entity")
	}
	stored := e.Clone()

	if stored.ID == 0 {
		id, err := s.nextID()
		if err != nil {
			return nil, err
		}
		stored.ID = id
	}

	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": stored.ID}, stored, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.Wrapf(err, errors.ErrAlreadyExists, "%s with key %s already exists", stored.Kind, stored.Key)
		}
		return nil, errors.Wrap(err, errors.ErrStore, "save entity")
	}
	return stored, nil
}

func (s *Store) nextID() (int, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": entityCounter},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrStore, "allocate entity id")
	}
	return counter.Seq, nil
}

// Delete removes a childless entity.
func (s *Store) Delete(id int) error {
	ctx, cancel := s.ctx()
	defer cancel()

	children, err := s.c.CountDocuments(ctx, bson.M{"parent_id": id})
	if err != nil {
		return errors.Wrap(err, errors.ErrStore, "count children")
	}
	if children > 0 {
		return errors.Newf(errors.ErrInvalidInput, "entity %d still has children", id)
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, errors.ErrStore, "delete entity")
	}
	if res.DeletedCount == 0 {
		return errors.Newf(errors.ErrNotFound, "entity %d not found", id)
	}
	return nil
}
