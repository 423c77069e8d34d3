// Package datastore provides the entity stores the synchronization engine
// reads and mutates: an in-memory store that can be persisted as a YAML
// snapshot, and (in the mongo subpackage) a MongoDB-backed store.
package datastore
