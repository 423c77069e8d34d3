package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arthur-debert/synctree/pkg/errors"
)

// Registry is a thread-safe map from a string-like key to an item.
type Registry[K ~string, T any] struct {
	mu    sync.RWMutex
	items map[K]T
}

// New creates an empty Registry.
func New[K ~string, T any]() *Registry[K, T] {
	return &Registry[K, T]{items: make(map[K]T)}
}

// Register adds an item. Keys must be non-empty and unique.
func (r *Registry[K, T]) Register(key K, item T) error {
	if key == "" {
		return errors.New(errors.ErrInvalidInput, "registry key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "%q is already registered", string(key))
	}
	r.items[key] = item
	return nil
}

// Get returns the item registered under key.
func (r *Registry[K, T]) Get(key K) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[key]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "%q is not registered", string(key))
	}
	return item, nil
}

// Remove deletes the item registered under key.
func (r *Registry[K, T]) Remove(key K) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; !exists {
		return errors.Newf(errors.ErrNotFound, "%q is not registered", string(key))
	}
	delete(r.items, key)
	return nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry[K, T]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (r *Registry[K, T]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[key]
	return exists
}

func (r *Registry[K, T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// MustRegister registers an item and panics if registration fails.
// Registration errors in init() are programming errors.
func MustRegister[K ~string, T any](reg *Registry[K, T], key K, item T) {
	if err := reg.Register(key, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", string(key), err))
	}
}
