// Package types defines the core types and interfaces shared by the
// synchronization engine: entities and their kinds, import outcomes,
// layout modes and the filesystem interface.
package types
