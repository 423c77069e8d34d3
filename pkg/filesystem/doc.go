// Package filesystem provides filesystem implementations for synctree.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed one used by
// tests and dry runs, plus FileService, the directory/record adapter the
// synchronization engine walks.
package filesystem
