// Package testutil provides fixtures for synctree tests.
//
// Key components:
//   - TestEnvironment: an in-memory filesystem, file service and entity store
//     wired together under a sync root
//   - RecordSpec: declarative record files written through the record encoder
//   - SeedTree: builds container chains directly in a store
//
// Usage guidelines:
//   - Tests use the in-memory filesystem unless they exercise the OS adapter
//   - All test data is defined inline, not in external files
//   - Each test gets its own environment with no shared state
package testutil
