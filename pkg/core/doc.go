// Package core runs a sync command across entity kinds.
//
// Execute walks the configured kinds in order. Each kind lives in its own
// folder below the sync root (<root>/<kind>) with optional per-folder
// settings, and is handled by the TreeHandler registered for it:
//
//   - import: ImportFolder, then ProcessPostImport unless cleaning is off.
//     One ImportMap is shared by every kind in the run.
//   - export: Export into the kind folder.
//   - clean: CleanFolders from the root container.
//
// Per-file and per-container failures are Outcomes, not errors. Execute
// only returns an error when a run cannot start at all.
package core
