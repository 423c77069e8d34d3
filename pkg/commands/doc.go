// Package commands implements the synctree commands independently of the
// CLI: it loads configuration for a sync root, opens the configured store,
// runs core.Execute and persists the store afterwards.
package commands
