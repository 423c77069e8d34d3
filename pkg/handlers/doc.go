// Package handlers reconciles one entity kind's folder of record files
// with the entity store. A TreeHandler imports a folder in flat or nested
// layout, prunes containers left empty afterwards and exports the store
// back to record files. Kind-specific handlers are registered by
// pkg/handlers/kinds.
package handlers
