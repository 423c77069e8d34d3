// Package registry keeps the handler factories available to a sync run,
// keyed by entity kind. Kind packages register themselves from init().
package registry
