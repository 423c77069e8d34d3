// Package config handles configuration management for synctree.
// It supports loading configuration from multiple sources including
// embedded defaults, TOML files, environment variables, and command-line
// flags, plus per-folder handler settings.
package config
