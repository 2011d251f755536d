// Package file provides the file-based implementation of the config
// store port. Configuration is persisted as TOML on the local
// filesystem.
package file
