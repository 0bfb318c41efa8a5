// Package file provides a TOML file-backed implementation of the
// ConfigStore port. Settings are persisted to a single config.toml
// under the packrat configuration directory, by default ~/.packrat.
package file
