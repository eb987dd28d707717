// Package config loads comicmeta preferences from a TOML file.
//
// The file holds the Comic Vine API key, an optional API root override and
// the per-request timeout. COMICVINE_API_KEY overrides the file's key. A
// Store re-reads the file when it changes on disk, so a new key takes effect
// without restarting the process.
package config
