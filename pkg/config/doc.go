// Package config handles configuration management for m8db.
// It supports loading configuration from multiple sources including
// embedded defaults, TOML files, environment variables, and command-line flags.
package config
