// Package config loads, normalizes, and validates the TOML configuration
// shared by every uplink subcommand. Load applies repository defaults first,
// so a missing config file yields a usable configuration for commands that
// do not need credentials.
package config
