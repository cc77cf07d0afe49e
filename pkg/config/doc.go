// Package config handles configuration management for packdrop.
// Settings are layered: embedded defaults, an optional packdrop.toml and
// PACKDROP_* environment variables, decoded into Config.
package config
