// Package config loads, normalizes, and validates quarry configuration.
//
// Configuration is read from TOML (default ~/.config/quarry/config.toml or a
// project-local quarry.toml), layered over repository defaults, and then
// adjusted by QUARRY_* environment variables. The package also owns
// ResolveBaseAddress, which derives the remote service address from an
// explicit override or the configured origin without touching the network.
package config
