// Package config loads server settings from defaults, an optional YAML file,
// FLASHDECK_-prefixed environment variables and command-line flags, in
// increasing order of precedence. The result is validated with struct tags
// before any component sees it.
package config
