// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from a YAML file (CONFIG_PATH) and can be overridden
// per key through TMS_ prefixed environment variables. Every settings
// block validates itself before use, so subcommands fail early on a bad
// deployment manifest.
package config
