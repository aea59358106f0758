// Package config handles configuration loading and merging for nin and cb.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--editor, --build-dir, --cache_dir, --skip, -w, --debug)
//  2. Environment variables (NIN_EDITOR, NIN_LOG_LEVEL, NIN_NO_COLOR, NO_COLOR)
//  3. Config file (.nin.yaml or .nin.toml in the working directory, else
//     $XDG_CONFIG_HOME/nin/)
//  4. Hardcoded defaults
//
// NIN_CONFIG names a config file explicitly and skips the search.
//
// # File Format
//
// YAML and TOML use the same keys:
//
//	editor: code
//	editor_args: ["--reuse-window", "--goto"]
//	ninja: ninja
//	cbuild: cbuild
//	build_dir: build
//	cache_dir: ""
//	skip: 0
//	warnings_as_errors: false
//	no_color: false
//	log_level: warn
//
// An empty cache_dir means the tool's own default: the build directory for
// nin, .devlocal for cb.
package config
