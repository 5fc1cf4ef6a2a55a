// Package config provides the configuration for the arraylist tool.
//
// Settings come from three layers, later ones overriding earlier ones:
//
//	┌──────────────────────────────┐
//	│  3. Environment Variables    │  ← ARRAYLIST_LIST_GROWTH_FACTOR=2
//	├──────────────────────────────┤
//	│  2. Config File              │  ← arraylist.toml / arraylist.yaml
//	├──────────────────────────────┤
//	│  1. Built-in Defaults        │
//	└──────────────────────────────┘
//
// Command line flags are applied on top by the caller.
//
// # File Format
//
//	[list]
//	initialCapacity = 10
//	growthFactor = 1.5
//	maxCapacity = 1000000
//
//	[script]
//	timeout = "5s"
//	callStack = 256
//	allowedPaths = ["./scripts"]
//
//	[log]
//	level = "info"    # trace, debug, info, warn, error, disabled
//	format = "console" # console, json
//
//	[watch]
//	debounce = "200ms"
//
// YAML files use the same keys.
//
// # Environment Variables
//
// ARRAYLIST_<SECTION>_<KEY> maps to section.key with the key in camelCase:
// ARRAYLIST_SCRIPT_CALL_STACK sets script.callStack.
package config
