// Package config provides configuration loading and defaults for sweep.
package config

import "time"

// DefaultScanPath is the directory scanned when none is given.
const DefaultScanPath = "."

// DefaultConfigDir is the default location for sweep configuration.
const DefaultConfigDir = "~/.config/sweep"

// DefaultDBName is the filename for the SQLite ledger.
const DefaultDBName = "sweep.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix namespaces environment overrides, e.g. SWEEP_MAX_DEPTH.
const EnvPrefix = "SWEEP"

// DefaultMaxDepth is how many directory levels below the root are searched.
const DefaultMaxDepth = 5

// DefaultMinSize keeps every project with at least one non-empty artifact.
const DefaultMinSize = "0"

// DefaultSort orders results by reclaimable size.
const DefaultSort = "size"

// DefaultProbeTimeout bounds each git invocation.
const DefaultProbeTimeout = 5 * time.Second

// DefaultProbeWorkers is the number of projects probed concurrently.
const DefaultProbeWorkers = 4

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
}
