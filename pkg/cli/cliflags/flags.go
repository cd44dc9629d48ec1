// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cliflags names and documents the flags of the planir command.
package cliflags

// FlagInfo contains the static information for a CLI flag.
type FlagInfo struct {
	// Name of the flag as used on the command line.
	Name string
	// Shorthand is the short form of the flag (optional).
	Shorthand string
	// EnvVar is the name of the environment variable that sets the flag's
	// default value (optional).
	EnvVar string
	// Description of the flag.
	Description string
}

var (
	Catalog = FlagInfo{
		Name:        "catalog",
		EnvVar:      "PLANIR_CATALOG",
		Description: `YAML file defining the tables, columns and indexes that queries refer to.`,
	}

	Config = FlagInfo{
		Name:        "config",
		EnvVar:      "PLANIR_CONFIG",
		Description: `YAML file holding optimizer settings (max_iterations, parallel, disabled_passes).`,
	}

	Format = FlagInfo{
		Name:      "format",
		Shorthand: "f",
		Description: `Output format of the plan: one of explain, table, dot or json. The json
format is the transport form sent to execution workers.`,
	}

	Parallel = FlagInfo{
		Name:        "parallel",
		Description: `Rewrite the inputs of joins concurrently. Overrides the configuration file.`,
	}

	ShowAssignments = FlagInfo{
		Name:        "show-assignments",
		Description: `Include the column assignments of scans in the output.`,
	}

	HideConstraints = FlagInfo{
		Name:        "hide-constraints",
		Description: `Omit the planner constraints of scans from the output.`,
	}

	Metrics = FlagInfo{
		Name:        "metrics",
		Description: `After optimizing, print the optimizer metrics in the Prometheus text format.`,
	}

	Verbosity = FlagInfo{
		Name:        "verbosity",
		Shorthand:   "v",
		Description: `Log verbosity. Level 1 logs optimizer iterations; level 2 logs every rewrite.`,
	}

	LogFormat = FlagInfo{
		Name:        "log-format",
		Description: `Format of log entries written to stderr: crdb-v1 or json.`,
	}

	RedactableLogs = FlagInfo{
		Name:        "redactable-logs",
		Description: `Keep redaction markers around potentially sensitive values in logs.`,
	}
)
