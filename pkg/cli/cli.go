// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cli implements the planir command: it builds plans from query
// descriptions, optimizes them against a catalog and renders the result,
// either for humans or in the transport form sent to workers.
package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var planirCmd = &cobra.Command{
	Use:   "planir [command] (flags)",
	Short: "plan IR tools",
	Long: `
Build, optimize and inspect distributed query plans.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.EnableCommandSorting = false

	planirCmd.AddCommand(
		optimizeCmd,
		explainCmd,
		tablesCmd,
	)
}

// Main is the entry point of the planir command.
func Main() {
	if err := Run(os.Args[1:]); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(stderr, "HINT: %s\n", hint)
		}
		os.Exit(1)
	}
}

// Run runs the command line with the given arguments.
func Run(args []string) error {
	initCLIDefaults()
	planirCmd.SetArgs(args)
	return planirCmd.Execute()
}

// Proxy to allow overrides in tests.
var stderr = os.Stderr
