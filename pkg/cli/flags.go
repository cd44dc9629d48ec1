// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/cli/cliflags"
	"github.com/cockroachdb/planir/pkg/sql/plan/planviz"
	"github.com/cockroachdb/planir/pkg/util/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliContext holds the values of the command line flags. It is reset by
// initCLIDefaults before every run so that tests can run commands
// repeatedly.
type cliContext struct {
	catalogPath string
	configPath  string
	format      planFormat
	parallel    bool
	metrics     bool

	showAssignments bool
	hideConstraints bool

	verbosity      int
	logFormat      string
	redactableLogs bool
}

var cliCtx cliContext

func initCLIDefaults() {
	cliCtx = cliContext{
		catalogPath: os.Getenv(cliflags.Catalog.EnvVar),
		configPath:  os.Getenv(cliflags.Config.EnvVar),
		format:      formatExplain,
		logFormat:   "crdb-v1",
	}
}

func (c *cliContext) vizFlags() planviz.Flags {
	var flags planviz.Flags
	if c.showAssignments {
		flags |= planviz.ShowAssignments
	}
	if c.hideConstraints {
		flags |= planviz.HideConstraints
	}
	return flags
}

// planFormat is the output format of a plan.
type planFormat int

const (
	formatExplain planFormat = iota
	formatTable
	formatDOT
	formatJSON
)

var planFormatNames = []string{
	formatExplain: "explain",
	formatTable:   "table",
	formatDOT:     "dot",
	formatJSON:    "json",
}

var _ pflag.Value = (*planFormat)(nil)

// String implements the pflag.Value interface.
func (f *planFormat) String() string { return planFormatNames[*f] }

// Type implements the pflag.Value interface.
func (f *planFormat) Type() string { return "string" }

// Set implements the pflag.Value interface.
func (f *planFormat) Set(s string) error {
	for i, name := range planFormatNames {
		if s == name {
			*f = planFormat(i)
			return nil
		}
	}
	return errors.WithHintf(errors.Newf("invalid plan format: %q", s),
		"valid formats: %s", strings.Join(planFormatNames, ", "))
}

func flagUsage(info cliflags.FlagInfo) string {
	if info.EnvVar == "" {
		return info.Description
	}
	return fmt.Sprintf("%s\nEnvironment variable: %s", info.Description, info.EnvVar)
}

func stringFlag(f *pflag.FlagSet, valPtr *string, info cliflags.FlagInfo) {
	f.StringVarP(valPtr, info.Name, info.Shorthand, *valPtr, flagUsage(info))
}

func boolFlag(f *pflag.FlagSet, valPtr *bool, info cliflags.FlagInfo) {
	f.BoolVarP(valPtr, info.Name, info.Shorthand, *valPtr, flagUsage(info))
}

func intFlag(f *pflag.FlagSet, valPtr *int, info cliflags.FlagInfo) {
	f.IntVarP(valPtr, info.Name, info.Shorthand, *valPtr, flagUsage(info))
}

func varFlag(f *pflag.FlagSet, value pflag.Value, info cliflags.FlagInfo) {
	f.VarP(value, info.Name, info.Shorthand, flagUsage(info))
}

// setupLogging applies the logging flags. It runs before every command.
func setupLogging(_ *cobra.Command, _ []string) error {
	if err := log.SetFormat(cliCtx.logFormat); err != nil {
		return err
	}
	log.SetVerbosity(int32(cliCtx.verbosity))
	log.SetRedactable(cliCtx.redactableLogs)
	return nil
}

func init() {
	initCLIDefaults()

	planirCmd.PersistentPreRunE = setupLogging
	{
		pf := planirCmd.PersistentFlags()
		intFlag(pf, &cliCtx.verbosity, cliflags.Verbosity)
		stringFlag(pf, &cliCtx.logFormat, cliflags.LogFormat)
		boolFlag(pf, &cliCtx.redactableLogs, cliflags.RedactableLogs)
	}

	// Flags shared by the commands that render plans.
	for _, cmd := range []*cobra.Command{optimizeCmd, explainCmd} {
		f := cmd.Flags()
		varFlag(f, &cliCtx.format, cliflags.Format)
		boolFlag(f, &cliCtx.showAssignments, cliflags.ShowAssignments)
		boolFlag(f, &cliCtx.hideConstraints, cliflags.HideConstraints)
	}

	for _, cmd := range []*cobra.Command{optimizeCmd, tablesCmd} {
		stringFlag(cmd.Flags(), &cliCtx.catalogPath, cliflags.Catalog)
	}

	{
		f := optimizeCmd.Flags()
		stringFlag(f, &cliCtx.configPath, cliflags.Config)
		boolFlag(f, &cliCtx.parallel, cliflags.Parallel)
		boolFlag(f, &cliCtx.metrics, cliflags.Metrics)
	}
}
