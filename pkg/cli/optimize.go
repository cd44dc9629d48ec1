// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"io/ioutil"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan/cat/memcat"
	"github.com/cockroachdb/planir/pkg/sql/plan/planbuilder"
	"github.com/cockroachdb/planir/pkg/sql/plan/xform"
	"github.com/cockroachdb/planir/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize --catalog <file> [--config <file>] <query.yaml>",
	Short: "build and optimize the plan of a query",
	Long: `
Build the initial plan of the query described in the given YAML file, run the
optimizer over it and print the result. The query refers to the tables of the
catalog given with --catalog.
`,
	Example: `  planir optimize --catalog tpch.yaml q1.yaml
  planir optimize --catalog tpch.yaml --format json q1.yaml > q1.json`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func loadCatalog() (*memcat.Catalog, error) {
	if cliCtx.catalogPath == "" {
		return nil, errors.WithHint(errors.New("no catalog specified"),
			"use --catalog or set PLANIR_CATALOG")
	}
	return memcat.Load(cliCtx.catalogPath)
}

func loadSettings() (xform.Settings, error) {
	settings := xform.DefaultSettings()
	if cliCtx.configPath != "" {
		var err error
		if settings, err = xform.LoadSettings(cliCtx.configPath); err != nil {
			return xform.Settings{}, err
		}
	}
	if cliCtx.parallel {
		settings.Parallel = true
	}
	return settings, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	query, err := ioutil.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "reading query")
	}

	b := planbuilder.New(catalog, nil)
	root, err := b.BuildYAML(ctx, query)
	if err != nil {
		return errors.Wrapf(err, "building %s", args[0])
	}
	log.VEventf(ctx, 1, "built plan of %s", args[0])

	metrics := xform.NewMetrics()
	o, err := xform.NewOptimizer(catalog, b.IDs(), settings, metrics, nil)
	if err != nil {
		return err
	}
	res, err := o.Optimize(ctx, root)
	if err != nil {
		return errors.Wrapf(err, "optimizing %s", args[0])
	}

	w := cmd.OutOrStdout()
	if err := renderPlan(w, res, cliCtx.format, cliCtx.vizFlags()); err != nil {
		return err
	}
	if !cliCtx.metrics {
		return nil
	}
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}
