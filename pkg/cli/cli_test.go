// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/sql/plan/planwire"
	"github.com/cockroachdb/planir/pkg/util/leaktest"
	"github.com/cockroachdb/planir/pkg/util/log"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
connector: tpch
tables:
  - name: orders
    columns: [a, b, c]
    indexes: [[a]]
  - name: lineitem
    columns: [x, y]
`

const testQuery = `
filter: "a > 3 AND b = 'x'"
input: {scan: orders, columns: [a, b]}
`

// writeFiles writes the given files into a temporary directory and returns
// their paths, in order.
func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(contents))
	for i, c := range contents {
		paths[i] = filepath.Join(dir, "file"+string(rune('0'+i))+".yaml")
		require.NoError(t, ioutil.WriteFile(paths[i], []byte(c), 0644))
	}
	return paths
}

// runCLI runs the command line and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	planirCmd.SetOut(&out)
	defer planirCmd.SetOut(nil)
	defer log.SetVerbosity(0)
	err := Run(args)
	return out.String(), err
}

func TestOptimizeCommand(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	files := writeFiles(t, testCatalog, testQuery)
	out, err := runCLI(t, "optimize", "--catalog", files[0], files[1])
	require.NoError(t, err)
	require.Equal(t, `filter 2
 ├── predicate: b = 'x'
 └── scan 1
      ├── table: tpch:orders
      ├── layout: tpch:orders[a]
      ├── columns: a b
      └── constraint: {tpch:orders.a: (3, +inf), tpch:orders.b: 'x'}
`, out)

	out, err = runCLI(t, "optimize", "--catalog", files[0], "--hide-constraints", "--show-assignments", files[1])
	require.NoError(t, err)
	require.Contains(t, out, "assignments: {a=tpch:orders.a, b=tpch:orders.b}")
	require.NotContains(t, out, "constraint")

	// Flags do not leak from one run into the next.
	out, err = runCLI(t, "optimize", "--catalog", files[0], files[1])
	require.NoError(t, err)
	require.Contains(t, out, "constraint")
}

func TestOptimizeJSONRoundTrip(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	files := writeFiles(t, testCatalog, testQuery)
	out, err := runCLI(t, "optimize", "--catalog", files[0], "-f", "json", files[1])
	require.NoError(t, err)
	require.NotContains(t, out, "currentConstraint")

	n, err := planwire.Unmarshal([]byte(out))
	require.NoError(t, err)
	require.Equal(t, plan.FilterKind, n.Kind())
	_, err = n.Child(0).(*plan.ScanNode).CurrentConstraint()
	require.True(t, errors.Is(err, plan.ErrIllegalState))

	// The transport form can be rendered again without planner state.
	planFile := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, ioutil.WriteFile(planFile, []byte(out), 0644))
	out, err = runCLI(t, "explain", planFile)
	require.NoError(t, err)
	require.Contains(t, out, "constraint: <not transported>")

	out, err = runCLI(t, "explain", "--format", "table", planFile)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "(2 nodes)\n"), out)

	out, err = runCLI(t, "explain", "--format", "dot", planFile)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "digraph"), out)
}

func TestOptimizeSettingsAndMetrics(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	files := writeFiles(t, testCatalog, testQuery, "disabled_passes: [pushdown]\n")
	out, err := runCLI(t, "optimize", "--catalog", files[0], "--config", files[2], "--metrics", files[1])
	require.NoError(t, err)
	require.Contains(t, out, "predicate: a > 3 AND b = 'x'")
	require.Contains(t, out, "constraint: ALL")
	require.Contains(t, out, `planir_optimizer_pass_runs_total{pass="pick-layouts"} 2`)
	require.NotContains(t, out, `pass="pushdown"`)
	require.Contains(t, out, "planir_optimizer_iterations_count 1")

	out, err = runCLI(t, "optimize", "--catalog", files[0], "--config", files[2], "--parallel", "-v", "2", files[1])
	require.NoError(t, err)
	require.Contains(t, out, "filter 2")
}

func TestTablesCommand(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	files := writeFiles(t, testCatalog)
	out, err := runCLI(t, "tables", "--catalog", files[0])
	require.NoError(t, err)
	require.Contains(t, out, "tpch:lineitem")
	require.Contains(t, out, "a, b, c")
	require.Less(t, strings.Index(out, "lineitem"), strings.Index(out, "orders"))
	require.True(t, strings.HasSuffix(out, "(2 tables)\n"), out)
}

func TestCommandErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	files := writeFiles(t, testCatalog, testQuery, `{scan: customer}`, "max_iterations: 0\n")
	for _, tc := range []struct {
		args []string
		err  string
	}{
		{[]string{"optimize", files[1]}, "no catalog specified"},
		{[]string{"optimize", "--catalog", files[0]}, "accepts 1 arg(s)"},
		{[]string{"optimize", "--catalog", files[0], "--format", "svg", files[1]}, `invalid plan format: "svg"`},
		{[]string{"optimize", "--catalog", files[0], files[2]}, "building"},
		{[]string{"optimize", "--catalog", files[0], "--config", files[3], files[1]}, "max_iterations must be at least 1"},
		{[]string{"optimize", "--catalog", files[1], files[1]}, "parsing catalog"},
		{[]string{"explain", files[1]}, "decoding plan"},
		{[]string{"tables", "--catalog", filepath.Join(t.TempDir(), "missing.yaml")}, "reading catalog"},
		{[]string{"tables", "--catalog", files[0], "--log-format", "xml"}, "unknown log format"},
	} {
		t.Run(strings.Join(tc.args[:1], " "), func(t *testing.T) {
			_, err := runCLI(t, tc.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.err)
		})
	}
}
