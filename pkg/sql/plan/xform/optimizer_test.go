// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/sql/plan/cat"
	"github.com/cockroachdb/planir/pkg/sql/plan/cat/memcat"
	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/cockroachdb/planir/pkg/sql/plan/planbuilder"
	"github.com/cockroachdb/planir/pkg/sql/plan/planviz"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
	"github.com/cockroachdb/planir/pkg/util/leaktest"
	"github.com/cockroachdb/planir/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
connector: tpch
tables:
  - name: orders
    columns: [a, b, c]
    indexes:
      - [a]
      - [b, c]
  - name: lineitem
    columns: [x, y]
    indexes:
      - [x]
`

func testCat(t *testing.T) *memcat.Catalog {
	t.Helper()
	c, err := memcat.Parse([]byte(testCatalog))
	require.NoError(t, err)
	return c
}

// build builds a YAML query against the test catalog and returns the plan
// along with the allocator that produced its ids.
func build(t *testing.T, c cat.Catalog, query string) (plan.Node, *plan.IDAllocator) {
	t.Helper()
	b := planbuilder.New(c, nil)
	n, err := b.BuildYAML(context.Background(), []byte(query))
	require.NoError(t, err)
	return n, b.IDs()
}

// TestOptimize runs the optimizer over the queries in testdata/optimize. The
// commands are:
//
//   - build [verbose]: builds the query and prints the initial plan.
//   - optimize [verbose] [parallel] [disable=<pass>,...] [max-iterations=<n>]:
//     builds and optimizes the query and prints the final plan.
//
// verbose adds scan assignments to the output.
func TestOptimize(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	datadriven.RunTest(t, "testdata/optimize", func(t *testing.T, d *datadriven.TestData) string {
		ctx := context.Background()
		c := testCat(t)
		settings := DefaultSettings()
		var flags planviz.Flags
		for _, arg := range d.CmdArgs {
			switch arg.Key {
			case "verbose":
				flags |= planviz.ShowAssignments
			case "parallel":
				settings.Parallel = true
			case "disable":
				settings.DisabledPasses = append(settings.DisabledPasses, arg.Vals...)
			case "max-iterations":
				n, err := strconv.Atoi(arg.Vals[0])
				require.NoError(t, err)
				settings.MaxIterations = n
			default:
				d.Fatalf(t, "unknown argument %s", arg.Key)
			}
		}

		b := planbuilder.New(c, nil)
		root, err := b.BuildYAML(ctx, []byte(d.Input))
		if err != nil {
			return "error: " + err.Error() + "\n"
		}
		switch d.Cmd {
		case "build":
			return planviz.Explain(root, flags)

		case "optimize":
			o, err := NewOptimizer(c, b.IDs(), settings, nil, nil)
			if err != nil {
				return "error: " + err.Error() + "\n"
			}
			res, err := o.Optimize(ctx, root)
			if err != nil {
				return "error: " + err.Error() + "\n"
			}
			return planviz.Explain(res, flags)
		}
		d.Fatalf(t, "unknown command %s", d.Cmd)
		return ""
	})
}

const joinQuery = `
project: [a, y]
input:
  filter: "b > 5 AND y = 2 AND (a = 1 OR y = 3)"
  input:
    join:
      on: [[a, x]]
      left: {scan: orders}
      right: {scan: lineitem}
`

func TestOptimizeKeepsScanIdentity(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	c := testCat(t)
	root, ids := build(t, c, `{filter: "a >= 1 AND a < 10 AND c = 'x'", input: {scan: orders}}`)
	o, err := NewOptimizer(c, ids, DefaultSettings(), nil, nil)
	require.NoError(t, err)
	res, err := o.Optimize(ctx, root)
	require.NoError(t, err)

	// The scan keeps its id; the conjuncts on the index column are enforced by
	// the layout and only the one on c remains, in the original filter.
	f := res.(*plan.FilterNode)
	require.Equal(t, root.ID(), f.ID())
	require.Equal(t, "c = 'x'", f.Predicate().String())
	s := f.Input().(*plan.ScanNode)
	require.Equal(t, root.Child(0).ID(), s.ID())
	layout, ok := s.Layout()
	require.True(t, ok)
	require.Equal(t, handle.MakeLayout("tpch", "orders[a]"), layout)
	constraint, err := s.CurrentConstraint()
	require.NoError(t, err)
	require.Equal(t, "{tpch:orders.a: [1, 10), tpch:orders.c: 'x'}", constraint.String())

	// The input plan is untouched.
	orig := root.Child(0).(*plan.ScanNode)
	_, ok = orig.Layout()
	require.False(t, ok)

	// Optimizing the result again changes nothing.
	again, err := o.Optimize(ctx, res)
	require.NoError(t, err)
	require.Same(t, res, again)
}

func TestOptimizeParallel(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	c := testCat(t)
	var outputs []string
	for _, parallel := range []bool{false, true} {
		root, ids := build(t, c, joinQuery)
		settings := DefaultSettings()
		settings.Parallel = parallel
		o, err := NewOptimizer(c, ids, settings, nil, nil)
		require.NoError(t, err)
		res, err := o.Optimize(ctx, root)
		require.NoError(t, err)
		outputs = append(outputs, planviz.Explain(res, planviz.ShowAssignments))
	}
	require.Equal(t, outputs[0], outputs[1])
}

// nestedJoinQuery has a join on each side of a join. Each inner join filter
// ends up in a new filter above a lineitem scan.
const nestedJoinQuery = `
join:
  left:
    join:
      on: [[a, x]]
      filter: "y = 2"
      left: {scan: orders}
      right: {scan: lineitem}
  right:
    join:
      on: [[a_1, x_1]]
      filter: "y_1 = 3"
      left: {scan: orders}
      right: {scan: lineitem}
`

func TestOptimizeParallelFilterIDs(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	c := testCat(t)
	optimize := func(parallel bool) string {
		root, ids := build(t, c, nestedJoinQuery)
		settings := DefaultSettings()
		settings.Parallel = parallel
		o, err := NewOptimizer(c, ids, settings, nil, nil)
		require.NoError(t, err)
		res, err := o.Optimize(ctx, root)
		require.NoError(t, err)
		return planviz.Explain(res, 0)
	}

	expected := optimize(false)
	// The builder hands out ids 1 to 7; the new filters are numbered in
	// post-order.
	require.Contains(t, expected, "filter 8\n")
	require.Contains(t, expected, "filter 9\n")
	require.Less(t, strings.Index(expected, "filter 8"), strings.Index(expected, "filter 9"))
	for i := 0; i < 20; i++ {
		require.Equal(t, expected, optimize(true))
	}
}

func TestOptimizeDuplicateScanOutputs(t *testing.T) {
	defer leaktest.AfterTest(t)()
	scope := log.Scope(t)
	defer scope.Close(t)

	ctx := context.Background()
	c := testCat(t)
	orders := handle.MakeTable("tpch", "orders")
	root, err := plan.NewScan("1", orders, []plan.Symbol{"a", "a"},
		plan.MakeAssignments(map[plan.Symbol]handle.ColumnHandle{
			"a": handle.MakeColumn("tpch", "orders.a"),
		}), nil)
	require.NoError(t, err)

	m := NewMetrics()
	o, err := NewOptimizer(c, &plan.IDAllocator{}, DefaultSettings(), m, nil)
	require.NoError(t, err)
	res, err := o.Optimize(ctx, root)
	require.NoError(t, err)

	s := res.(*plan.ScanNode)
	require.Equal(t, []plan.Symbol{"a", "a"}, s.Outputs())
	require.Equal(t, 1, s.Assignments().Len())
	_, ok := s.Layout()
	require.True(t, ok)
	// The scan is already pruned, so only pick-layouts changes it.
	require.Equal(t, 0.0, testutil.ToFloat64(m.PassChanges.WithLabelValues("prune-columns")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.PassRuns.WithLabelValues("prune-columns")))
	require.NotContains(t, scope.Contents(), "did not converge")

	again, err := o.Optimize(ctx, res)
	require.NoError(t, err)
	require.Same(t, res, again)
}

func TestOptimizeMetrics(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	c := testCat(t)
	m := NewMetrics()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, m.Register(reg))
	// Metrics can only be registered once per registry.
	require.Error(t, m.Register(reg))

	root, ids := build(t, c, `{filter: "a = 1", input: {scan: orders}}`)
	o, err := NewOptimizer(c, ids, DefaultSettings(), m, nil)
	require.NoError(t, err)
	_, err = o.Optimize(ctx, root)
	require.NoError(t, err)

	// The first iteration pushes the filter into the scan; the second finds
	// nothing to do.
	require.Equal(t, 2.0, testutil.ToFloat64(m.PassRuns.WithLabelValues("pushdown")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PassChanges.WithLabelValues("pushdown")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.PassChanges.WithLabelValues("pick-layouts")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.PassRuns.WithLabelValues("prune-columns")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ScanRefinements))
	require.Equal(t, 1, testutil.CollectAndCount(m.Iterations))

	problems, err := testutil.GatherAndLint(reg)
	require.NoError(t, err)
	require.Empty(t, problems)
}

// failingCatalog resolves tables but fails to resolve layouts.
type failingCatalog struct {
	cat.Catalog
}

var errNoLayout = errors.New("layouts are unavailable")

func (failingCatalog) ResolveLayout(
	context.Context, handle.TableHandle, tupledomain.TupleDomain,
) (cat.LayoutResult, error) {
	return cat.LayoutResult{}, errNoLayout
}

func TestOptimizeErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	c := failingCatalog{testCat(t)}

	t.Run("catalog", func(t *testing.T) {
		for _, parallel := range []bool{false, true} {
			root, ids := build(t, c, joinQuery)
			settings := DefaultSettings()
			settings.Parallel = parallel
			o, err := NewOptimizer(c, ids, settings, nil, nil)
			require.NoError(t, err)
			_, err = o.Optimize(ctx, root)
			require.True(t, errors.Is(err, errNoLayout), "%+v", err)
		}
	})

	t.Run("pick-layouts", func(t *testing.T) {
		root, ids := build(t, c, `scan: orders`)
		o, err := NewOptimizer(c, ids, DefaultSettings(), nil, []Pass{PickLayouts{}})
		require.NoError(t, err)
		_, err = o.Optimize(ctx, root)
		require.True(t, errors.Is(err, errNoLayout), "%+v", err)
	})

	t.Run("runtime error", func(t *testing.T) {
		root, ids := build(t, testCat(t), `scan: orders`)
		o, err := NewOptimizer(testCat(t), ids, DefaultSettings(), nil, []Pass{outOfRange{}})
		require.NoError(t, err)
		_, err = o.Optimize(ctx, root)
		require.Error(t, err)
		require.True(t, errors.HasAssertionFailure(err), "%+v", err)
	})

	t.Run("canceled", func(t *testing.T) {
		root, ids := build(t, testCat(t), `scan: orders`)
		o, err := NewOptimizer(testCat(t), ids, DefaultSettings(), nil, nil)
		require.NoError(t, err)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = o.Optimize(cctx, root)
		require.True(t, errors.Is(err, context.Canceled), "%+v", err)
	})
}

// outOfRange is a pass with a bug.
type outOfRange struct{}

func (outOfRange) Name() string { return "out-of-range" }

func (outOfRange) Apply(_ context.Context, _ *PassContext, root plan.Node) plan.Node {
	outputs := root.Outputs()
	_ = outputs[len(outputs)+1]
	return root
}

// relimit rebuilds the root limit on every application, so the optimizer
// never reaches a fixpoint.
type relimit struct{}

func (relimit) Name() string { return "relimit" }

func (relimit) Apply(_ context.Context, pc *PassContext, root plan.Node) plan.Node {
	l := root.(*plan.LimitNode)
	return must(plan.NewLimit(l.ID(), l.Input(), l.Count()))
}

func TestOptimizeMaxIterations(t *testing.T) {
	defer leaktest.AfterTest(t)()
	scope := log.Scope(t)
	defer scope.Close(t)

	ctx := context.Background()
	c := testCat(t)
	root, ids := build(t, c, `{limit: 3, input: {scan: orders}}`)
	settings := DefaultSettings()
	settings.MaxIterations = 3
	m := NewMetrics()
	o, err := NewOptimizer(c, ids, settings, m, []Pass{relimit{}})
	require.NoError(t, err)
	res, err := o.Optimize(ctx, root)
	require.NoError(t, err)
	require.NotSame(t, root, res)
	require.Equal(t, 3.0, testutil.ToFloat64(m.PassRuns.WithLabelValues("relimit")))
	require.Contains(t, scope.Contents(), "plan did not converge after 3 iterations")
}

func TestNewOptimizerValidation(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	c := testCat(t)
	settings := DefaultSettings()
	settings.DisabledPasses = []string{"reorder-joins"}
	_, err := NewOptimizer(c, nil, settings, nil, nil)
	require.EqualError(t, err, `unknown pass "reorder-joins"`)

	_, err = NewOptimizer(c, nil, Settings{}, nil, nil)
	require.EqualError(t, err, "max_iterations must be at least 1, got 0")

	// Disabling every pass leaves the plan alone.
	settings.DisabledPasses = []string{"pushdown", "pick-layouts", "prune-columns"}
	root, ids := build(t, c, `{filter: "a = 1", input: {scan: orders}}`)
	o, err := NewOptimizer(c, ids, settings, nil, nil)
	require.NoError(t, err)
	res, err := o.Optimize(context.Background(), root)
	require.NoError(t, err)
	require.Same(t, root, res)
}

func TestSettings(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	s, err := ParseSettings([]byte(`
parallel: true
disabled_passes: [prune-columns]
`))
	require.NoError(t, err)
	require.Equal(t, Settings{
		MaxIterations:  DefaultMaxIterations,
		Parallel:       true,
		DisabledPasses: []string{"prune-columns"},
	}, s)
	require.False(t, s.PassEnabled("prune-columns"))
	require.True(t, s.PassEnabled("pushdown"))

	for _, tc := range []struct {
		in, err string
	}{
		{`max_iterations: 0`, "max_iterations must be at least 1"},
		{`max_iterations: many`, "parsing optimizer settings"},
		{`paralel: true`, "parsing optimizer settings"},
	} {
		_, err := ParseSettings([]byte(tc.in))
		require.Error(t, err, tc.in)
		require.True(t, strings.Contains(err.Error(), tc.err), "%s: %v", tc.in, err)
	}

	_, err = LoadSettings("testdata/does-not-exist.yaml")
	require.ErrorContains(t, err, "reading optimizer settings")
}
