// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
	"github.com/cockroachdb/planir/pkg/util/leaktest"
	"github.com/cockroachdb/planir/pkg/util/log"
	"github.com/stretchr/testify/require"
)

var (
	testTable  = handle.MakeTable("tpch", "orders")
	testLayout = handle.MakeLayout("tpch", "orders[a]")
	colA       = handle.MakeColumn("tpch", "orders.a")
	colB       = handle.MakeColumn("tpch", "orders.b")
	colC       = handle.MakeColumn("tpch", "orders.c")
)

func testAssignments() Assignments {
	return MakeAssignments(map[Symbol]handle.ColumnHandle{"a": colA, "b": colB, "c": colC})
}

// aBetween1And10 is the constraint colA ∈ [1, 10].
func aBetween1And10() tupledomain.TupleDomain {
	return tupledomain.FromColumnDomains(tupledomain.ColumnDomain{
		Column: colA,
		Domain: tupledomain.DomainOf(tupledomain.Between(tupledomain.MakeInt(1), tupledomain.MakeInt(10))),
	})
}

func TestScanConstruction(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	t.Run("superset assignments", func(t *testing.T) {
		s, err := NewScan("1", testTable, []Symbol{"a", "b"}, testAssignments(), nil)
		require.NoError(t, err)
		require.Equal(t, []Symbol{"a", "b"}, s.Outputs())
		require.Equal(t, 3, s.Assignments().Len())
		require.Equal(t, []Symbol{"a", "b", "c"}, s.Assignments().Symbols())
		require.Empty(t, s.Children())
		require.Equal(t, 0, s.ChildCount())
		_, ok := s.Layout()
		require.False(t, ok)
		require.Equal(t, testTable, s.Table())
		require.Equal(t, ScanKind, s.Kind())
	})

	t.Run("missing assignment", func(t *testing.T) {
		_, err := NewScan("1", testTable, []Symbol{"a", "b"},
			MakeAssignments(map[Symbol]handle.ColumnHandle{"a": colA}), nil)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidArgument), "%+v", err)
		require.Contains(t, err.Error(), `"b"`)
	})

	t.Run("constraint requires layout", func(t *testing.T) {
		_, err := NewPlannerScan("1", testTable, []Symbol{"a"}, testAssignments(), nil,
			ConstraintOf(aBetween1And10()))
		require.True(t, errors.Is(err, ErrInvalidArgument), "%+v", err)

		layout := testLayout
		s, err := NewPlannerScan("1", testTable, []Symbol{"a"}, testAssignments(), &layout,
			ConstraintOf(aBetween1And10()))
		require.NoError(t, err)
		d, err := s.CurrentConstraint()
		require.NoError(t, err)
		require.True(t, d.Equal(aBetween1And10()))
	})

	t.Run("ALL constraint needs no layout", func(t *testing.T) {
		s, err := NewPlannerScan("1", testTable, []Symbol{"a"}, testAssignments(), nil,
			ConstraintOf(tupledomain.All()))
		require.NoError(t, err)
		d, err := s.CurrentConstraint()
		require.NoError(t, err)
		require.True(t, d.IsAll())
	})

	t.Run("NONE constraint needs a layout", func(t *testing.T) {
		_, err := NewPlannerScan("1", testTable, nil, testAssignments(), nil,
			ConstraintOf(tupledomain.None()))
		require.True(t, errors.Is(err, ErrInvalidArgument), "%+v", err)
	})

	t.Run("absent constraint", func(t *testing.T) {
		s, err := NewScan("1", testTable, []Symbol{"a"}, testAssignments(), nil)
		require.NoError(t, err)
		require.False(t, s.PlannerConstraint().IsPresent())
		_, err = s.CurrentConstraint()
		require.True(t, errors.Is(err, ErrIllegalState), "%+v", err)
		// The error is returned as created, with no wrapping layer.
		require.Equal(t, "scan 1: current constraint is only available in the planner; "+
			"it is not transported to workers", errors.UnwrapAll(err).Error())
	})

	t.Run("zero table", func(t *testing.T) {
		_, err := NewScan("1", handle.TableHandle{}, nil, Assignments{}, nil)
		require.True(t, errors.Is(err, ErrInvalidArgument), "%+v", err)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := NewScan("", testTable, nil, Assignments{}, nil)
		require.True(t, errors.Is(err, ErrInvalidArgument), "%+v", err)
	})

	t.Run("outputs are copied", func(t *testing.T) {
		outputs := []Symbol{"a", "b"}
		s, err := NewScan("1", testTable, outputs, testAssignments(), nil)
		require.NoError(t, err)
		outputs[0] = "c"
		require.Equal(t, []Symbol{"a", "b"}, s.Outputs())
	})
}

func TestScanWithChildren(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	s, err := NewScan("1", testTable, []Symbol{"a"}, testAssignments(), nil)
	require.NoError(t, err)

	n, err := s.WithChildren()
	require.NoError(t, err)
	require.Equal(t, s, n)

	_, err = s.WithChildren(s)
	require.True(t, errors.Is(err, ErrInvalidArgument), "%+v", err)
	_, err = s.WithChildren(s, s)
	require.True(t, errors.Is(err, ErrInvalidArgument), "%+v", err)

	require.Panics(t, func() { s.Child(0) })
}

func TestScanDerivations(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	s, err := NewPlannerScan("7", testTable, []Symbol{"a", "b"}, testAssignments(), nil,
		ConstraintOf(tupledomain.All()))
	require.NoError(t, err)

	refined, err := s.WithRefinement(testLayout, aBetween1And10())
	require.NoError(t, err)
	require.NotSame(t, s, refined)
	require.Equal(t, s.ID(), refined.ID())
	layout, ok := refined.Layout()
	require.True(t, ok)
	require.Equal(t, testLayout, layout)
	d, err := refined.CurrentConstraint()
	require.NoError(t, err)
	require.True(t, d.Equal(aBetween1And10()))

	// The original is untouched.
	_, ok = s.Layout()
	require.False(t, ok)
	d, err = s.CurrentConstraint()
	require.NoError(t, err)
	require.True(t, d.IsAll())

	pruned, err := refined.WithOutputs([]Symbol{"b"}, refined.Assignments().Restrict([]Symbol{"b"}))
	require.NoError(t, err)
	require.Equal(t, []Symbol{"b"}, pruned.Outputs())
	require.Equal(t, 1, pruned.Assignments().Len())
	_, ok = pruned.Layout()
	require.True(t, ok)
	d, err = pruned.CurrentConstraint()
	require.NoError(t, err)
	require.True(t, d.Equal(aBetween1And10()))

	_, err = refined.WithOutputs([]Symbol{"a"}, refined.Assignments().Restrict([]Symbol{"b"}))
	require.True(t, errors.Is(err, ErrInvalidArgument), "%+v", err)

	other := handle.MakeLayout("tpch", "orders[b]")
	relaid, err := refined.WithLayout(other)
	require.NoError(t, err)
	layout, _ = relaid.Layout()
	require.Equal(t, other, layout)
}

func TestScanString(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	s, err := NewScan("1", testTable, []Symbol{"a", "b"}, testAssignments(), nil)
	require.NoError(t, err)
	require.Equal(t,
		"ScanNode{id=1, table=tpch:orders, layout=<none>, outputSymbols=[a b], "+
			"assignments={a=tpch:orders.a, b=tpch:orders.b, c=tpch:orders.c}, "+
			"currentConstraint=<not transported>}",
		s.String())

	refined, err := s.WithRefinement(testLayout, aBetween1And10())
	require.NoError(t, err)
	require.Equal(t,
		"ScanNode{id=1, table=tpch:orders, layout=tpch:orders[a], outputSymbols=[a b], "+
			"assignments={a=tpch:orders.a, b=tpch:orders.b, c=tpch:orders.c}, "+
			"currentConstraint={tpch:orders.a: [1, 10]}}",
		refined.String())
}
