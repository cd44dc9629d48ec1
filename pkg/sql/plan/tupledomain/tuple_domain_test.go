// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tupledomain

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	require.Equal(t, -1, MakeInt(1).Compare(MakeInt(2)))
	require.Equal(t, 0, MakeInt(2).Compare(MakeInt(2)))
	require.Equal(t, 1, MakeString("b").Compare(MakeString("a")))
	// Integers sort before strings.
	require.Equal(t, -1, MakeInt(100).Compare(MakeString("a")))

	require.Equal(t, "42", MakeInt(42).String())
	require.Equal(t, "'it''s'", MakeString("it's").String())

	for _, v := range []Value{MakeInt(-7), MakeString("x\"y")} {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		var res Value
		require.NoError(t, json.Unmarshal(b, &res))
		require.Equal(t, v, res)
	}
	var v Value
	require.Error(t, json.Unmarshal([]byte("1.5"), &v))
	_, err := json.Marshal(Value{})
	require.Error(t, err)
}

func TestDomain(t *testing.T) {
	one, five, ten := MakeInt(1), MakeInt(5), MakeInt(10)

	testCases := []struct {
		d        Domain
		expected string
	}{
		{DomainAll(), "ALL"},
		{DomainNone(), "NONE"},
		{SingleValue(five), "5"},
		{DomainOf(Between(one, ten)), "[1, 10]"},
		{DomainOf(GreaterThan(one)), "(1, +inf)"},
		{DomainOf(LessThanOrEqual(ten)), "(-inf, 10]"},
		{DomainOf(LessThan(one), GreaterThan(ten)), "(-inf, 1) (10, +inf)"},
		// Overlapping and adjacent ranges are merged.
		{DomainOf(Between(five, ten), Between(one, five)), "[1, 10]"},
		{DomainOf(LessThan(five), GreaterThanOrEqual(five)), "ALL"},
		// Empty ranges are dropped.
		{DomainOf(Between(ten, one)), "NONE"},
		{DomainOf(Range{low: Bound{value: five}, high: Bound{value: five, inclusive: true}}), "NONE"},
		{DomainOf(Between(one, ten)).Intersect(DomainOf(GreaterThan(five))), "(5, 10]"},
		{DomainOf(LessThan(one)).Intersect(DomainOf(GreaterThan(ten))), "NONE"},
		{DomainOf(Between(one, ten)).Intersect(DomainAll()), "[1, 10]"},
		{
			DomainOf(LessThan(five), GreaterThan(five)).Intersect(DomainOf(Between(one, ten))),
			"[1, 5) (5, 10]",
		},
		{SingleValue(one).Union(SingleValue(ten)), "1 10"},
		{DomainOf(Between(one, five)).Union(DomainOf(GreaterThan(five))), "[1, +inf)"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, tc.d.String())
	}

	d := DomainOf(Between(one, five), GreaterThan(ten))
	require.True(t, d.Contains(one))
	require.True(t, d.Contains(MakeInt(11)))
	require.False(t, d.Contains(ten))
	require.Equal(t, 2, d.RangeCount())
	require.True(t, d.Range(0).contains(MakeInt(3)))

	v, ok := SingleValue(five).SingleValue()
	require.True(t, ok)
	require.Equal(t, five, v)
	_, ok = d.SingleValue()
	require.False(t, ok)

	require.True(t, DomainOf(Between(one, ten)).Equal(DomainOf(Between(one, five), Between(five, ten))))
	require.False(t, DomainOf(Between(one, ten)).Equal(DomainOf(GreaterThanOrEqual(one))))
}

func TestTupleDomain(t *testing.T) {
	a := handle.MakeColumn("tpch", "orders.a")
	b := handle.MakeColumn("tpch", "orders.b")

	require.True(t, All().IsAll())
	require.True(t, TupleDomain{}.IsAll())
	require.True(t, None().IsNone())
	require.False(t, None().IsAll())
	require.Equal(t, "ALL", All().String())
	require.Equal(t, "NONE", None().String())

	td := FromColumnDomains(
		ColumnDomain{Column: b, Domain: SingleValue(MakeString("x"))},
		ColumnDomain{Column: a, Domain: DomainOf(Between(MakeInt(1), MakeInt(10)))},
		ColumnDomain{Column: a, Domain: DomainOf(GreaterThan(MakeInt(5)))},
	)
	require.Equal(t, "{tpch:orders.a: (5, 10], tpch:orders.b: 'x'}", td.String())

	d, ok := td.Domain(a)
	require.True(t, ok)
	require.Equal(t, "(5, 10]", d.String())
	c := handle.MakeColumn("tpch", "orders.c")
	d, ok = td.Domain(c)
	require.False(t, ok)
	require.True(t, d.IsAll())

	// ALL column domains are dropped, a NONE column domain makes the whole
	// TupleDomain NONE.
	require.True(t, FromColumnDomains(ColumnDomain{Column: a, Domain: DomainAll()}).IsAll())
	require.True(t, FromColumnDomains(
		ColumnDomain{Column: a, Domain: SingleValue(MakeInt(1))},
		ColumnDomain{Column: b, Domain: DomainNone()},
	).IsNone())

	require.True(t, td.Intersect(All()).Equal(td))
	require.True(t, All().Intersect(td).Equal(td))
	require.True(t, td.Intersect(None()).IsNone())
	require.True(t, td.Intersect(FromColumnDomains(
		ColumnDomain{Column: a, Domain: DomainOf(LessThan(MakeInt(3)))},
	)).IsNone())

	onlyA := td.Filter(func(col handle.ColumnHandle) bool { return col == a })
	require.Equal(t, "{tpch:orders.a: (5, 10]}", onlyA.String())
	require.True(t, None().Filter(func(handle.ColumnHandle) bool { return false }).IsNone())

	require.Len(t, td.ColumnDomains(), 2)
	require.Nil(t, All().ColumnDomains())
	require.False(t, td.Equal(onlyA))
	require.True(t, None().Equal(None()))
	require.False(t, None().Equal(All()))
}
