// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package handle

import (
	"testing"

	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func TestHandles(t *testing.T) {
	tbl := MakeTable("tpch", "orders")
	require.Equal(t, "tpch:orders", tbl.String())
	require.Equal(t, redact.RedactableString("tpch:‹orders›"), redact.Sprint(tbl))
	require.False(t, tbl.IsZero())
	require.True(t, TableHandle{}.IsZero())
	require.Equal(t, tbl, MakeTable("tpch", "orders"))

	require.Equal(t, "tpch:orders[a]", MakeLayout("tpch", "orders[a]").String())

	a, b := MakeColumn("tpch", "orders.a"), MakeColumn("tpch", "orders.b")
	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 0, a.Compare(a))
	require.Equal(t, 1, MakeColumn("x", "a").Compare(b))
}
