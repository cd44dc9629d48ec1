// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package treeprinter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreePrinter(t *testing.T) {
	tp := New()
	root := tp.Child("root")
	root.Child("1.1")
	n12 := root.Childf("1.%d", 2)
	n12.Child("1.2.1")
	n12.Child("1.2.2").Child("1.2.2.1")
	root.Child("1.3")

	expected := `root
 ├── 1.1
 ├── 1.2
 │    ├── 1.2.1
 │    └── 1.2.2
 │         └── 1.2.2.1
 └── 1.3
`
	require.Equal(t, expected, tp.String())
	// Any node renders the whole tree.
	require.Equal(t, expected, n12.String())
}

func TestTreePrinterEmpty(t *testing.T) {
	require.Equal(t, "", New().String())
	tp := New()
	tp.Child("leaf")
	require.Equal(t, "leaf\n", tp.String())
}
