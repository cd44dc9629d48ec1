// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cat contains the interface the planner uses to reach table
// metadata. Handles returned by a Catalog are opaque to the planner: it only
// stores them in plan nodes and passes them back to the catalog.
package cat

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
)

// ErrTableNotFound is returned, possibly wrapped, when a table name does not
// resolve.
var ErrTableNotFound = errors.New("table not found")

// Column describes a column of a Table.
type Column struct {
	Name   string
	Handle handle.ColumnHandle
}

// Table describes a table resolved by name.
type Table struct {
	Name    string
	Handle  handle.TableHandle
	Columns []Column
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// LayoutResult is the access path a catalog chose for a table and a
// constraint.
type LayoutResult struct {
	// Layout is the chosen access path.
	Layout handle.TableLayoutHandle
	// Unenforced is the part of the requested constraint that the layout does
	// not guarantee; rows read through the layout may still violate it. A
	// constraint the layout fully enforces leaves Unenforced ALL.
	Unenforced tupledomain.TupleDomain
}

// Catalog resolves table metadata. Implementations must be safe for
// concurrent use.
type Catalog interface {
	// ResolveTable returns the table with the given name. It fails with an
	// error wrapping ErrTableNotFound if there is none.
	ResolveTable(ctx context.Context, name string) (*Table, error)

	// ResolveLayout chooses an access path for reading the rows of table that
	// satisfy constraint.
	ResolveLayout(
		ctx context.Context, table handle.TableHandle, constraint tupledomain.TupleDomain,
	) (LayoutResult, error)
}
