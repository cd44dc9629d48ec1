// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package tupledomain implements the constraint representation used for
// predicate pushdown: a conjunction of per-column value domains. A
// TupleDomain is either NONE (no row can satisfy it), or a set of column
// domains of which every column not mentioned is unconstrained. The
// TupleDomain with no column domains is ALL.
package tupledomain

import (
	"sort"
	"strings"

	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
)

// ColumnDomain pairs a column with the domain of values it may take.
type ColumnDomain struct {
	Column handle.ColumnHandle
	Domain Domain
}

// TupleDomain is an immutable conjunction of column domains. The zero value
// is ALL.
type TupleDomain struct {
	none bool
	// cols is sorted by column and never contains ALL or NONE domains.
	cols []ColumnDomain
}

// All returns the TupleDomain that does not constrain any column.
func All() TupleDomain { return TupleDomain{} }

// None returns the TupleDomain that no row satisfies.
func None() TupleDomain { return TupleDomain{none: true} }

// FromColumnDomains builds a TupleDomain from the given column domains. A
// column listed more than once is constrained by the intersection of its
// domains.
func FromColumnDomains(cds ...ColumnDomain) TupleDomain {
	merged := make(map[handle.ColumnHandle]Domain, len(cds))
	for _, cd := range cds {
		if prev, ok := merged[cd.Column]; ok {
			merged[cd.Column] = prev.Intersect(cd.Domain)
		} else {
			merged[cd.Column] = cd.Domain
		}
	}
	return FromMap(merged)
}

// FromMap builds a TupleDomain from a map of column domains.
func FromMap(m map[handle.ColumnHandle]Domain) TupleDomain {
	var t TupleDomain
	for col, d := range m {
		if d.IsNone() {
			return None()
		}
		if d.IsAll() {
			continue
		}
		t.cols = append(t.cols, ColumnDomain{Column: col, Domain: d})
	}
	sort.Slice(t.cols, func(i, j int) bool {
		return t.cols[i].Column.Compare(t.cols[j].Column) < 0
	})
	return t
}

// IsAll returns true if the TupleDomain places no constraint on any column.
func (t TupleDomain) IsAll() bool { return !t.none && len(t.cols) == 0 }

// IsNone returns true if no row can satisfy the TupleDomain.
func (t TupleDomain) IsNone() bool { return t.none }

// Domain returns the domain of the given column. ok is false if the column is
// unconstrained, in which case the ALL domain is returned (or NONE if the
// whole TupleDomain is NONE).
func (t TupleDomain) Domain(col handle.ColumnHandle) (_ Domain, ok bool) {
	if t.none {
		return DomainNone(), true
	}
	i := t.find(col)
	if i < len(t.cols) && t.cols[i].Column == col {
		return t.cols[i].Domain, true
	}
	return DomainAll(), false
}

func (t TupleDomain) find(col handle.ColumnHandle) int {
	return sort.Search(len(t.cols), func(i int) bool {
		return t.cols[i].Column.Compare(col) >= 0
	})
}

// ColumnDomains returns the constrained columns in column order. It returns
// nil for ALL and NONE.
func (t TupleDomain) ColumnDomains() []ColumnDomain {
	if t.none || len(t.cols) == 0 {
		return nil
	}
	return append([]ColumnDomain(nil), t.cols...)
}

// Intersect returns the TupleDomain satisfied by rows that satisfy both t and
// other.
func (t TupleDomain) Intersect(other TupleDomain) TupleDomain {
	if t.none || other.none {
		return None()
	}
	if len(other.cols) == 0 {
		return t
	}
	if len(t.cols) == 0 {
		return other
	}
	cds := make([]ColumnDomain, 0, len(t.cols)+len(other.cols))
	cds = append(cds, t.cols...)
	cds = append(cds, other.cols...)
	return FromColumnDomains(cds...)
}

// Filter returns the TupleDomain restricted to the columns for which keep
// returns true. NONE stays NONE.
func (t TupleDomain) Filter(keep func(col handle.ColumnHandle) bool) TupleDomain {
	if t.none {
		return t
	}
	var res TupleDomain
	for _, cd := range t.cols {
		if keep(cd.Column) {
			res.cols = append(res.cols, cd)
		}
	}
	return res
}

// Equal returns true if both TupleDomains describe the same constraint.
func (t TupleDomain) Equal(other TupleDomain) bool {
	if t.none || other.none {
		return t.none == other.none
	}
	if len(t.cols) != len(other.cols) {
		return false
	}
	for i := range t.cols {
		if t.cols[i].Column != other.cols[i].Column || !t.cols[i].Domain.Equal(other.cols[i].Domain) {
			return false
		}
	}
	return true
}

func (t TupleDomain) String() string {
	switch {
	case t.none:
		return "NONE"
	case len(t.cols) == 0:
		return "ALL"
	}
	var buf strings.Builder
	buf.WriteByte('{')
	for i, cd := range t.cols {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(cd.Column.String())
		buf.WriteString(": ")
		buf.WriteString(cd.Domain.String())
	}
	buf.WriteByte('}')
	return buf.String()
}
