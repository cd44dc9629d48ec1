// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import (
	"strings"
	"sync"

	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/google/btree"
)

// assignmentsDegree is the btree degree used for Assignments. Scans rarely
// assign more than a few dozen columns, so a small degree keeps the
// copy-on-write cost of With low.
const assignmentsDegree = 8

// Assignments is an immutable map from Symbol to the column handle that
// produces it. It is a persistent structure: With returns a new value that
// shares storage with the receiver, so nodes derived from one another can
// share their assignments without copying. The zero value is empty.
type Assignments struct {
	t *assignmentTree
}

type assignmentTree struct {
	// cloneMu serializes calls to tree.Clone, which updates the copy-on-write
	// context of the source tree. Nothing else ever writes to tree once the
	// Assignments value holding it has been returned.
	cloneMu sync.Mutex
	tree    *btree.BTree
}

type assignment struct {
	sym Symbol
	col handle.ColumnHandle
}

// Less implements btree.Item.
func (a assignment) Less(than btree.Item) bool {
	return a.sym < than.(assignment).sym
}

// MakeAssignments builds Assignments holding the entries of m. The map is not
// retained.
func MakeAssignments(m map[Symbol]handle.ColumnHandle) Assignments {
	if len(m) == 0 {
		return Assignments{}
	}
	tree := btree.New(assignmentsDegree)
	for sym, col := range m {
		tree.ReplaceOrInsert(assignment{sym: sym, col: col})
	}
	return Assignments{t: &assignmentTree{tree: tree}}
}

// Len returns the number of symbols assigned.
func (a Assignments) Len() int {
	if a.t == nil {
		return 0
	}
	return a.t.tree.Len()
}

// Get returns the column assigned to sym.
func (a Assignments) Get(sym Symbol) (handle.ColumnHandle, bool) {
	if a.t == nil {
		return handle.ColumnHandle{}, false
	}
	item := a.t.tree.Get(assignment{sym: sym})
	if item == nil {
		return handle.ColumnHandle{}, false
	}
	return item.(assignment).col, true
}

// Has returns true if sym is assigned.
func (a Assignments) Has(sym Symbol) bool {
	_, ok := a.Get(sym)
	return ok
}

// ForEach calls fn for every entry in symbol order.
func (a Assignments) ForEach(fn func(sym Symbol, col handle.ColumnHandle)) {
	if a.t == nil {
		return
	}
	a.t.tree.Ascend(func(i btree.Item) bool {
		e := i.(assignment)
		fn(e.sym, e.col)
		return true
	})
}

// Symbols returns the assigned symbols in symbol order.
func (a Assignments) Symbols() []Symbol {
	syms := make([]Symbol, 0, a.Len())
	a.ForEach(func(sym Symbol, _ handle.ColumnHandle) {
		syms = append(syms, sym)
	})
	return syms
}

// SymbolFor returns the symbol that the given column is assigned to. If
// several symbols read the same column, the first in symbol order is
// returned.
func (a Assignments) SymbolFor(col handle.ColumnHandle) (Symbol, bool) {
	var res Symbol
	found := false
	if a.t != nil {
		a.t.tree.Ascend(func(i btree.Item) bool {
			if e := i.(assignment); e.col == col {
				res, found = e.sym, true
				return false
			}
			return true
		})
	}
	return res, found
}

// ToMap returns the entries as a newly allocated map.
func (a Assignments) ToMap() map[Symbol]handle.ColumnHandle {
	m := make(map[Symbol]handle.ColumnHandle, a.Len())
	a.ForEach(func(sym Symbol, col handle.ColumnHandle) {
		m[sym] = col
	})
	return m
}

// With returns Assignments that additionally map sym to col, replacing any
// previous assignment of sym. The receiver is unchanged.
func (a Assignments) With(sym Symbol, col handle.ColumnHandle) Assignments {
	var tree *btree.BTree
	if a.t == nil {
		tree = btree.New(assignmentsDegree)
	} else {
		a.t.cloneMu.Lock()
		tree = a.t.tree.Clone()
		a.t.cloneMu.Unlock()
	}
	tree.ReplaceOrInsert(assignment{sym: sym, col: col})
	return Assignments{t: &assignmentTree{tree: tree}}
}

// Restrict returns Assignments holding only the entries for the given
// symbols. Symbols that are not assigned are ignored.
func (a Assignments) Restrict(syms []Symbol) Assignments {
	if a.t == nil {
		return a
	}
	tree := btree.New(assignmentsDegree)
	for _, sym := range syms {
		if item := a.t.tree.Get(assignment{sym: sym}); item != nil {
			tree.ReplaceOrInsert(item)
		}
	}
	if tree.Len() == a.t.tree.Len() {
		return a
	}
	return Assignments{t: &assignmentTree{tree: tree}}
}

// Covers returns the first symbol in syms that is not assigned, or ok=true if
// every symbol is.
func (a Assignments) Covers(syms []Symbol) (missing Symbol, ok bool) {
	for _, sym := range syms {
		if !a.Has(sym) {
			return sym, false
		}
	}
	return "", true
}

// Equal returns true if both hold the same entries.
func (a Assignments) Equal(other Assignments) bool {
	if a.Len() != other.Len() {
		return false
	}
	equal := true
	a.ForEach(func(sym Symbol, col handle.ColumnHandle) {
		if c, ok := other.Get(sym); !ok || c != col {
			equal = false
		}
	})
	return equal
}

func (a Assignments) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	first := true
	a.ForEach(func(sym Symbol, col handle.ColumnHandle) {
		if !first {
			buf.WriteString(", ")
		}
		first = false
		buf.WriteString(string(sym))
		buf.WriteByte('=')
		buf.WriteString(col.String())
	})
	buf.WriteByte('}')
	return buf.String()
}
