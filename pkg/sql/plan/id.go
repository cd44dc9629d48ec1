// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import (
	"strconv"
	"sync/atomic"
)

// NodeID names a plan node. Rewrites that replace a node with a refined
// version of itself keep its NodeID, so the id can be used to correlate a
// node across passes and with its execution-side counterpart.
type NodeID string

func (id NodeID) String() string { return string(id) }

// SafeValue implements redact.SafeValue.
func (NodeID) SafeValue() {}

// IDAllocator hands out NodeIDs that are unique within the allocator. It is
// safe for concurrent use, so passes rewriting disjoint subtrees in parallel
// can share one allocator.
type IDAllocator struct {
	next atomic.Int64
}

// NextID returns a fresh NodeID.
func (a *IDAllocator) NextID() NodeID {
	return NodeID(strconv.FormatInt(a.next.Add(1), 10))
}

// Symbol is the planner's name for a value produced by a node. Symbols are the
// unit of data flow between nodes: a node consumes the symbols output by its
// children and produces its own.
type Symbol string

func (s Symbol) String() string { return string(s) }

// SymbolAllocator produces symbol names that are unique within the
// allocator. It is not safe for concurrent use.
type SymbolAllocator struct {
	used map[Symbol]int
}

// NewSymbol returns a symbol named after hint, adding a numeric suffix if the
// name was already handed out ("a", "a_1", "a_2", ...).
func (a *SymbolAllocator) NewSymbol(hint string) Symbol {
	if a.used == nil {
		a.used = make(map[Symbol]int)
	}
	sym := Symbol(hint)
	for {
		n, ok := a.used[sym]
		if !ok {
			a.used[sym] = 0
			return sym
		}
		a.used[sym] = n + 1
		sym = Symbol(hint + "_" + strconv.Itoa(n+1))
	}
}
