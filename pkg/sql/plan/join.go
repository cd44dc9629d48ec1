// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// EquiJoinClause requires Left, produced by the left input, to equal Right,
// produced by the right input.
type EquiJoinClause struct {
	Left  Symbol
	Right Symbol
}

// JoinNode is an inner equi-join. Its outputs are the outputs of the left
// input followed by those of the right input.
type JoinNode struct {
	id       NodeID
	left     Node
	right    Node
	criteria []EquiJoinClause
	// filter is an additional predicate over the joined row; nil if none.
	filter  Expr
	outputs []Symbol
}

var _ Node = (*JoinNode)(nil)

// NewJoin constructs a JoinNode. The inputs must not produce a common
// symbol, each clause must reference a symbol of the matching side, and the
// filter (which may be nil) may only reference symbols of either input.
func NewJoin(
	id NodeID, left, right Node, criteria []EquiJoinClause, filter Expr,
) (*JoinNode, error) {
	if err := checkID(JoinKind, id); err != nil {
		return nil, err
	}
	if left == nil || right == nil {
		return nil, invalidArgumentf("join %s requires two inputs", id)
	}
	lo, ro := left.Outputs(), right.Outputs()
	outputs := make([]Symbol, 0, len(lo)+len(ro))
	outputs = append(outputs, lo...)
	seen := make(map[Symbol]struct{}, len(lo))
	for _, s := range lo {
		seen[s] = struct{}{}
	}
	for _, s := range ro {
		if _, ok := seen[s]; ok {
			return nil, invalidArgumentf("join %s: symbol %q is produced by both inputs", id, s)
		}
	}
	outputs = append(outputs, ro...)
	for _, c := range criteria {
		if err := checkSymbolsProduced(id, "join clause", []Symbol{c.Left}, left); err != nil {
			return nil, err
		}
		if err := checkSymbolsProduced(id, "join clause", []Symbol{c.Right}, right); err != nil {
			return nil, err
		}
	}
	j := &JoinNode{
		id:       id,
		left:     left,
		right:    right,
		criteria: append([]EquiJoinClause(nil), criteria...),
		filter:   filter,
		outputs:  outputs,
	}
	if filter != nil {
		for _, s := range ReferencedSymbols(filter) {
			if _, ok := seen[s]; !ok && !containsSymbol(ro, s) {
				return nil, invalidArgumentf(
					"node %s: join filter references symbol %q not produced by its inputs", id, s)
			}
		}
	}
	return j, nil
}

// ID is part of the Node interface.
func (j *JoinNode) ID() NodeID { return j.id }

// Kind is part of the Node interface.
func (j *JoinNode) Kind() Kind { return JoinKind }

// Outputs is part of the Node interface.
func (j *JoinNode) Outputs() []Symbol { return j.outputs }

// ChildCount is part of the Node interface.
func (j *JoinNode) ChildCount() int { return 2 }

// Child is part of the Node interface.
func (j *JoinNode) Child(nth int) Node {
	switch nth {
	case 0:
		return j.left
	case 1:
		return j.right
	}
	panic(errors.AssertionFailedf("child index %d is out of range", nth))
}

// Children is part of the Node interface.
func (j *JoinNode) Children() []Node { return []Node{j.left, j.right} }

// Left returns the left input.
func (j *JoinNode) Left() Node { return j.left }

// Right returns the right input.
func (j *JoinNode) Right() Node { return j.right }

// Criteria returns the equality clauses. The slice must not be modified.
func (j *JoinNode) Criteria() []EquiJoinClause { return j.criteria }

// Filter returns the additional join predicate, or nil.
func (j *JoinNode) Filter() Expr { return j.filter }

// WithChildren is part of the Node interface.
func (j *JoinNode) WithChildren(children ...Node) (Node, error) {
	if err := checkChildCount(j, children, 2); err != nil {
		return nil, err
	}
	if children[0] == j.left && children[1] == j.right {
		return j, nil
	}
	return NewJoin(j.id, children[0], children[1], j.criteria, j.filter)
}

// WithFilter returns a join with the same id, inputs and criteria and the
// given filter, which may be nil.
func (j *JoinNode) WithFilter(filter Expr) (*JoinNode, error) {
	return NewJoin(j.id, j.left, j.right, j.criteria, filter)
}

func (j *JoinNode) isNode() {}

func (j *JoinNode) String() string { return redact.StringWithoutMarkers(j) }

// SafeFormat implements redact.SafeFormatter.
func (j *JoinNode) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("JoinNode{id=%s, criteria=[", j.id)
	for i, c := range j.criteria {
		if i > 0 {
			w.SafeString(", ")
		}
		w.Printf("%s = %s", redact.SafeString(c.Left), redact.SafeString(c.Right))
	}
	w.SafeString("]")
	if j.filter != nil {
		w.Printf(", filter=%s", j.filter)
	}
	w.SafeString("}")
}

func containsSymbol(syms []Symbol, s Symbol) bool {
	for _, o := range syms {
		if o == s {
			return true
		}
	}
	return false
}
