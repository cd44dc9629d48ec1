// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import "github.com/cockroachdb/redact"

// FilterNode passes through the input rows that satisfy a predicate. It
// outputs the symbols of its input.
type FilterNode struct {
	singleInputNode

	id        NodeID
	predicate Expr
}

var _ Node = (*FilterNode)(nil)

// NewFilter constructs a FilterNode. Every symbol the predicate references
// must be produced by input.
func NewFilter(id NodeID, input Node, predicate Expr) (*FilterNode, error) {
	if err := checkID(FilterKind, id); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, invalidArgumentf("filter %s requires an input", id)
	}
	if predicate == nil {
		return nil, invalidArgumentf("filter %s requires a predicate", id)
	}
	if err := checkSymbolsProduced(id, "predicate", ReferencedSymbols(predicate), input); err != nil {
		return nil, err
	}
	return &FilterNode{singleInputNode: singleInputNode{input: input}, id: id, predicate: predicate}, nil
}

// ID is part of the Node interface.
func (f *FilterNode) ID() NodeID { return f.id }

// Kind is part of the Node interface.
func (f *FilterNode) Kind() Kind { return FilterKind }

// Outputs is part of the Node interface.
func (f *FilterNode) Outputs() []Symbol { return f.input.Outputs() }

// Predicate returns the filter condition.
func (f *FilterNode) Predicate() Expr { return f.predicate }

// WithChildren is part of the Node interface.
func (f *FilterNode) WithChildren(children ...Node) (Node, error) {
	if err := checkChildCount(f, children, 1); err != nil {
		return nil, err
	}
	if children[0] == f.input {
		return f, nil
	}
	return NewFilter(f.id, children[0], f.predicate)
}

// WithPredicate returns a filter with the same id and input that applies the
// given predicate.
func (f *FilterNode) WithPredicate(predicate Expr) (*FilterNode, error) {
	return NewFilter(f.id, f.input, predicate)
}

func (f *FilterNode) isNode() {}

func (f *FilterNode) String() string { return redact.StringWithoutMarkers(f) }

// SafeFormat implements redact.SafeFormatter.
func (f *FilterNode) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("FilterNode{id=%s, predicate=%s}", f.id, f.predicate)
}
