// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import "github.com/cockroachdb/redact"

// LimitNode passes through at most Count rows of its input.
type LimitNode struct {
	singleInputNode

	id    NodeID
	count int64
}

var _ Node = (*LimitNode)(nil)

// NewLimit constructs a LimitNode. count must not be negative.
func NewLimit(id NodeID, input Node, count int64) (*LimitNode, error) {
	if err := checkID(LimitKind, id); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, invalidArgumentf("limit %s requires an input", id)
	}
	if count < 0 {
		return nil, invalidArgumentf("limit %s: negative count %d", id, count)
	}
	return &LimitNode{singleInputNode: singleInputNode{input: input}, id: id, count: count}, nil
}

// ID is part of the Node interface.
func (l *LimitNode) ID() NodeID { return l.id }

// Kind is part of the Node interface.
func (l *LimitNode) Kind() Kind { return LimitKind }

// Outputs is part of the Node interface.
func (l *LimitNode) Outputs() []Symbol { return l.input.Outputs() }

// Count returns the maximum number of rows produced.
func (l *LimitNode) Count() int64 { return l.count }

// WithChildren is part of the Node interface.
func (l *LimitNode) WithChildren(children ...Node) (Node, error) {
	if err := checkChildCount(l, children, 1); err != nil {
		return nil, err
	}
	if children[0] == l.input {
		return l, nil
	}
	return NewLimit(l.id, children[0], l.count)
}

func (l *LimitNode) isNode() {}

func (l *LimitNode) String() string { return redact.StringWithoutMarkers(l) }

// SafeFormat implements redact.SafeFormatter.
func (l *LimitNode) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("LimitNode{id=%s, count=%d}", l.id, l.count)
}
