// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package plan defines the immutable intermediate representation produced by
// the planner: a tree of plan nodes describing how data is read, transformed
// and combined. Optimizer passes never modify a node; they build new nodes
// and rebuild the path from the changed node to the root with WithChildren,
// sharing every untouched subtree.
//
// The set of node kinds is closed. Code that needs kind-specific behavior
// implements Visitor, which has one method per kind, and calls Dispatch;
// adding a kind therefore fails to compile until every visitor handles it.
package plan

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Kind enumerates the plan node variants.
type Kind uint8

const (
	// UnknownKind is the zero Kind and is never used by a valid node.
	UnknownKind Kind = iota
	// ScanKind is a leaf reading columns from a table.
	ScanKind
	// FilterKind discards input rows that do not satisfy a predicate.
	FilterKind
	// ProjectKind narrows and reorders the input symbols.
	ProjectKind
	// LimitKind passes through at most a fixed number of input rows.
	LimitKind
	// JoinKind is an inner equi-join of two inputs.
	JoinKind

	// This should be last.
	numKinds
)

var kindNames = [numKinds]string{
	UnknownKind: "unknown",
	ScanKind:    "scan",
	FilterKind:  "filter",
	ProjectKind: "project",
	LimitKind:   "limit",
	JoinKind:    "join",
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// SafeValue implements redact.SafeValue.
func (Kind) SafeValue() {}

// Node is a vertex of the plan tree. Nodes are immutable once constructed and
// may be read from any number of goroutines. Two nodes are distinct entities
// even when structurally identical.
type Node interface {
	// ID returns the identifier of the node.
	ID() NodeID

	// Kind returns the variant of the node.
	Kind() Kind

	// Outputs returns the ordered symbols produced by the node. The order
	// defines the shape of the output tuples. The returned slice must not be
	// modified.
	Outputs() []Symbol

	// ChildCount returns the number of children of the node.
	ChildCount() int

	// Child returns the nth child. It panics if nth is out of range.
	Child(nth int) Node

	// Children returns the ordered children of the node; it is empty for
	// leaves. The returned slice is freshly allocated.
	Children() []Node

	// WithChildren returns a node of the same kind and id with the given
	// children substituted for the current ones and all other data
	// preserved. It fails with ErrInvalidArgument if the number of children
	// differs from the number the kind mandates, or if the new children do
	// not produce the symbols the node depends on.
	WithChildren(children ...Node) (Node, error)

	fmt.Stringer
	redact.SafeFormatter

	// isNode seals the interface: only the kinds defined in this package
	// are nodes.
	isNode()
}

// Visitor implements kind-specific logic over plan nodes. R is the result of
// a visit and C is a caller-defined context passed through unchanged.
type Visitor[R, C any] interface {
	VisitScan(n *ScanNode, c C) R
	VisitFilter(n *FilterNode, c C) R
	VisitProject(n *ProjectNode, c C) R
	VisitLimit(n *LimitNode, c C) R
	VisitJoin(n *JoinNode, c C) R
}

// Dispatch invokes the method of v that handles the kind of n, passing n and
// c, and returns its result unmodified.
func Dispatch[R, C any](n Node, v Visitor[R, C], c C) R {
	switch t := n.(type) {
	case *ScanNode:
		return v.VisitScan(t, c)
	case *FilterNode:
		return v.VisitFilter(t, c)
	case *ProjectNode:
		return v.VisitProject(t, c)
	case *LimitNode:
		return v.VisitLimit(t, c)
	case *JoinNode:
		return v.VisitJoin(t, c)
	}
	panic(errors.AssertionFailedf("unhandled node type %T", n))
}

// DefaultVisitor implements every Visitor method by calling VisitNode. Embed
// it in a visitor that only cares about some kinds and override those
// methods.
type DefaultVisitor[R, C any] struct {
	VisitNode func(n Node, c C) R
}

var _ Visitor[struct{}, struct{}] = DefaultVisitor[struct{}, struct{}]{}

// VisitScan is part of the Visitor interface.
func (v DefaultVisitor[R, C]) VisitScan(n *ScanNode, c C) R { return v.VisitNode(n, c) }

// VisitFilter is part of the Visitor interface.
func (v DefaultVisitor[R, C]) VisitFilter(n *FilterNode, c C) R { return v.VisitNode(n, c) }

// VisitProject is part of the Visitor interface.
func (v DefaultVisitor[R, C]) VisitProject(n *ProjectNode, c C) R { return v.VisitNode(n, c) }

// VisitLimit is part of the Visitor interface.
func (v DefaultVisitor[R, C]) VisitLimit(n *LimitNode, c C) R { return v.VisitNode(n, c) }

// VisitJoin is part of the Visitor interface.
func (v DefaultVisitor[R, C]) VisitJoin(n *JoinNode, c C) R { return v.VisitNode(n, c) }

// zeroInputNode is embedded in node implementations that have no children.
type zeroInputNode struct{}

func (zeroInputNode) ChildCount() int { return 0 }

func (zeroInputNode) Child(nth int) Node {
	panic(errors.AssertionFailedf("node has no children"))
}

func (zeroInputNode) Children() []Node { return nil }

// singleInputNode is embedded in node implementations that have exactly one
// child.
type singleInputNode struct {
	input Node
}

func (n *singleInputNode) ChildCount() int { return 1 }

func (n *singleInputNode) Child(nth int) Node {
	if nth != 0 {
		panic(errors.AssertionFailedf("child index %d is out of range", nth))
	}
	return n.input
}

func (n *singleInputNode) Children() []Node { return []Node{n.input} }

// Input returns the only child of the node.
func (n *singleInputNode) Input() Node { return n.input }

// checkChildCount verifies that a WithChildren call supplies the number of
// children mandated by the node's kind.
func checkChildCount(n Node, children []Node, expected int) error {
	if len(children) != expected {
		return invalidArgumentf(
			"%s node %s expects %d children, got %d", n.Kind(), n.ID(), expected, len(children))
	}
	for i, c := range children {
		if c == nil {
			return invalidArgumentf("%s node %s: child %d is nil", n.Kind(), n.ID(), i)
		}
	}
	return nil
}

// checkSymbolsProduced verifies that every symbol in needed is produced by
// input.
func checkSymbolsProduced(n NodeID, what string, needed []Symbol, input Node) error {
	outputs := input.Outputs()
	for _, s := range needed {
		if !containsSymbol(outputs, s) {
			return invalidArgumentf("node %s: %s references symbol %q not produced by its input", n, what, s)
		}
	}
	return nil
}

// checkID rejects an empty node identifier.
func checkID(k Kind, id NodeID) error {
	if id == "" {
		return invalidArgumentf("%s node requires an id", k)
	}
	return nil
}
