// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import "github.com/cockroachdb/redact"

// ProjectNode narrows and reorders the symbols of its input.
type ProjectNode struct {
	singleInputNode

	id      NodeID
	outputs []Symbol
}

var _ Node = (*ProjectNode)(nil)

// NewProject constructs a ProjectNode producing outputs, each of which must
// be produced by input. A symbol may not be listed twice.
func NewProject(id NodeID, input Node, outputs []Symbol) (*ProjectNode, error) {
	if err := checkID(ProjectKind, id); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, invalidArgumentf("project %s requires an input", id)
	}
	seen := make(map[Symbol]struct{}, len(outputs))
	for _, s := range outputs {
		if _, ok := seen[s]; ok {
			return nil, invalidArgumentf("project %s lists symbol %q twice", id, s)
		}
		seen[s] = struct{}{}
	}
	if err := checkSymbolsProduced(id, "projection", outputs, input); err != nil {
		return nil, err
	}
	return &ProjectNode{
		singleInputNode: singleInputNode{input: input},
		id:              id,
		outputs:         append([]Symbol(nil), outputs...),
	}, nil
}

// ID is part of the Node interface.
func (p *ProjectNode) ID() NodeID { return p.id }

// Kind is part of the Node interface.
func (p *ProjectNode) Kind() Kind { return ProjectKind }

// Outputs is part of the Node interface.
func (p *ProjectNode) Outputs() []Symbol { return p.outputs }

// WithChildren is part of the Node interface.
func (p *ProjectNode) WithChildren(children ...Node) (Node, error) {
	if err := checkChildCount(p, children, 1); err != nil {
		return nil, err
	}
	if children[0] == p.input {
		return p, nil
	}
	return NewProject(p.id, children[0], p.outputs)
}

func (p *ProjectNode) isNode() {}

func (p *ProjectNode) String() string { return redact.StringWithoutMarkers(p) }

// SafeFormat implements redact.SafeFormatter.
func (p *ProjectNode) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("ProjectNode{id=%s, outputSymbols=%s}", p.id, symbolList(p.outputs))
}
