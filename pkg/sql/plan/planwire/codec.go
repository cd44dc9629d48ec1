// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package planwire

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan"
)

// ToSpec returns the transport form of the tree rooted at n. Planner-only
// state is dropped.
func ToSpec(n plan.Node) *NodeSpec {
	return plan.Dispatch[*NodeSpec, struct{}](n, specBuilder{}, struct{}{})
}

type specBuilder struct{}

var _ plan.Visitor[*NodeSpec, struct{}] = specBuilder{}

func (b specBuilder) VisitScan(n *plan.ScanNode, _ struct{}) *NodeSpec {
	spec := &ScanSpec{
		ID:            n.ID(),
		Table:         n.Table(),
		OutputSymbols: append([]plan.Symbol{}, n.Outputs()...),
		Assignments:   n.Assignments().ToMap(),
	}
	if layout, ok := n.Layout(); ok {
		spec.Layout = &layout
	}
	return &NodeSpec{Scan: spec}
}

func (b specBuilder) VisitFilter(n *plan.FilterNode, _ struct{}) *NodeSpec {
	return &NodeSpec{Filter: &FilterSpec{
		ID:        n.ID(),
		Source:    ToSpec(n.Input()),
		Predicate: exprToSpec(n.Predicate()),
	}}
}

func (b specBuilder) VisitProject(n *plan.ProjectNode, _ struct{}) *NodeSpec {
	return &NodeSpec{Project: &ProjectSpec{
		ID:            n.ID(),
		Source:        ToSpec(n.Input()),
		OutputSymbols: append([]plan.Symbol{}, n.Outputs()...),
	}}
}

func (b specBuilder) VisitLimit(n *plan.LimitNode, _ struct{}) *NodeSpec {
	return &NodeSpec{Limit: &LimitSpec{
		ID:     n.ID(),
		Source: ToSpec(n.Input()),
		Count:  n.Count(),
	}}
}

func (b specBuilder) VisitJoin(n *plan.JoinNode, _ struct{}) *NodeSpec {
	spec := &JoinSpec{
		ID:       n.ID(),
		Left:     ToSpec(n.Left()),
		Right:    ToSpec(n.Right()),
		Criteria: make([]CriteriaSpec, len(n.Criteria())),
	}
	for i, c := range n.Criteria() {
		spec.Criteria[i] = CriteriaSpec{Left: c.Left, Right: c.Right}
	}
	if f := n.Filter(); f != nil {
		spec.Filter = exprToSpec(f)
	}
	return &NodeSpec{Join: spec}
}

func exprToSpec(e plan.Expr) *ExprSpec {
	switch t := e.(type) {
	case *plan.Comparison:
		v := t.Right
		return &ExprSpec{Type: "comparison", Symbol: t.Left, Op: t.Op.String(), Value: &v}
	case *plan.And:
		return &ExprSpec{Type: "and", Terms: exprsToSpecs(t.Exprs)}
	case *plan.Or:
		return &ExprSpec{Type: "or", Terms: exprsToSpecs(t.Exprs)}
	case plan.BoolConst:
		b := bool(t)
		return &ExprSpec{Type: "constant", Bool: &b}
	}
	panic(errors.AssertionFailedf("unhandled expression type %T", e))
}

func exprsToSpecs(exprs []plan.Expr) []*ExprSpec {
	res := make([]*ExprSpec, len(exprs))
	for i, e := range exprs {
		res[i] = exprToSpec(e)
	}
	return res
}

// FromSpec reconstructs a plan tree from its transport form. Every node is
// built through its public constructor, so the reconstructed tree satisfies
// the same construction rules as a planner-built one. Scans are built with
// plan.NewScan and carry no planner constraint.
func FromSpec(spec *NodeSpec) (plan.Node, error) {
	if spec == nil {
		return nil, malformedf("missing node")
	}
	switch typ, _ := spec.variant(); typ {
	case scanType:
		s := spec.Scan
		assignments := plan.MakeAssignments(s.Assignments)
		n, err := plan.NewScan(s.ID, s.Table, s.OutputSymbols, assignments, s.Layout)
		return wrapNode(n, err, typ, s.ID)

	case filterType:
		s := spec.Filter
		input, err := FromSpec(s.Source)
		if err != nil {
			return nil, err
		}
		pred, err := exprFromSpec(s.Predicate)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding filter %s", s.ID)
		}
		n, err := plan.NewFilter(s.ID, input, pred)
		return wrapNode(n, err, typ, s.ID)

	case projectType:
		s := spec.Project
		input, err := FromSpec(s.Source)
		if err != nil {
			return nil, err
		}
		n, err := plan.NewProject(s.ID, input, s.OutputSymbols)
		return wrapNode(n, err, typ, s.ID)

	case limitType:
		s := spec.Limit
		input, err := FromSpec(s.Source)
		if err != nil {
			return nil, err
		}
		n, err := plan.NewLimit(s.ID, input, s.Count)
		return wrapNode(n, err, typ, s.ID)

	case joinType:
		s := spec.Join
		left, err := FromSpec(s.Left)
		if err != nil {
			return nil, err
		}
		right, err := FromSpec(s.Right)
		if err != nil {
			return nil, err
		}
		criteria := make([]plan.EquiJoinClause, len(s.Criteria))
		for i, c := range s.Criteria {
			criteria[i] = plan.EquiJoinClause{Left: c.Left, Right: c.Right}
		}
		var filter plan.Expr
		if s.Filter != nil {
			if filter, err = exprFromSpec(s.Filter); err != nil {
				return nil, errors.Wrapf(err, "decoding join %s", s.ID)
			}
		}
		n, err := plan.NewJoin(s.ID, left, right, criteria, filter)
		return wrapNode(n, err, typ, s.ID)
	}
	return nil, malformedf("empty node")
}

// wrapNode converts the result of a typed constructor into a plan.Node,
// taking care not to return a non-nil interface holding a nil pointer.
func wrapNode[T plan.Node](n T, err error, typ string, id plan.NodeID) (plan.Node, error) {
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s %s", typ, id)
	}
	return n, nil
}

func exprFromSpec(spec *ExprSpec) (plan.Expr, error) {
	if spec == nil {
		return nil, malformedf("missing expression")
	}
	switch spec.Type {
	case "comparison":
		op, err := plan.ParseCompareOp(spec.Op)
		if err != nil {
			return nil, err
		}
		if spec.Symbol == "" || spec.Value == nil {
			return nil, malformedf("comparison requires a symbol and a value")
		}
		return &plan.Comparison{Left: spec.Symbol, Op: op, Right: *spec.Value}, nil
	case "and", "or":
		exprs := make([]plan.Expr, len(spec.Terms))
		for i, t := range spec.Terms {
			e, err := exprFromSpec(t)
			if err != nil {
				return nil, err
			}
			exprs[i] = e
		}
		if spec.Type == "and" {
			return &plan.And{Exprs: exprs}, nil
		}
		return &plan.Or{Exprs: exprs}, nil
	case "constant":
		if spec.Bool == nil {
			return nil, malformedf("constant requires a value")
		}
		return plan.BoolConst(*spec.Bool), nil
	}
	return nil, malformedf("unknown expression type %q", spec.Type)
}

func malformedf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), plan.ErrInvalidArgument)
}

// Marshal encodes the tree rooted at n.
func Marshal(n plan.Node) ([]byte, error) {
	return marshalJSON(ToSpec(n))
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(n plan.Node) ([]byte, error) {
	b, err := Marshal(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a tree encoded by Marshal.
func Unmarshal(data []byte) (plan.Node, error) {
	var spec NodeSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding plan"), plan.ErrInvalidArgument)
	}
	return FromSpec(&spec)
}

