// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package planviz renders plans for humans: as an indented tree, as a table
// with one row per node and as a Graphviz graph.
package planviz

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/util/treeprinter"
)

// Flags control the detail of a rendering.
type Flags uint8

const (
	// ShowAssignments adds the assignments of each scan.
	ShowAssignments Flags = 1 << iota
	// HideConstraints omits the planner constraint of each scan.
	HideConstraints
)

// HasFlags returns true if all of the given flags are set.
func (f Flags) HasFlags(subset Flags) bool { return f&subset == subset }

// Explain renders the plan rooted at n as a tree, for example:
//
//	limit 6
//	 ├── count: 10
//	 └── filter 3
//	      ├── predicate: b > 1
//	      └── scan 1
//	           ├── table: tpch:orders
//	           ├── layout: tpch:orders[a]
//	           ├── columns: a b
//	           └── constraint: {tpch:orders.a: [1, 10]}
func Explain(n plan.Node, flags Flags) string {
	tp := treeprinter.New()
	explain(tp, n, flags)
	return tp.String()
}

func explain(tp treeprinter.Node, n plan.Node, flags Flags) {
	child := tp.Childf("%s %s", n.Kind(), n.ID())
	for _, p := range properties(n, flags) {
		child.Childf("%s: %s", p.name, p.value)
	}
	for _, c := range n.Children() {
		explain(child, c, flags)
	}
}

type property struct {
	name, value string
}

// properties lists the attributes of a node that are shown alongside it.
func properties(n plan.Node, flags Flags) []property {
	return plan.Dispatch[[]property, Flags](n, describer{}, flags)
}

type describer struct{}

var _ plan.Visitor[[]property, Flags] = describer{}

func (describer) VisitScan(s *plan.ScanNode, flags Flags) []property {
	props := []property{{"table", s.Table().String()}}
	if layout, ok := s.Layout(); ok {
		props = append(props, property{"layout", layout.String()})
	} else {
		props = append(props, property{"layout", "<none>"})
	}
	props = append(props, property{"columns", symbols(s.Outputs())})
	if flags.HasFlags(ShowAssignments) {
		props = append(props, property{"assignments", s.Assignments().String()})
	}
	if !flags.HasFlags(HideConstraints) {
		props = append(props, property{"constraint", s.PlannerConstraint().String()})
	}
	return props
}

func (describer) VisitFilter(f *plan.FilterNode, _ Flags) []property {
	return []property{{"predicate", f.Predicate().String()}}
}

func (describer) VisitProject(p *plan.ProjectNode, _ Flags) []property {
	return []property{{"columns", symbols(p.Outputs())}}
}

func (describer) VisitLimit(l *plan.LimitNode, _ Flags) []property {
	return []property{{"count", fmt.Sprint(l.Count())}}
}

func (describer) VisitJoin(j *plan.JoinNode, _ Flags) []property {
	criteria := make([]string, len(j.Criteria()))
	for i, c := range j.Criteria() {
		criteria[i] = fmt.Sprintf("%s = %s", c.Left, c.Right)
	}
	var props []property
	if len(criteria) > 0 {
		props = append(props, property{"criteria", strings.Join(criteria, " AND ")})
	} else {
		props = append(props, property{"criteria", "<cross>"})
	}
	if f := j.Filter(); f != nil {
		props = append(props, property{"filter", f.String()})
	}
	return props
}

func symbols(syms []plan.Symbol) string {
	if len(syms) == 0 {
		return "<none>"
	}
	strs := make([]string, len(syms))
	for i, s := range syms {
		strs[i] = string(s)
	}
	return strings.Join(strs, " ")
}
