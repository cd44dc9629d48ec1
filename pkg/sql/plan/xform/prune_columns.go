// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"context"

	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/util/log"
)

// PruneColumns narrows every scan and project to the symbols that the nodes
// above it need. The outputs of the root are always kept. Scans keep the
// assignments of the outputs they keep and drop the others.
type PruneColumns struct{}

var _ Pass = PruneColumns{}

// Name is part of the Pass interface.
func (PruneColumns) Name() string { return "prune-columns" }

// Apply is part of the Pass interface.
func (PruneColumns) Apply(ctx context.Context, pc *PassContext, root plan.Node) plan.Node {
	return prune(ctx, pc, root, symbolSet(root.Outputs()))
}

type pruneArgs struct {
	ctx      context.Context
	pc       *PassContext
	required symbols
}

type pruneVisitor struct{}

var _ plan.Visitor[plan.Node, pruneArgs] = pruneVisitor{}

func prune(ctx context.Context, pc *PassContext, n plan.Node, required symbols) plan.Node {
	return plan.Dispatch[plan.Node, pruneArgs](n, pruneVisitor{}, pruneArgs{ctx: ctx, pc: pc, required: required})
}

// keep returns the symbols of syms that are required, in order, and whether
// any were dropped.
func (s symbols) keep(syms []plan.Symbol) ([]plan.Symbol, bool) {
	kept := make([]plan.Symbol, 0, len(syms))
	for _, sym := range syms {
		if _, ok := s[sym]; ok {
			kept = append(kept, sym)
		}
	}
	return kept, len(kept) != len(syms)
}

func (s symbols) with(syms ...plan.Symbol) symbols {
	res := make(symbols, len(s)+len(syms))
	for sym := range s {
		res[sym] = struct{}{}
	}
	for _, sym := range syms {
		res[sym] = struct{}{}
	}
	return res
}

func (pruneVisitor) VisitScan(s *plan.ScanNode, a pruneArgs) plan.Node {
	outputs, dropped := a.required.keep(s.Outputs())
	// Outputs may name a symbol more than once.
	if !dropped && s.Assignments().Len() == len(symbolSet(outputs)) {
		return s
	}
	log.VEventf(a.ctx, 2, "scan %s: pruned to %d of %d columns", s.ID(), len(outputs), s.Assignments().Len())
	return must(s.WithOutputs(outputs, s.Assignments().Restrict(outputs)))
}

func (pruneVisitor) VisitFilter(f *plan.FilterNode, a pruneArgs) plan.Node {
	required := a.required.with(plan.ReferencedSymbols(f.Predicate())...)
	return must(f.WithChildren(prune(a.ctx, a.pc, f.Input(), required)))
}

func (pruneVisitor) VisitProject(p *plan.ProjectNode, a pruneArgs) plan.Node {
	outputs, dropped := a.required.keep(p.Outputs())
	input := prune(a.ctx, a.pc, p.Input(), symbolSet(outputs))
	if !dropped {
		return must(p.WithChildren(input))
	}
	return must(plan.NewProject(p.ID(), input, outputs))
}

func (pruneVisitor) VisitLimit(l *plan.LimitNode, a pruneArgs) plan.Node {
	return must(l.WithChildren(prune(a.ctx, a.pc, l.Input(), a.required)))
}

func (pruneVisitor) VisitJoin(j *plan.JoinNode, a pruneArgs) plan.Node {
	required := a.required
	if f := j.Filter(); f != nil {
		required = required.with(plan.ReferencedSymbols(f)...)
	}
	for _, c := range j.Criteria() {
		required = required.with(c.Left, c.Right)
	}
	left, right := rewriteBoth(a.ctx, a.pc,
		func(ctx context.Context) plan.Node { return prune(ctx, a.pc, j.Left(), required) },
		func(ctx context.Context) plan.Node { return prune(ctx, a.pc, j.Right(), required) },
	)
	return must(j.WithChildren(left, right))
}
