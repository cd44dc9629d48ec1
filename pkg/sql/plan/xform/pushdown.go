// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"context"

	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
	"github.com/cockroachdb/planir/pkg/util/log"
)

// Pushdown moves filter predicates as close to the scans as possible and
// turns the predicates that reach a scan into its constraint:
//
//   - stacked filters are merged;
//   - filters move below projects, and their conjuncts move into the input of
//     a join that produces every symbol they reference;
//   - join filter conjuncts that reference a single input move into it;
//   - at a scan, the domains implied by the conjuncts are intersected with the
//     scan's current constraint, the catalog chooses a layout for the result
//     and the scan is rebuilt with both. Conjuncts the layout enforces are
//     dropped; the others stay in a filter above the scan.
//
// Predicates never move below a limit.
//
// Filters created for conjuncts that did not come from a filter get their
// ids once the whole tree has been rewritten, in post-order, so that the ids
// do not depend on the order in which the inputs of joins were visited.
type Pushdown struct{}

var _ Pass = Pushdown{}

// Name is part of the Pass interface.
func (Pushdown) Name() string { return "pushdown" }

// Apply is part of the Pass interface.
func (Pushdown) Apply(ctx context.Context, pc *PassContext, root plan.Node) plan.Node {
	res := pushdown(ctx, pc, root, pending{})
	if res == root {
		return root
	}
	return assignFilterIDs(pc, res)
}

// unassignedID is the id of the filters created by materialize until
// assignFilterIDs replaces it.
const unassignedID plan.NodeID = "?"

// assignFilterIDs gives every filter with the unassigned id a fresh one.
func assignFilterIDs(pc *PassContext, root plan.Node) plan.Node {
	return must(plan.Rewrite(root, func(n plan.Node) (plan.Node, error) {
		if f, ok := n.(*plan.FilterNode); ok && f.ID() == unassignedID {
			return plan.NewFilter(pc.IDs.NextID(), f.Input(), f.Predicate())
		}
		return n, nil
	}))
}

// pending holds the conjuncts being pushed down along with the id of the
// filter they came from, which is reused when they are materialized again.
type pending struct {
	conjuncts []plan.Expr
	filterID  plan.NodeID
}

type pushdownArgs struct {
	ctx context.Context
	pc  *PassContext
	p   pending
}

type pushdownVisitor struct{}

var _ plan.Visitor[plan.Node, pushdownArgs] = pushdownVisitor{}

func pushdown(ctx context.Context, pc *PassContext, n plan.Node, p pending) plan.Node {
	return plan.Dispatch[plan.Node, pushdownArgs](n, pushdownVisitor{}, pushdownArgs{ctx: ctx, pc: pc, p: p})
}

// materialize returns n with a filter applying the pending conjuncts on top,
// or n itself if there are none.
func materialize(a pushdownArgs, n plan.Node) plan.Node {
	if len(a.p.conjuncts) == 0 {
		return n
	}
	pred := plan.CombineConjuncts(a.p.conjuncts)
	id := a.p.filterID
	if id == "" {
		id = unassignedID
	}
	return must(plan.NewFilter(id, n, pred))
}

func (pushdownVisitor) VisitFilter(f *plan.FilterNode, a pushdownArgs) plan.Node {
	p := pending{filterID: a.p.filterID}
	if p.filterID == "" {
		p.filterID = f.ID()
	}
	p.conjuncts = append(append(p.conjuncts, a.p.conjuncts...), plan.Conjuncts(f.Predicate())...)
	res := pushdown(a.ctx, a.pc, f.Input(), p)
	if len(a.p.conjuncts) == 0 {
		// The result of pushing this filter's own conjuncts; keep the original
		// if nothing moved.
		if rf, ok := res.(*plan.FilterNode); ok && rf != f && rf.ID() == f.ID() &&
			rf.Input() == f.Input() && plan.ExprEqual(rf.Predicate(), f.Predicate()) {
			return f
		}
	}
	return res
}

func (pushdownVisitor) VisitProject(p *plan.ProjectNode, a pushdownArgs) plan.Node {
	// A project only drops symbols, so every pending conjunct can be evaluated
	// on its input.
	input := pushdown(a.ctx, a.pc, p.Input(), a.p)
	return must(p.WithChildren(input))
}

func (pushdownVisitor) VisitLimit(l *plan.LimitNode, a pushdownArgs) plan.Node {
	input := pushdown(a.ctx, a.pc, l.Input(), pending{})
	return materialize(a, must(l.WithChildren(input)))
}

func (pushdownVisitor) VisitJoin(j *plan.JoinNode, a pushdownArgs) plan.Node {
	leftOut, rightOut := symbolSet(j.Left().Outputs()), symbolSet(j.Right().Outputs())
	var left, right, remaining []plan.Expr
	conjuncts := a.p.conjuncts
	if f := j.Filter(); f != nil {
		conjuncts = append(append([]plan.Expr(nil), conjuncts...), plan.Conjuncts(f)...)
	}
	for _, c := range conjuncts {
		refs := plan.ReferencedSymbols(c)
		switch {
		case len(refs) > 0 && leftOut.containsAll(refs):
			left = append(left, c)
		case len(refs) > 0 && rightOut.containsAll(refs):
			right = append(right, c)
		default:
			remaining = append(remaining, c)
		}
	}

	l, r := rewriteBoth(a.ctx, a.pc,
		func(ctx context.Context) plan.Node {
			return pushdown(ctx, a.pc, j.Left(), pending{conjuncts: left, filterID: a.p.filterID})
		},
		func(ctx context.Context) plan.Node {
			return pushdown(ctx, a.pc, j.Right(), pending{conjuncts: right})
		},
	)

	var filter plan.Expr
	if len(remaining) > 0 {
		filter = plan.CombineConjuncts(remaining)
	}
	res := must(j.WithChildren(l, r)).(*plan.JoinNode)
	if !filterEqual(res.Filter(), filter) {
		res = must(res.WithFilter(filter))
	}
	return res
}

func (pushdownVisitor) VisitScan(s *plan.ScanNode, a pushdownArgs) plan.Node {
	if len(a.p.conjuncts) == 0 {
		return s
	}
	pcon := s.PlannerConstraint()
	if !pcon.IsPresent() {
		// Scans decoded from their transport form cannot be refined.
		return materialize(a, s)
	}
	current, _ := pcon.Get()

	var cds []tupledomain.ColumnDomain
	extracted := make([]plan.ExtractedConjunct, len(a.p.conjuncts))
	for i, c := range a.p.conjuncts {
		sym, d, ok := plan.ExtractConjunctDomain(c)
		extracted[i] = plan.ExtractedConjunct{Expr: c, Symbol: sym, Domain: d, HasDomain: ok}
		if !ok {
			continue
		}
		col, ok := s.Assignments().Get(sym)
		if !ok {
			extracted[i].HasDomain = false
			continue
		}
		cds = append(cds, tupledomain.ColumnDomain{Column: col, Domain: d})
	}
	refined := current.Intersect(tupledomain.FromColumnDomains(cds...))

	res, err := a.pc.Catalog.ResolveLayout(a.ctx, s.Table(), refined)
	if err != nil {
		panic(err)
	}
	scan := s
	if layout, ok := s.Layout(); !ok || layout != res.Layout || !refined.Equal(current) {
		scan = must(s.WithRefinement(res.Layout, refined))
		a.pc.Metrics.ScanRefinements.Inc()
		log.VEventf(a.ctx, 2, "scan %s: constraint %s, layout %s", s.ID(), refined, res.Layout)
	}

	var remaining []plan.Expr
	for _, e := range extracted {
		if e.HasDomain && enforced(res.Unenforced, s.Assignments(), e.Symbol) {
			continue
		}
		remaining = append(remaining, e.Expr)
	}
	return materialize(pushdownArgs{ctx: a.ctx, pc: a.pc, p: pending{
		conjuncts: remaining, filterID: a.p.filterID,
	}}, scan)
}

// enforced returns true if the layout guarantees every constraint on the
// column assigned to sym.
func enforced(unenforced tupledomain.TupleDomain, assignments plan.Assignments, sym plan.Symbol) bool {
	if unenforced.IsNone() {
		return false
	}
	col, ok := assignments.Get(sym)
	if !ok {
		return false
	}
	_, constrained := unenforced.Domain(col)
	return !constrained
}

func filterEqual(a, b plan.Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return plan.ExprEqual(a, b)
}

type symbols map[plan.Symbol]struct{}

func symbolSet(syms []plan.Symbol) symbols {
	s := make(symbols, len(syms))
	for _, sym := range syms {
		s[sym] = struct{}{}
	}
	return s
}

func (s symbols) containsAll(syms []plan.Symbol) bool {
	for _, sym := range syms {
		if _, ok := s[sym]; !ok {
			return false
		}
	}
	return true
}
