// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import "github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"

// ExtractConjunctDomain returns the symbol and the domain of values that e
// restricts it to, if e is equivalent to such a restriction. That is the case
// for a comparison, and for a disjunction of such restrictions on one symbol.
func ExtractConjunctDomain(e Expr) (Symbol, tupledomain.Domain, bool) {
	switch t := e.(type) {
	case *Comparison:
		return t.Left, comparisonDomain(t), true

	case *Or:
		if len(t.Exprs) == 0 {
			return "", tupledomain.Domain{}, false
		}
		var sym Symbol
		d := tupledomain.DomainNone()
		for i, c := range t.Exprs {
			s, cd, ok := ExtractConjunctDomain(c)
			if !ok || (i > 0 && s != sym) {
				return "", tupledomain.Domain{}, false
			}
			sym = s
			d = d.Union(cd)
		}
		return sym, d, true

	case *And:
		// A nested conjunction on a single symbol, as produced by
		// parenthesized ranges inside a disjunction.
		if len(t.Exprs) == 0 {
			return "", tupledomain.Domain{}, false
		}
		var sym Symbol
		d := tupledomain.DomainAll()
		for i, c := range t.Exprs {
			s, cd, ok := ExtractConjunctDomain(c)
			if !ok || (i > 0 && s != sym) {
				return "", tupledomain.Domain{}, false
			}
			sym = s
			d = d.Intersect(cd)
		}
		return sym, d, true
	}
	return "", tupledomain.Domain{}, false
}

func comparisonDomain(c *Comparison) tupledomain.Domain {
	v := c.Right
	switch c.Op {
	case EqOp:
		return tupledomain.SingleValue(v)
	case NeOp:
		return tupledomain.DomainOf(tupledomain.LessThan(v), tupledomain.GreaterThan(v))
	case LtOp:
		return tupledomain.DomainOf(tupledomain.LessThan(v))
	case LeOp:
		return tupledomain.DomainOf(tupledomain.LessThanOrEqual(v))
	case GtOp:
		return tupledomain.DomainOf(tupledomain.GreaterThan(v))
	case GeOp:
		return tupledomain.DomainOf(tupledomain.GreaterThanOrEqual(v))
	}
	return tupledomain.DomainAll()
}

// ExtractedConjunct is a conjunct of a predicate along with the restriction
// it is equivalent to, if any.
type ExtractedConjunct struct {
	Expr Expr
	// Symbol and Domain are set if HasDomain is true.
	Symbol    Symbol
	Domain    tupledomain.Domain
	HasDomain bool
}

// ExtractDomains splits e into its conjuncts and returns the per-symbol
// domains implied by the conjuncts that are restrictions on a single symbol,
// intersected per symbol. The returned conjuncts are in predicate order.
func ExtractDomains(e Expr) (map[Symbol]tupledomain.Domain, []ExtractedConjunct) {
	domains := make(map[Symbol]tupledomain.Domain)
	conjuncts := Conjuncts(e)
	res := make([]ExtractedConjunct, len(conjuncts))
	for i, c := range conjuncts {
		res[i].Expr = c
		sym, d, ok := ExtractConjunctDomain(c)
		if !ok {
			continue
		}
		res[i].Symbol, res[i].Domain, res[i].HasDomain = sym, d, true
		if prev, ok := domains[sym]; ok {
			d = prev.Intersect(d)
		}
		domains[sym] = d
	}
	return domains, res
}
