// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
	"github.com/cockroachdb/redact"
)

// Expr is a boolean scalar predicate over symbols. The set of expression
// types is closed.
type Expr interface {
	fmt.Stringer
	redact.SafeFormatter

	isExpr()
}

// CompareOp is the operator of a Comparison.
type CompareOp uint8

const (
	// EqOp is "=".
	EqOp CompareOp = iota + 1
	// NeOp is "!=".
	NeOp
	// LtOp is "<".
	LtOp
	// LeOp is "<=".
	LeOp
	// GtOp is ">".
	GtOp
	// GeOp is ">=".
	GeOp
)

var compareOpNames = map[CompareOp]string{
	EqOp: "=",
	NeOp: "!=",
	LtOp: "<",
	LeOp: "<=",
	GtOp: ">",
	GeOp: ">=",
}

func (o CompareOp) String() string {
	if s, ok := compareOpNames[o]; ok {
		return s
	}
	return "?"
}

// SafeValue implements redact.SafeValue.
func (CompareOp) SafeValue() {}

// ParseCompareOp returns the operator spelled s.
func ParseCompareOp(s string) (CompareOp, error) {
	for op, name := range compareOpNames {
		if name == s {
			return op, nil
		}
	}
	return 0, invalidArgumentf("unknown comparison operator %q", s)
}

// Comparison compares the value of a symbol with a constant.
type Comparison struct {
	Left  Symbol
	Op    CompareOp
	Right tupledomain.Value
}

// And is the conjunction of its operands. An And with no operands is true.
type And struct {
	Exprs []Expr
}

// Or is the disjunction of its operands. An Or with no operands is false.
type Or struct {
	Exprs []Expr
}

// BoolConst is a constant predicate.
type BoolConst bool

// TrueExpr and FalseExpr are the constant predicates.
const (
	TrueExpr  BoolConst = true
	FalseExpr BoolConst = false
)

var (
	_ Expr = (*Comparison)(nil)
	_ Expr = (*And)(nil)
	_ Expr = (*Or)(nil)
	_ Expr = TrueExpr
)

func (*Comparison) isExpr() {}
func (*And) isExpr()        {}
func (*Or) isExpr()         {}
func (BoolConst) isExpr()   {}

func (e *Comparison) String() string { return redact.StringWithoutMarkers(e) }
func (e *And) String() string        { return redact.StringWithoutMarkers(e) }
func (e *Or) String() string         { return redact.StringWithoutMarkers(e) }
func (e BoolConst) String() string   { return redact.StringWithoutMarkers(e) }

// SafeFormat implements redact.SafeFormatter.
func (e *Comparison) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s %s %s", redact.SafeString(e.Left), e.Op, e.Right)
}

// SafeFormat implements redact.SafeFormatter.
func (e *And) SafeFormat(w redact.SafePrinter, _ rune) {
	formatList(w, e.Exprs, " AND ", TrueExpr)
}

// SafeFormat implements redact.SafeFormatter.
func (e *Or) SafeFormat(w redact.SafePrinter, _ rune) {
	formatList(w, e.Exprs, " OR ", FalseExpr)
}

// SafeFormat implements redact.SafeFormatter.
func (e BoolConst) SafeFormat(w redact.SafePrinter, _ rune) {
	if e {
		w.SafeString("TRUE")
	} else {
		w.SafeString("FALSE")
	}
}

func formatList(w redact.SafePrinter, exprs []Expr, sep redact.SafeString, empty Expr) {
	if len(exprs) == 0 {
		w.Print(empty)
		return
	}
	for i, e := range exprs {
		if i > 0 {
			w.SafeString(sep)
		}
		switch e.(type) {
		case *And, *Or:
			w.Printf("(%s)", e)
		default:
			w.Print(e)
		}
	}
}

// Conjuncts returns the top-level conjuncts of e, flattening nested Ands. TRUE
// has no conjuncts.
func Conjuncts(e Expr) []Expr {
	var res []Expr
	var walk func(e Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case *And:
			for _, c := range t.Exprs {
				walk(c)
			}
		case BoolConst:
			if !t {
				res = append(res, t)
			}
		default:
			res = append(res, e)
		}
	}
	walk(e)
	return res
}

// CombineConjuncts returns the conjunction of exprs: TRUE if there are none,
// the only element if there is one, and an And otherwise.
func CombineConjuncts(exprs []Expr) Expr {
	switch len(exprs) {
	case 0:
		return TrueExpr
	case 1:
		return exprs[0]
	}
	return &And{Exprs: append([]Expr(nil), exprs...)}
}

// ReferencedSymbols returns the sorted, deduplicated symbols referenced by e.
func ReferencedSymbols(e Expr) []Symbol {
	seen := make(map[Symbol]struct{})
	var walk func(e Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case *Comparison:
			seen[t.Left] = struct{}{}
		case *And:
			for _, c := range t.Exprs {
				walk(c)
			}
		case *Or:
			for _, c := range t.Exprs {
				walk(c)
			}
		case BoolConst:
		default:
			panic(errors.AssertionFailedf("unhandled expression type %T", e))
		}
	}
	walk(e)
	syms := make([]Symbol, 0, len(seen))
	for s := range seen {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// RenameSymbols returns e with every symbol s replaced by m[s]. Symbols absent
// from m are kept. e is returned unchanged if no symbol is renamed.
func RenameSymbols(e Expr, m map[Symbol]Symbol) Expr {
	switch t := e.(type) {
	case *Comparison:
		if to, ok := m[t.Left]; ok && to != t.Left {
			return &Comparison{Left: to, Op: t.Op, Right: t.Right}
		}
		return e
	case *And:
		if exprs, changed := renameList(t.Exprs, m); changed {
			return &And{Exprs: exprs}
		}
		return e
	case *Or:
		if exprs, changed := renameList(t.Exprs, m); changed {
			return &Or{Exprs: exprs}
		}
		return e
	case BoolConst:
		return e
	}
	panic(errors.AssertionFailedf("unhandled expression type %T", e))
}

func renameList(exprs []Expr, m map[Symbol]Symbol) ([]Expr, bool) {
	var res []Expr
	for i, e := range exprs {
		r := RenameSymbols(e, m)
		if r != e && res == nil {
			res = append(make([]Expr, 0, len(exprs)), exprs[:i]...)
		}
		if res != nil {
			res = append(res, r)
		}
	}
	if res == nil {
		return exprs, false
	}
	return res, true
}

// ExprEqual returns true if a and b are structurally equal.
func ExprEqual(a, b Expr) bool {
	switch ta := a.(type) {
	case *Comparison:
		tb, ok := b.(*Comparison)
		return ok && ta.Left == tb.Left && ta.Op == tb.Op && ta.Right.Compare(tb.Right) == 0
	case *And:
		tb, ok := b.(*And)
		return ok && exprListEqual(ta.Exprs, tb.Exprs)
	case *Or:
		tb, ok := b.(*Or)
		return ok && exprListEqual(ta.Exprs, tb.Exprs)
	case BoolConst:
		tb, ok := b.(BoolConst)
		return ok && ta == tb
	}
	return false
}

func exprListEqual(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ExprEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

