// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package planbuilder builds initial plans from query descriptions. A query is
// a tree of operators written in YAML, each naming exactly one operator:
//
//	limit: 10
//	input:
//	  filter: "a >= 1 AND x = 'y'"
//	  input:
//	    join:
//	      on: [[a, x]]
//	      left: {scan: orders, columns: [a, b]}
//	      right: {scan: lineitem}
//
// A scan outputs the listed columns, or all columns of the table if none are
// listed, and assigns every column of the table. Each column becomes a symbol
// named after it; if the name is already taken by another scan, a numeric
// suffix is added ("a_1"). Predicates and projections refer to symbols.
package planbuilder

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/sql/plan/cat"
	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
	yaml "gopkg.in/yaml.v2"
)

// Query is the YAML form of a query operator.
type Query struct {
	// Scan names the table to read.
	Scan string `yaml:"scan,omitempty"`
	// Columns are the columns a scan outputs.
	Columns []string `yaml:"columns,omitempty"`

	Filter  string     `yaml:"filter,omitempty"`
	Project []string   `yaml:"project,omitempty"`
	Limit   *int64     `yaml:"limit,omitempty"`
	Join    *JoinQuery `yaml:"join,omitempty"`

	// Input is the input of a filter, project or limit.
	Input *Query `yaml:"input,omitempty"`
}

// JoinQuery is the YAML form of an inner equi-join.
type JoinQuery struct {
	Left   *Query      `yaml:"left"`
	Right  *Query      `yaml:"right"`
	On     [][2]string `yaml:"on,omitempty"`
	Filter string      `yaml:"filter,omitempty"`
}

// Parse decodes the YAML form of a query.
func Parse(data []byte) (*Query, error) {
	var q Query
	if err := yaml.UnmarshalStrict(data, &q); err != nil {
		return nil, errors.Wrap(err, "parsing query")
	}
	return &q, nil
}

// Builder builds plans against a catalog. A Builder allocates node ids and
// symbols, so all plans built by one Builder have distinct ids and symbols.
// It is not safe for concurrent use.
type Builder struct {
	catalog cat.Catalog
	ids     *plan.IDAllocator
	syms    plan.SymbolAllocator
}

// New returns a Builder. ids may be shared with an optimizer that later
// allocates ids for the plans the Builder produces.
func New(catalog cat.Catalog, ids *plan.IDAllocator) *Builder {
	if ids == nil {
		ids = &plan.IDAllocator{}
	}
	return &Builder{catalog: catalog, ids: ids}
}

// IDs returns the id allocator of the builder.
func (b *Builder) IDs() *plan.IDAllocator { return b.ids }

// BuildYAML parses and builds a query.
func (b *Builder) BuildYAML(ctx context.Context, data []byte) (plan.Node, error) {
	q, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, q)
}

// Build builds the plan of a query. Scans are built with planner state: their
// constraint is ALL and they have no layout.
func (b *Builder) Build(ctx context.Context, q *Query) (plan.Node, error) {
	if q == nil {
		return nil, errors.New("missing query operator")
	}
	ops := 0
	for _, set := range []bool{q.Scan != "", q.Filter != "", q.Project != nil, q.Limit != nil, q.Join != nil} {
		if set {
			ops++
		}
	}
	if ops != 1 {
		return nil, errors.Newf("a query operator must name exactly one of scan, filter, project, limit and join; found %d", ops)
	}

	switch {
	case q.Scan != "":
		return b.buildScan(ctx, q)
	case q.Join != nil:
		return b.buildJoin(ctx, q.Join)
	}

	input, err := b.Build(ctx, q.Input)
	if err != nil {
		return nil, err
	}
	switch {
	case q.Filter != "":
		pred, err := plan.ParseExpr(q.Filter)
		if err != nil {
			return nil, err
		}
		return plan.NewFilter(b.ids.NextID(), input, pred)
	case q.Project != nil:
		outputs := make([]plan.Symbol, len(q.Project))
		for i, s := range q.Project {
			outputs[i] = plan.Symbol(s)
		}
		return plan.NewProject(b.ids.NextID(), input, outputs)
	default:
		return plan.NewLimit(b.ids.NextID(), input, *q.Limit)
	}
}

func (b *Builder) buildScan(ctx context.Context, q *Query) (plan.Node, error) {
	if q.Input != nil {
		return nil, errors.Newf("scan of %s cannot have an input", q.Scan)
	}
	tbl, err := b.catalog.ResolveTable(ctx, q.Scan)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]plan.Symbol, len(tbl.Columns))
	cols := make(map[plan.Symbol]handle.ColumnHandle, len(tbl.Columns))
	for _, c := range tbl.Columns {
		sym := b.syms.NewSymbol(c.Name)
		byName[c.Name] = sym
		cols[sym] = c.Handle
	}
	var outputs []plan.Symbol
	if q.Columns == nil {
		for _, c := range tbl.Columns {
			outputs = append(outputs, byName[c.Name])
		}
	} else {
		for _, name := range q.Columns {
			sym, ok := byName[name]
			if !ok {
				return nil, errors.Newf("table %s has no column %q", q.Scan, name)
			}
			outputs = append(outputs, sym)
		}
	}
	return plan.NewPlannerScan(
		b.ids.NextID(), tbl.Handle, outputs, plan.MakeAssignments(cols), nil,
		plan.ConstraintOf(tupledomain.All()),
	)
}

func (b *Builder) buildJoin(ctx context.Context, q *JoinQuery) (plan.Node, error) {
	left, err := b.Build(ctx, q.Left)
	if err != nil {
		return nil, errors.Wrap(err, "left input")
	}
	right, err := b.Build(ctx, q.Right)
	if err != nil {
		return nil, errors.Wrap(err, "right input")
	}
	criteria := make([]plan.EquiJoinClause, len(q.On))
	for i, on := range q.On {
		criteria[i] = plan.EquiJoinClause{Left: plan.Symbol(on[0]), Right: plan.Symbol(on[1])}
	}
	var filter plan.Expr
	if q.Filter != "" {
		if filter, err = plan.ParseExpr(q.Filter); err != nil {
			return nil, err
		}
	}
	return plan.NewJoin(b.ids.NextID(), left, right, criteria, filter)
}
