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

// PickLayouts gives every scan that has no layout the layout the catalog
// chooses for its current constraint, or for ALL if it carries none.
type PickLayouts struct{}

var _ Pass = PickLayouts{}

// Name is part of the Pass interface.
func (PickLayouts) Name() string { return "pick-layouts" }

// Apply is part of the Pass interface.
func (PickLayouts) Apply(ctx context.Context, pc *PassContext, root plan.Node) plan.Node {
	return must(plan.Rewrite(root, func(n plan.Node) (plan.Node, error) {
		s, ok := n.(*plan.ScanNode)
		if !ok {
			return n, nil
		}
		if _, ok := s.Layout(); ok {
			return n, nil
		}
		constraint := tupledomain.All()
		if pcon := s.PlannerConstraint(); pcon.IsPresent() {
			constraint, _ = pcon.Get()
		}
		res, err := pc.Catalog.ResolveLayout(ctx, s.Table(), constraint)
		if err != nil {
			return nil, err
		}
		log.VEventf(ctx, 2, "scan %s: layout %s", s.ID(), res.Layout)
		return must(s.WithLayout(res.Layout)), nil
	}))
}
