// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import "github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"

// PlannerConstraint is the planner-only constraint state of a scan. It has two
// states: it either holds the TupleDomain that predicate pushdown has proven
// for the scan so far, or it is NotTransported, which is the state of every
// scan built from its transport form. The constraint can be arbitrarily large
// and is only meaningful while the planner iterates pushdown, so it is never
// sent to execution workers.
type PlannerConstraint struct {
	domain  tupledomain.TupleDomain
	present bool
}

// NotTransported is the PlannerConstraint of scans that carry no planner
// state. It is the zero value.
var NotTransported = PlannerConstraint{}

// ConstraintOf returns a PlannerConstraint holding d.
func ConstraintOf(d tupledomain.TupleDomain) PlannerConstraint {
	return PlannerConstraint{domain: d, present: true}
}

// IsPresent returns true if the constraint holds a TupleDomain.
func (c PlannerConstraint) IsPresent() bool { return c.present }

// Get returns the TupleDomain. It fails with ErrIllegalState when the
// constraint is NotTransported.
func (c PlannerConstraint) Get() (tupledomain.TupleDomain, error) {
	if !c.present {
		return tupledomain.TupleDomain{}, illegalStatef(
			"current constraint is only available in the planner; it is not transported to workers")
	}
	return c.domain, nil
}

// requiresLayout returns true if the constraint restricts the scan and can
// therefore only be attached to a scan whose layout has been chosen.
func (c PlannerConstraint) requiresLayout() bool {
	return c.present && !c.domain.IsAll()
}

func (c PlannerConstraint) String() string {
	if !c.present {
		return "<not transported>"
	}
	return c.domain.String()
}
