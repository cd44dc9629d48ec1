// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import (
	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
	"github.com/cockroachdb/redact"
)

// ScanNode is a leaf that reads columns from a table: "produce these symbols
// from this table, optionally already known to satisfy this constraint".
//
// Assignments lists every column the scan can produce, which is a superset
// of the symbols it outputs. Layout is set once a physical access path has
// been chosen. The planner-only constraint accumulates the predicates proven
// by successive pushdown passes; it requires a layout unless it is ALL.
type ScanNode struct {
	zeroInputNode

	id          NodeID
	table       handle.TableHandle
	layout      handle.TableLayoutHandle
	hasLayout   bool
	outputs     []Symbol
	assignments Assignments
	constraint  PlannerConstraint
}

var _ Node = (*ScanNode)(nil)

// NewScan constructs a ScanNode without planner state. It is the constructor
// used when reconstructing a scan from its transport form, so the resulting
// node's constraint is NotTransported. layout may be nil if no access path
// has been chosen yet.
//
// It fails with ErrInvalidArgument if table is the zero handle or if an
// output symbol is not assigned.
func NewScan(
	id NodeID,
	table handle.TableHandle,
	outputs []Symbol,
	assignments Assignments,
	layout *handle.TableLayoutHandle,
) (*ScanNode, error) {
	return newScan(id, table, outputs, assignments, layout, NotTransported)
}

// NewPlannerScan constructs a ScanNode carrying planner state. In addition
// to the checks of NewScan it fails with ErrInvalidArgument if constraint
// restricts the scan (is present and not ALL) while layout is nil.
func NewPlannerScan(
	id NodeID,
	table handle.TableHandle,
	outputs []Symbol,
	assignments Assignments,
	layout *handle.TableLayoutHandle,
	constraint PlannerConstraint,
) (*ScanNode, error) {
	return newScan(id, table, outputs, assignments, layout, constraint)
}

func newScan(
	id NodeID,
	table handle.TableHandle,
	outputs []Symbol,
	assignments Assignments,
	layout *handle.TableLayoutHandle,
	constraint PlannerConstraint,
) (*ScanNode, error) {
	if err := checkID(ScanKind, id); err != nil {
		return nil, err
	}
	if table.IsZero() {
		return nil, invalidArgumentf("scan %s requires a table", id)
	}
	if missing, ok := assignments.Covers(outputs); !ok {
		return nil, invalidArgumentf("scan %s: assignments do not cover output symbol %q", id, missing)
	}
	if constraint.requiresLayout() && layout == nil {
		return nil, invalidArgumentf("scan %s: constraint %s requires a layout", id, constraint)
	}
	s := &ScanNode{
		id:          id,
		table:       table,
		outputs:     append([]Symbol(nil), outputs...),
		assignments: assignments,
		constraint:  constraint,
	}
	if layout != nil {
		s.layout, s.hasLayout = *layout, true
	}
	return s, nil
}

// ID is part of the Node interface.
func (s *ScanNode) ID() NodeID { return s.id }

// Kind is part of the Node interface.
func (s *ScanNode) Kind() Kind { return ScanKind }

// Outputs is part of the Node interface.
func (s *ScanNode) Outputs() []Symbol { return s.outputs }

// Table returns the handle of the scanned table.
func (s *ScanNode) Table() handle.TableHandle { return s.table }

// Layout returns the chosen access path. ok is false if none has been chosen.
func (s *ScanNode) Layout() (_ handle.TableLayoutHandle, ok bool) {
	return s.layout, s.hasLayout
}

// Assignments returns the columns the scan can produce.
func (s *ScanNode) Assignments() Assignments { return s.assignments }

// PlannerConstraint returns the planner-only constraint state.
func (s *ScanNode) PlannerConstraint() PlannerConstraint { return s.constraint }

// CurrentConstraint returns the constraint proven so far by predicate
// pushdown. It fails with ErrIllegalState if the scan carries no planner
// state, which is always the case for scans reconstructed from their
// transport form: only planner-resident code may call it.
func (s *ScanNode) CurrentConstraint() (tupledomain.TupleDomain, error) {
	if !s.constraint.IsPresent() {
		return tupledomain.TupleDomain{}, illegalStatef(
			"scan %s: current constraint is only available in the planner; it is not transported to workers", s.id)
	}
	return s.constraint.Get()
}

// WithChildren is part of the Node interface. A scan has no children, so the
// only valid call passes none and returns the receiver.
func (s *ScanNode) WithChildren(children ...Node) (Node, error) {
	if err := checkChildCount(s, children, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// WithRefinement returns a scan with the same id, table, outputs and
// assignments that uses the given layout and carries the given constraint.
func (s *ScanNode) WithRefinement(
	layout handle.TableLayoutHandle, constraint tupledomain.TupleDomain,
) (*ScanNode, error) {
	return newScan(s.id, s.table, s.outputs, s.assignments, &layout, ConstraintOf(constraint))
}

// WithLayout returns a scan with the same id and state that uses the given
// layout.
func (s *ScanNode) WithLayout(layout handle.TableLayoutHandle) (*ScanNode, error) {
	return newScan(s.id, s.table, s.outputs, s.assignments, &layout, s.constraint)
}

// WithOutputs returns a scan with the same id, table, layout and constraint
// state that produces the given outputs from the given assignments.
func (s *ScanNode) WithOutputs(outputs []Symbol, assignments Assignments) (*ScanNode, error) {
	var layout *handle.TableLayoutHandle
	if s.hasLayout {
		layout = &s.layout
	}
	return newScan(s.id, s.table, outputs, assignments, layout, s.constraint)
}

func (s *ScanNode) isNode() {}

func (s *ScanNode) String() string { return redact.StringWithoutMarkers(s) }

// SafeFormat implements redact.SafeFormatter. The rendering is meant for
// diagnostics only.
func (s *ScanNode) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("ScanNode{id=%s, table=%s, layout=", s.id, s.table)
	if s.hasLayout {
		w.Print(s.layout)
	} else {
		w.SafeString("<none>")
	}
	w.Printf(", outputSymbols=%s, assignments=%s, currentConstraint=%s}",
		symbolList(s.outputs), s.assignments.String(), s.constraint.String())
}

// symbolList renders symbols as "[a b c]".
type symbolList []Symbol

func (l symbolList) String() string {
	buf := make([]byte, 0, 2+4*len(l))
	buf = append(buf, '[')
	for i, s := range l {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, s...)
	}
	return string(append(buf, ']'))
}
