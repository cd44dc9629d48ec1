// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package planwire defines the transport form of plan trees: the JSON
// documents the coordinator ships to execution workers. A node is encoded as
// an object whose "@type" member names its kind. Planner-only state never
// appears in the transport form; in particular ScanSpec has no field for the
// constraint accumulated by predicate pushdown, so a scan decoded by FromSpec
// never carries one.
package planwire

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
)

// Type tags of the node variants.
const (
	scanType    = "scan"
	filterType  = "filter"
	projectType = "project"
	limitType   = "limit"
	joinType    = "join"
)

// NodeSpec is the transport form of a plan node. Exactly one field is set.
type NodeSpec struct {
	Scan    *ScanSpec
	Filter  *FilterSpec
	Project *ProjectSpec
	Limit   *LimitSpec
	Join    *JoinSpec
}

// ScanSpec is the transport form of a plan.ScanNode.
type ScanSpec struct {
	ID            plan.NodeID                         `json:"id"`
	Table         handle.TableHandle                  `json:"table"`
	OutputSymbols []plan.Symbol                       `json:"outputSymbols"`
	Assignments   map[plan.Symbol]handle.ColumnHandle `json:"assignments"`
	// Layout is null when no access path has been chosen.
	Layout *handle.TableLayoutHandle `json:"layout"`
}

// FilterSpec is the transport form of a plan.FilterNode.
type FilterSpec struct {
	ID        plan.NodeID `json:"id"`
	Source    *NodeSpec   `json:"source"`
	Predicate *ExprSpec   `json:"predicate"`
}

// ProjectSpec is the transport form of a plan.ProjectNode.
type ProjectSpec struct {
	ID            plan.NodeID   `json:"id"`
	Source        *NodeSpec     `json:"source"`
	OutputSymbols []plan.Symbol `json:"outputSymbols"`
}

// LimitSpec is the transport form of a plan.LimitNode.
type LimitSpec struct {
	ID     plan.NodeID `json:"id"`
	Source *NodeSpec   `json:"source"`
	Count  int64       `json:"count"`
}

// JoinSpec is the transport form of a plan.JoinNode.
type JoinSpec struct {
	ID       plan.NodeID    `json:"id"`
	Left     *NodeSpec      `json:"left"`
	Right    *NodeSpec      `json:"right"`
	Criteria []CriteriaSpec `json:"criteria"`
	Filter   *ExprSpec      `json:"filter,omitempty"`
}

// CriteriaSpec is the transport form of a plan.EquiJoinClause.
type CriteriaSpec struct {
	Left  plan.Symbol `json:"left"`
	Right plan.Symbol `json:"right"`
}

// ExprSpec is the transport form of a plan.Expr. Type is one of
// "comparison", "and", "or" and "constant".
type ExprSpec struct {
	Type string `json:"@type"`
	// Comparison.
	Symbol plan.Symbol        `json:"symbol,omitempty"`
	Op     string             `json:"op,omitempty"`
	Value  *tupledomain.Value `json:"value,omitempty"`
	// And, Or.
	Terms []*ExprSpec `json:"terms,omitempty"`
	// Constant.
	Bool *bool `json:"bool,omitempty"`
}

func (s *NodeSpec) variant() (string, interface{}) {
	switch {
	case s.Scan != nil:
		return scanType, s.Scan
	case s.Filter != nil:
		return filterType, s.Filter
	case s.Project != nil:
		return projectType, s.Project
	case s.Limit != nil:
		return limitType, s.Limit
	case s.Join != nil:
		return joinType, s.Join
	}
	return "", nil
}

// MarshalJSON encodes the variant as a JSON object whose first member is
// "@type".
func (s *NodeSpec) MarshalJSON() ([]byte, error) {
	typ, body := s.variant()
	if body == nil {
		return nil, errors.AssertionFailedf("empty node spec")
	}
	b, err := marshalJSON(body)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(b) + len(typ) + 12)
	buf.WriteString(`{"@type":"`)
	buf.WriteString(typ)
	buf.WriteByte('"')
	if len(b) > 2 {
		buf.WriteByte(',')
	}
	buf.Write(b[1:])
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object produced by MarshalJSON.
func (s *NodeSpec) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	*s = NodeSpec{}
	var body interface{}
	switch tag.Type {
	case scanType:
		s.Scan = &ScanSpec{}
		body = s.Scan
	case filterType:
		s.Filter = &FilterSpec{}
		body = s.Filter
	case projectType:
		s.Project = &ProjectSpec{}
		body = s.Project
	case limitType:
		s.Limit = &LimitSpec{}
		body = s.Limit
	case joinType:
		s.Join = &JoinSpec{}
		body = s.Join
	default:
		return errors.Mark(errors.Newf("unknown node type %q", tag.Type), plan.ErrInvalidArgument)
	}
	return json.Unmarshal(data, body)
}

// marshalJSON is json.Marshal without HTML escaping, so that comparison
// operators stay readable in the encoded plan.
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
