// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package handle defines the opaque tokens the catalog hands to the planner:
// table handles, table-layout handles and column handles. The planner never
// interprets a handle; it stores, forwards and compares them. Handles are
// comparable values, so == is their equality and they can key maps.
package handle

import (
	"strings"

	"github.com/cockroachdb/redact"
)

// TableHandle identifies a physical table.
type TableHandle struct {
	// ConnectorID names the catalog connector that owns the table.
	ConnectorID string `json:"connectorId" yaml:"connector"`
	// Payload is the connector-specific encoding of the table.
	Payload string `json:"connectorHandle" yaml:"handle"`
}

// TableLayoutHandle identifies a chosen physical access path for a table.
type TableLayoutHandle struct {
	ConnectorID string `json:"connectorId"`
	Payload     string `json:"connectorHandle"`
}

// ColumnHandle identifies a physical column.
type ColumnHandle struct {
	ConnectorID string `json:"connectorId" yaml:"connector"`
	Payload     string `json:"connectorHandle" yaml:"handle"`
}

// MakeTable constructs a TableHandle.
func MakeTable(connectorID, payload string) TableHandle {
	return TableHandle{ConnectorID: connectorID, Payload: payload}
}

// MakeLayout constructs a TableLayoutHandle.
func MakeLayout(connectorID, payload string) TableLayoutHandle {
	return TableLayoutHandle{ConnectorID: connectorID, Payload: payload}
}

// MakeColumn constructs a ColumnHandle.
func MakeColumn(connectorID, payload string) ColumnHandle {
	return ColumnHandle{ConnectorID: connectorID, Payload: payload}
}

func (h TableHandle) String() string { return redact.StringWithoutMarkers(h) }

// SafeFormat implements redact.SafeFormatter. The connector id is safe; the
// payload may embed user identifiers.
func (h TableHandle) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s:%s", redact.SafeString(h.ConnectorID), h.Payload)
}

func (h TableLayoutHandle) String() string { return redact.StringWithoutMarkers(h) }

// SafeFormat implements redact.SafeFormatter.
func (h TableLayoutHandle) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s:%s", redact.SafeString(h.ConnectorID), h.Payload)
}

func (h ColumnHandle) String() string { return redact.StringWithoutMarkers(h) }

// SafeFormat implements redact.SafeFormatter.
func (h ColumnHandle) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s:%s", redact.SafeString(h.ConnectorID), h.Payload)
}

// IsZero returns true for the zero TableHandle, which names no table.
func (h TableHandle) IsZero() bool { return h == TableHandle{} }

// Compare orders column handles by connector and then payload. The order has
// no meaning beyond making renderings deterministic.
func (h ColumnHandle) Compare(other ColumnHandle) int {
	if c := strings.Compare(h.ConnectorID, other.ConnectorID); c != 0 {
		return c
	}
	return strings.Compare(h.Payload, other.Payload)
}
