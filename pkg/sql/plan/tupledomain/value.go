// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tupledomain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind is the type of a Value.
type Kind uint8

const (
	// IntKind values hold an int64.
	IntKind Kind = iota + 1
	// StringKind values hold a string.
	StringKind
)

// Value is a constant that a column may take. Values of different kinds are
// totally ordered by kind first, so that comparisons never fail; a domain
// that mixes kinds is legal but meaningless.
type Value struct {
	kind Kind
	i    int64
	s    string
}

// MakeInt returns an integer Value.
func MakeInt(v int64) Value {
	return Value{kind: IntKind, i: v}
}

// MakeString returns a string Value.
func MakeString(v string) Value {
	return Value{kind: StringKind, s: v}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer held by an IntKind value.
func (v Value) Int() int64 { return v.i }

// Str returns the string held by a StringKind value.
func (v Value) Str() string { return v.s }

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to or
// after other.
func (v Value) Compare(other Value) int {
	if v.kind != other.kind {
		if v.kind < other.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case IntKind:
		switch {
		case v.i < other.i:
			return -1
		case v.i > other.i:
			return 1
		}
		return 0
	case StringKind:
		return strings.Compare(v.s, other.s)
	}
	return 0
}

func (v Value) String() string {
	switch v.kind {
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case StringKind:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	}
	return "<invalid>"
}

// MarshalJSON encodes integers as JSON numbers and strings as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case IntKind:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case StringKind:
		return json.Marshal(v.s)
	}
	return nil, errors.AssertionFailedf("cannot encode value of kind %d", v.kind)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = MakeString(s)
		return nil
	}
	i, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid value %s", data)
	}
	*v = MakeInt(i)
	return nil
}
