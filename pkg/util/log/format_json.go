// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type logFormatter interface {
	formatterName() string
	// formatEntry formats a logEntry into a newly allocated buffer that
	// ends with a newline.
	formatEntry(entry logEntry) []byte
}

var formatters = func() map[string]logFormatter {
	m := make(map[string]logFormatter)
	r := func(f logFormatter) {
		m[f.formatterName()] = f
	}
	r(formatCrdbV1{})
	r(formatJSON{})
	return m
}()

// formatCrdbV1 emits entries in the traditional CockroachDB text layout:
//
//	I261019 15:04:05.123456 42 xform/optimizer.go:88 ⋮ [plan=…] 3 message
type formatCrdbV1 struct{}

func (formatCrdbV1) formatterName() string { return "crdb-v1" }

func (formatCrdbV1) formatEntry(entry logEntry) []byte {
	var buf strings.Builder
	buf.WriteByte(entry.sev.char())
	buf.WriteString(entry.time.UTC().Format("060102 15:04:05.000000"))
	buf.WriteByte(' ')
	buf.WriteString(strconv.FormatInt(entry.goroutine, 10))
	buf.WriteByte(' ')
	buf.WriteString(entry.file)
	buf.WriteByte(':')
	buf.WriteString(strconv.Itoa(entry.line))
	buf.WriteString(" ⋮ ")
	if entry.tags != "" {
		buf.WriteByte('[')
		buf.WriteString(entry.tags)
		buf.WriteString("] ")
	}
	fmt.Fprintf(&buf, "%d ", entry.counter)
	buf.WriteString(entry.message)
	if !strings.HasSuffix(entry.message, "\n") {
		buf.WriteByte('\n')
	}
	return []byte(buf.String())
}

// formatJSON emits one JSON object per line.
type formatJSON struct{}

func (formatJSON) formatterName() string { return "json" }

type jsonEntry struct {
	Timestamp string `json:"timestamp"`
	Severity  string `json:"severity"`
	Goroutine int64  `json:"goroutine"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Counter   uint64 `json:"entry_counter"`
	Tags      string `json:"tags,omitempty"`
	Message   string `json:"message"`
}

func (formatJSON) formatEntry(entry logEntry) []byte {
	b, err := json.Marshal(jsonEntry{
		Timestamp: entry.time.UTC().Format("2006-01-02T15:04:05.000000Z"),
		Severity:  entry.sev.String(),
		Goroutine: entry.goroutine,
		File:      entry.file,
		Line:      entry.line,
		Counter:   entry.counter,
		Tags:      entry.tags,
		Message:   strings.TrimSuffix(entry.message, "\n"),
	})
	if err != nil {
		// All fields are plain strings and integers.
		panic(err)
	}
	return append(b, '\n')
}
