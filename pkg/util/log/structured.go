// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/petermattis/goid"
)

// logEntry is a single log event before formatting.
type logEntry struct {
	sev       Severity
	time      time.Time
	goroutine int64
	file      string
	line      int
	counter   uint64
	tags      string
	message   string
}

// FormatWithContextTags formats the string and prepends the context
// tags.
//
// Redaction markers are *not* inserted. The resulting
// string is generally unsafe for reporting.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf strings.Builder
	if tags := formatTags(ctx); tags != "" {
		buf.WriteByte('[')
		buf.WriteString(tags)
		buf.WriteString("] ")
	}
	fmt.Fprintf(&buf, format, args...)
	return buf.String()
}

// formatTags renders the logtags of ctx in the "k1=v1,k2" style. Single
// character keys are followed directly by their value (e.g. "n1").
func formatTags(ctx context.Context) string {
	b := logtags.FromContext(ctx)
	if b == nil {
		return ""
	}
	var buf strings.Builder
	for i, t := range b.Get() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(t.Key())
		if v := t.Value(); v != nil {
			if len(t.Key()) > 1 {
				buf.WriteByte('=')
			}
			buf.WriteString(t.ValueStr())
		}
	}
	return buf.String()
}

// addStructured creates a structured log entry and writes it to the
// configured output.
func addStructured(
	ctx context.Context, sev Severity, depth int, format string, args []interface{},
) {
	entry := logEntry{
		sev:       sev,
		time:      time.Now(),
		goroutine: goid.Get(),
		tags:      formatTags(ctx),
	}
	if _, file, line, ok := runtime.Caller(depth + 1); ok {
		entry.file = filepath.Base(file)
		entry.line = line
	} else {
		entry.file = "???"
	}

	msg := redact.Sprintf(format, args...)

	logging.mu.Lock()
	logging.mu.counter++
	entry.counter = logging.mu.counter
	if logging.mu.redactable {
		entry.message = string(msg)
	} else {
		entry.message = msg.StripMarkers()
	}
	buf := logging.mu.formatter.formatEntry(entry)
	_, _ = logging.mu.out.Write(buf)
	exitFn := logging.mu.exitOverride.f
	logging.mu.Unlock()

	if sev == FATAL {
		if exitFn != nil {
			exitFn(exitCodeFatal)
			return
		}
		os.Exit(exitCodeFatal)
	}
}
