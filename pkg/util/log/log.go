// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log implements leveled, context-aware logging for planir. The API
// follows CockroachDB's util/log: every logging call takes a context.Context
// whose logtags are rendered in front of the message, and messages are built
// with redact so that unsafe values can be stripped or marked.
package log

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Severity identifies the importance of a log entry.
type Severity int32

const (
	// SeverityUnknown is the zero value; it is never emitted.
	SeverityUnknown Severity = iota
	// INFO is used for informational messages.
	INFO
	// WARNING is used for situations that may require attention.
	WARNING
	// ERROR is used for errors that do not stop the process.
	ERROR
	// FATAL is used for errors after which the process exits.
	FATAL
)

var severityNames = [...]string{
	SeverityUnknown: "UNKNOWN",
	INFO:            "INFO",
	WARNING:         "WARNING",
	ERROR:           "ERROR",
	FATAL:           "FATAL",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return severityNames[SeverityUnknown]
	}
	return severityNames[s]
}

// SafeValue implements redact.SafeValue.
func (Severity) SafeValue() {}

// char returns the single-character abbreviation used by the crdb-v1 format.
func (s Severity) char() byte {
	return s.String()[0]
}

// loggerT is the process-wide logger. All fields under mu are protected by
// it; verbosity is read on the hot path without locking.
type loggerT struct {
	verbosity atomic.Int32

	mu struct {
		sync.Mutex
		out        io.Writer
		formatter  logFormatter
		redactable bool
		counter    uint64

		exitOverride struct {
			f func(int)
		}
	}
}

var logging = func() *loggerT {
	l := &loggerT{}
	l.mu.out = os.Stderr
	l.mu.formatter = formatCrdbV1{}
	return l
}()

// SetOutput redirects log output to w and returns a function restoring the
// previous destination.
func SetOutput(w io.Writer) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prev := logging.mu.out
	logging.mu.out = w
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.out = prev
	}
}

// SetFormat selects the output format by name ("crdb-v1" or "json").
func SetFormat(name string) error {
	f, ok := formatters[name]
	if !ok {
		return errors.Newf("unknown log format: %q", name)
	}
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.mu.formatter = f
	return nil
}

// SetRedactable controls whether redaction markers are kept in the output.
func SetRedactable(redactable bool) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.mu.redactable = redactable
}

// SetVerbosity sets the level up to which V and VEventf are enabled.
func SetVerbosity(level int32) {
	logging.verbosity.Store(level)
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, INFO, 1, format, args)
}

// Info logs a message without format arguments to the INFO severity.
func Info(ctx context.Context, msg redact.RedactableString) {
	addStructured(ctx, INFO, 1, "%s", []interface{}{msg})
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, WARNING, 1, format, args)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, ERROR, 1, format, args)
}

// Fatalf logs to the FATAL severity and then exits the process.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, FATAL, 1, format, args)
}

// VEventf logs to the INFO severity if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		addStructured(ctx, INFO, 1, format, args)
	}
}

// VEvent is like VEventf but takes a pre-built message.
func VEvent(ctx context.Context, level int32, msg redact.RedactableString) {
	if V(level) {
		addStructured(ctx, INFO, 1, "%s", []interface{}{msg})
	}
}
