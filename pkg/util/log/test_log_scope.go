// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"sync"
)

// tShim is the subset of testing.TB used by TestLogScope.
type tShim interface {
	Helper()
	Failed() bool
	Logf(format string, args ...interface{})
}

// TestLogScope captures the log output produced during a test. The output is
// printed through the test framework only if the test fails.
//
// Usage:
//
//	defer log.Scope(t).Close(t)
type TestLogScope struct {
	restore func()
	buf     *syncBuffer
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Scope redirects logging into a buffer owned by the returned scope.
func Scope(t tShim) *TestLogScope {
	t.Helper()
	buf := &syncBuffer{}
	return &TestLogScope{restore: SetOutput(buf), buf: buf}
}

// Contents returns everything logged since the scope was created.
func (s *TestLogScope) Contents() string {
	return s.buf.String()
}

// Close restores the previous log destination. If the test failed, the
// captured output is dumped to the test log.
func (s *TestLogScope) Close(t tShim) {
	t.Helper()
	s.restore()
	if t.Failed() {
		if out := s.buf.String(); out != "" {
			t.Logf("log output:\n%s", out)
		}
	}
}
