// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func TestCrdbV1Format(t *testing.T) {
	s := Scope(t)
	defer s.Close(t)

	ctx := logtags.AddTag(context.Background(), "n", 1)
	ctx = logtags.AddTag(ctx, "plan", "abc")
	Infof(ctx, "hello %s", redact.Safe("world"))
	Warningf(context.Background(), "careful")

	lines := strings.Split(strings.TrimSuffix(s.Contents(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "I"), lines[0])
	require.Contains(t, lines[0], "log_test.go:")
	require.Contains(t, lines[0], "[n1,plan=abc] ")
	require.True(t, strings.HasSuffix(lines[0], "hello world"), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "W"), lines[1])
	require.NotContains(t, lines[1], "[")
}

func TestRedactable(t *testing.T) {
	s := Scope(t)
	defer s.Close(t)

	Infof(context.Background(), "user value %s", "secret")
	SetRedactable(true)
	defer SetRedactable(false)
	Infof(context.Background(), "user value %s", "secret")

	lines := strings.Split(strings.TrimSuffix(s.Contents(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasSuffix(lines[0], "user value secret"), lines[0])
	require.True(t, strings.HasSuffix(lines[1], "user value ‹secret›"), lines[1])
}

func TestJSONFormat(t *testing.T) {
	s := Scope(t)
	defer s.Close(t)
	require.NoError(t, SetFormat("json"))
	defer func() { require.NoError(t, SetFormat("crdb-v1")) }()

	ctx := logtags.AddTag(context.Background(), "pass", "pushdown")
	Errorf(ctx, "something %d", 42)

	var e jsonEntry
	require.NoError(t, json.Unmarshal([]byte(s.Contents()), &e))
	require.Equal(t, "ERROR", e.Severity)
	require.Equal(t, "pass=pushdown", e.Tags)
	require.Equal(t, "something 42", e.Message)
	require.Equal(t, "log_test.go", e.File)

	require.Error(t, SetFormat("xml"))
}

func TestVerbosity(t *testing.T) {
	s := Scope(t)
	defer s.Close(t)
	defer SetVerbosity(0)

	ctx := context.Background()
	require.False(t, V(1))
	VEventf(ctx, 1, "hidden")
	SetVerbosity(2)
	require.True(t, V(1))
	VEventf(ctx, 2, "shown")
	VEventf(ctx, 3, "still hidden")

	require.NotContains(t, s.Contents(), "hidden")
	require.Contains(t, s.Contents(), "shown")
}

func TestFatalExitOverride(t *testing.T) {
	s := Scope(t)
	defer s.Close(t)

	var code int
	SetExitFunc(func(c int) { code = c })
	defer ResetExitFunc()
	Fatalf(context.Background(), "boom")
	require.Equal(t, exitCodeFatal, code)
	require.True(t, strings.HasPrefix(s.Contents(), "F"))
}

func TestEveryN(t *testing.T) {
	e := Every(time.Minute)
	start := time.Now()
	require.True(t, e.shouldLog(start))
	require.False(t, e.shouldLog(start.Add(time.Second)))
	require.True(t, e.shouldLog(start.Add(2*time.Minute)))
}

func TestFormatWithContextTags(t *testing.T) {
	ctx := logtags.AddTag(context.Background(), "pass", "prune")
	require.Equal(t, "[pass=prune] x=1", FormatWithContextTags(ctx, "x=%d", 1))
	require.Equal(t, "x=1", FormatWithContextTags(context.Background(), "x=%d", 1))
}
