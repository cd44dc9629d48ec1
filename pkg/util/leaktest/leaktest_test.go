// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package leaktest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoroutineID(t *testing.T) {
	require.Equal(t, int64(17), goroutineID("goroutine 17 [running]:"))
	require.Equal(t, int64(-1), goroutineID("goroutine"))
	require.Equal(t, int64(-1), goroutineID("goroutine x7 [running]:"))
}

func TestNoLeak(t *testing.T) {
	defer AfterTest(t)()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
		}()
	}
	wg.Wait()
}
