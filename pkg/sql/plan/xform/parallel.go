// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"context"

	"github.com/cockroachdb/planir/pkg/sql/plan"
	"golang.org/x/sync/errgroup"
)

// rewriteBoth applies fn to the two inputs of a join, concurrently if the
// settings allow it. A panic in either call is re-raised in the caller's
// goroutine once both calls have finished.
func rewriteBoth(
	ctx context.Context, pc *PassContext, left, right func(ctx context.Context) plan.Node,
) (plan.Node, plan.Node) {
	if !pc.Settings.Parallel {
		return left(ctx), right(ctx)
	}
	var l, r plan.Node
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return catchPanic(func() { l = left(gCtx) })
	})
	g.Go(func() error {
		return catchPanic(func() { r = right(gCtx) })
	})
	if err := g.Wait(); err != nil {
		panic(err)
	}
	return l, r
}

func catchPanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = plan.CatchOptimizerError(r)
		}
	}()
	fn()
	return nil
}

// must panics with err if it is not nil and otherwise returns n.
func must[T plan.Node](n T, err error) T {
	if err != nil {
		panic(err)
	}
	return n
}
