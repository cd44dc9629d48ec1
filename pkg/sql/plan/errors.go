// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

// ErrInvalidArgument marks errors caused by a caller passing arguments that
// violate a node's construction contract: assignments that do not cover the
// outputs, a constraint without a layout, or the wrong number of children.
// Test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrIllegalState marks errors caused by reading state a node does not hold,
// such as the planner-only constraint of a scan reconstructed from its
// transport form. Test for it with errors.Is.
var ErrIllegalState = errors.New("illegal state")

func invalidArgumentf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrInvalidArgument)
}

func illegalStatef(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrIllegalState)
}

// CatchOptimizerError catches any runtime panics from optimizer functions and
// returns them as errors. This allows optimizer passes to propagate errors
// internally as panics without adding error checks everywhere. This is only
// possible because passes do not update shared state and do not manipulate
// locks.
//
// Usage:
//
//	defer func() {
//	  if r := recover(); r != nil {
//	    err = plan.CatchOptimizerError(r)
//	  }
//	}()
func CatchOptimizerError(r interface{}) error {
	err, ok := r.(error)
	if !ok {
		// Not an error object. For serious internal errors e.g. in the scheduler,
		// bad goroutine state, allocator problem etc, the go runtime throws a
		// string which does not implement error. So in this case we suspect we are
		// not able to recover, and must crash.
		panic(r)
	}
	if errors.HasInterface(err, (*runtime.Error)(nil)) {
		// Convert runtime errors to assertion failures, which include stacks.
		return errors.HandleAsAssertionFailure(err)
	}
	return err
}
