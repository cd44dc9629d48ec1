// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package xform drives the rewrite passes that turn an initial plan into the
// plan shipped to workers. Each pass is a function from plan to plan; the
// Optimizer runs the enabled passes in order and repeats the sequence until
// no pass changes the plan.
//
// Passes report errors by panicking. The Optimizer converts those panics back
// into errors at its boundary with plan.CatchOptimizerError, so passes need
// not check errors returned by node constructors whose arguments they have
// already validated.
package xform

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/sql/plan/cat"
	"github.com/cockroachdb/planir/pkg/util/log"
	"github.com/google/uuid"
)

// Pass is a plan rewrite. Apply must return its argument itself if it makes
// no change, so the optimizer can detect a fixpoint by identity.
type Pass interface {
	// Name identifies the pass in settings, logs and metrics.
	Name() string
	// Apply rewrites the plan rooted at root. It panics with an error if the
	// plan cannot be rewritten.
	Apply(ctx context.Context, pc *PassContext, root plan.Node) plan.Node
}

// PassContext holds the collaborators available to passes.
type PassContext struct {
	Catalog  cat.Catalog
	IDs      *plan.IDAllocator
	Settings *Settings
	Metrics  *Metrics
}

// DefaultPasses returns the standard pass sequence: predicate pushdown first,
// so that scans receiving predicates get a layout that enforces them, then
// layout selection for the remaining scans, then column pruning.
func DefaultPasses() []Pass {
	return []Pass{Pushdown{}, PickLayouts{}, PruneColumns{}}
}

// Optimizer runs a sequence of passes until the plan stops changing.
type Optimizer struct {
	pc     PassContext
	passes []Pass

	// maxIterWarning rate-limits the warning logged when the pass sequence
	// does not converge.
	maxIterWarning *log.EveryN
}

// NewOptimizer returns an Optimizer running passes (DefaultPasses if nil).
// ids must be the allocator that produced the ids of the plans the optimizer
// will be given.
func NewOptimizer(
	catalog cat.Catalog, ids *plan.IDAllocator, settings Settings, metrics *Metrics, passes []Pass,
) (*Optimizer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if passes == nil {
		passes = DefaultPasses()
	}
	known := make(map[string]struct{}, len(passes))
	for _, p := range passes {
		known[p.Name()] = struct{}{}
	}
	for _, name := range settings.DisabledPasses {
		if _, ok := known[name]; !ok {
			return nil, errors.Newf("unknown pass %q", name)
		}
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if ids == nil {
		ids = &plan.IDAllocator{}
	}
	return &Optimizer{
		pc: PassContext{
			Catalog:  catalog,
			IDs:      ids,
			Settings: &settings,
			Metrics:  metrics,
		},
		passes:         passes,
		maxIterWarning: log.Every(time.Minute),
	}, nil
}

// Optimize rewrites the plan rooted at root. The input plan is not modified;
// subtrees that no pass changes are shared with the result.
func (o *Optimizer) Optimize(ctx context.Context, root plan.Node) (_ plan.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = plan.CatchOptimizerError(r)
		}
	}()

	ctx = logtags.AddTag(ctx, "plan", uuid.New().String())
	log.VEventf(ctx, 1, "optimizing %d nodes", plan.Count(root))

	maxIter := o.pc.Settings.MaxIterations
	for iter := 1; ; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changed := false
		for _, p := range o.passes {
			if !o.pc.Settings.PassEnabled(p.Name()) {
				continue
			}
			passCtx := logtags.AddTag(ctx, "pass", p.Name())
			next := p.Apply(passCtx, &o.pc, root)
			o.pc.Metrics.PassRuns.WithLabelValues(p.Name()).Inc()
			if next != root {
				o.pc.Metrics.PassChanges.WithLabelValues(p.Name()).Inc()
				log.VEventf(passCtx, 2, "iteration %d changed the plan", iter)
				root, changed = next, true
			}
		}
		if !changed {
			o.pc.Metrics.Iterations.Observe(float64(iter))
			log.VEventf(ctx, 1, "reached fixpoint after %d iterations", iter)
			return root, nil
		}
		if iter >= maxIter {
			o.pc.Metrics.Iterations.Observe(float64(iter))
			if o.maxIterWarning.ShouldLog() {
				log.Warningf(ctx, "plan did not converge after %d iterations", iter)
			}
			return root, nil
		}
	}
}
