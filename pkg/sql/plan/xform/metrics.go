// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics count the work done by an Optimizer. A single Metrics may be shared
// by any number of optimizers.
type Metrics struct {
	// PassRuns counts pass applications, by pass.
	PassRuns *prometheus.CounterVec
	// PassChanges counts pass applications that changed the plan, by pass.
	PassChanges *prometheus.CounterVec
	// ScanRefinements counts scans rebuilt with a refined constraint.
	ScanRefinements prometheus.Counter
	// Iterations observes the number of pass sequences run per optimization.
	Iterations prometheus.Histogram
}

// NewMetrics allocates Metrics. They must be registered with Register to be
// exported.
func NewMetrics() *Metrics {
	return &Metrics{
		PassRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planir",
			Subsystem: "optimizer",
			Name:      "pass_runs_total",
			Help:      "Number of optimizer pass applications.",
		}, []string{"pass"}),
		PassChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planir",
			Subsystem: "optimizer",
			Name:      "pass_changes_total",
			Help:      "Number of optimizer pass applications that changed the plan.",
		}, []string{"pass"}),
		ScanRefinements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planir",
			Subsystem: "optimizer",
			Name:      "scan_refinements_total",
			Help:      "Number of scans rebuilt with a refined constraint.",
		}),
		Iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planir",
			Subsystem: "optimizer",
			Name:      "iterations",
			Help:      "Number of pass sequences run per optimization.",
			Buckets:   prometheus.LinearBuckets(1, 1, DefaultMaxIterations),
		}),
	}
}

// Register registers every metric with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.PassRuns, m.PassChanges, m.ScanRefinements, m.Iterations} {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "registering optimizer metrics")
		}
	}
	return nil
}
