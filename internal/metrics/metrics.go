// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package metrics records run metrics in a Prometheus registry and
// writes them as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the run metrics.
type Metrics struct {
	registry *prometheus.Registry

	FilesTotal        *prometheus.CounterVec
	MemberDeltasTotal *prometheus.CounterVec
	MergeDuration     *prometheus.HistogramVec
	RunDuration       prometheus.Gauge
}

// New creates the metrics and registers them with registry. A nil
// registry gets a fresh one.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: registry,
		FilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cqrsgen_files_total",
				Help: "Artifacts processed, by outcome",
			},
			[]string{"status"},
		),
		MemberDeltasTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cqrsgen_member_deltas_total",
				Help: "Member changes applied by merges, by kind",
			},
			[]string{"kind"},
		),
		MergeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cqrsgen_merge_duration_seconds",
				Help:    "Time to render and merge one artifact",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		RunDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cqrsgen_run_duration_seconds",
				Help: "Wall time of the last run",
			},
		),
	}
	registry.MustRegister(m.FilesTotal, m.MemberDeltasTotal, m.MergeDuration, m.RunDuration)
	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordFile counts one artifact with the given outcome.
func (m *Metrics) RecordFile(status string) {
	m.FilesTotal.WithLabelValues(status).Inc()
}

// RecordDelta counts n member changes of kind.
func (m *Metrics) RecordDelta(kind string, n int) {
	if n > 0 {
		m.MemberDeltasTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordMerge observes the processing time of one artifact kind.
func (m *Metrics) RecordMerge(kind string, d time.Duration) {
	m.MergeDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordRun sets the wall time of the run.
func (m *Metrics) RecordRun(d time.Duration) {
	m.RunDuration.Set(d.Seconds())
}

// WriteFile writes every registered metric to path in the text
// exposition format. The file is replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
