// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry collects the metrics emitted by a single collector instance in
// its own prometheus registry, exposed for scraping through Gatherer. A
// Registry cannot be mounted into another Registry.
type Registry struct {
	reg *prometheus.Registry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{reg: prometheus.NewRegistry()}
}

// Counter registers a new monotonic counter under name. It does not return
// an existing counter: registering the same name twice panics.
func (r *Registry) Counter(name, help string) *Counter {
	c := &Counter{c: prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})}
	r.reg.MustRegister(c.c)
	return c
}

// Gauge registers a new gauge under name. It does not return an existing
// gauge: registering the same name twice panics.
func (r *Registry) Gauge(name, help string) *Gauge {
	g := &Gauge{g: prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})}
	r.reg.MustRegister(g.g)
	return g
}

// Histogram registers a histogram under name with the given bucket bounds.
func (r *Registry) Histogram(name, help string, buckets []float64) *Histogram {
	h := &Histogram{h: prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: buckets,
	})}
	r.reg.MustRegister(h.h)
	return h
}

// Gatherer exposes the underlying prometheus registry for scraping.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Counter wraps a prometheus counter with the engine's Inc(n) calling
// convention.
type Counter struct {
	c prometheus.Counter
}

// Inc increments the counter by n.
func (c *Counter) Inc(n int64) {
	c.c.Add(float64(n))
}

// Gauge wraps a prometheus gauge.
type Gauge struct {
	g prometheus.Gauge
}

// Update sets the gauge to v.
func (g *Gauge) Update(v int64) {
	g.g.Set(float64(v))
}

// Histogram wraps a prometheus histogram.
type Histogram struct {
	h prometheus.Histogram
}

// RecordValue adds an observation to the histogram.
func (h *Histogram) RecordValue(v float64) {
	h.h.Observe(v)
}
