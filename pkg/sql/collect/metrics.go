// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package collect

import "github.com/gravitysql/shardcollect/pkg/util/metric"

// CollectorMetrics holds the counters a CollectorDriver updates as it
// runs. Nil-safe: a driver constructed without metrics simply skips
// recording.
type CollectorMetrics struct {
	RowsDelivered  *metric.Counter
	PagesFetched   *metric.Counter
	BreakerTrips   *metric.Counter
	ScanDuration   *metric.Histogram
}

// NewCollectorMetrics registers the collector's metrics into reg.
func NewCollectorMetrics(reg *metric.Registry) *CollectorMetrics {
	return &CollectorMetrics{
		RowsDelivered: reg.Counter(
			"sql.collect.rows_delivered", "Rows delivered downstream by the shard collector"),
		PagesFetched: reg.Counter(
			"sql.collect.pages_fetched", "Sorted pages fetched from the searcher by the ordered paginator"),
		BreakerTrips: reg.Counter(
			"sql.collect.breaker_trips", "Scans terminated because a memory accounting context tripped"),
		ScanDuration: reg.Histogram(
			"sql.collect.scan_duration_seconds", "Wall time of a single shard scan",
			[]float64{.001, .005, .01, .05, .1, .5, 1, 5, 30}),
	}
}

func (m *CollectorMetrics) incRows(n int64) {
	if m != nil {
		m.RowsDelivered.Inc(n)
	}
}

func (m *CollectorMetrics) incPages() {
	if m != nil {
		m.PagesFetched.Inc(1)
	}
}

func (m *CollectorMetrics) incBreakerTrip() {
	if m != nil {
		m.BreakerTrips.Inc(1)
	}
}

func (m *CollectorMetrics) recordDuration(seconds float64) {
	if m != nil {
		m.ScanDuration.RecordValue(seconds)
	}
}
