// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

/*
Package metric provides counters, gauges and histograms backed by a
prometheus registry. Metrics are held in memory only; the package does not
persist them.

Adding a new metric

Call Counter(), Gauge() or Histogram() on a Registry to register the
metric under a name and a help text. For example:

	reg := metric.NewRegistry()
	selectCount := reg.Counter("sql.select.count", "Number of SELECT statements")

This registers the metric "sql.select.count" in reg. The returned counter
is updated as follows:

	selectCount.Inc(1)

A name can be registered only once per Registry; registering it again
panics.

Reading metrics

Gatherer() returns the underlying prometheus.Gatherer, from which the
current values of every registered metric can be collected. A Registry
cannot be added to another Registry.
*/
package metric
