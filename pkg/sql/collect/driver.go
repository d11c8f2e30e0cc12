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

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/gravitysql/shardcollect/pkg/util/log"
)

// CollectorDriver orchestrates one shard scan: it wires column
// expressions to segments, enforces the limit, checks the kill flag and
// memory breaker per document, forwards rows downstream, and guarantees
// the shard context is released on every exit path. An instance performs
// exactly one scan; it is terminal after DoCollect returns.
type CollectorDriver struct {
	req         ShardScanRequest
	searcher    Searcher
	shardCtx    ShardContext
	sink        DownstreamSink
	kill        *KillHandle
	breaker     MemoryBreaker
	metrics     *CollectorMetrics
	sourceField string

	// mutable scan state, exclusively owned by the scan thread except
	// for the three flags documented on KillHandle/MemoryBreaker/sink.
	rowCount       int
	producedRows   bool
	failed         bool
	currentSegment Segment
	currentScorer  Scorer
	visitor        *FieldsVisitor
	visitorEnabled bool
	segments       []Segment // lazily populated, ordered path only
}

// NewCollectorDriver constructs a driver for one scan. sourceField names
// the stored field the fields visitor always reports as needed (the raw
// source document), independent of any expression's declared needs.
func NewCollectorDriver(
	req ShardScanRequest,
	searcher Searcher,
	shardCtx ShardContext,
	sink DownstreamSink,
	kill *KillHandle,
	breaker MemoryBreaker,
	metrics *CollectorMetrics,
	sourceField string,
) *CollectorDriver {
	return &CollectorDriver{
		req:         req,
		searcher:    searcher,
		shardCtx:    shardCtx,
		sink:        sink,
		kill:        kill,
		breaker:     breaker,
		metrics:     metrics,
		sourceField: sourceField,
	}
}

// RowCount returns the number of rows delivered so far.
func (d *CollectorDriver) RowCount() int { return d.rowCount }

// ProducedRows reports whether at least one row has been delivered.
func (d *CollectorDriver) ProducedRows() bool { return d.producedRows }

// Failed reports whether the scan took the error path, as opposed to
// finishing normally or via early stop.
func (d *CollectorDriver) Failed() bool { return d.failed }

// DoCollect runs the scan to completion, calling exactly one of
// sink.Finish or sink.Fail before returning.
func (d *CollectorDriver) DoCollect(ctx context.Context) error {
	scanID := uuid.NewString()
	ctx = log.WithLogTag(ctx, scanID)
	started := time.Now()

	d.visitor = NewFieldsVisitor(d.sourceField)
	cctx := &CollectorContext{ScanID: scanID, Visitor: d.visitor}
	for _, e := range d.req.Inputs {
		if err := e.StartCollect(ctx, cctx); err != nil {
			return d.finishOrFail(ctx, NewIndexError(err))
		}
	}
	d.visitorEnabled = d.visitor.Required()

	guard, err := acquireShard(ctx, d.shardCtx)
	if err != nil {
		return d.finishOrFail(ctx, err)
	}

	runErr := d.runGuarded(ctx, guard)
	d.metrics.recordDuration(time.Since(started).Seconds())
	return d.finishOrFail(ctx, runErr)
}

// runGuarded executes the scan body, guaranteeing guard.release runs
// exactly once even if the scan body panics. A panic is re-raised after
// release so the guard never swallows it.
func (d *CollectorDriver) runGuarded(ctx context.Context, guard *shardGuard) (err error) {
	defer func() {
		if r := recover(); r != nil {
			guard.release(ctx)
			panic(r)
		}
	}()
	defer guard.release(ctx)

	if len(d.req.OrderBy) == 0 {
		return d.searcher.Scan(ctx, d.req.Query, d)
	}
	return newOrderedPaginator(d).run(ctx)
}

// finishOrFail maps the terminal outcome of a scan to exactly one
// downstream call: nil (natural completion or EarlyStop, which a
// Searcher surfaces as a nil error per the ScanStop contract) maps to
// Finish; any other error maps to Fail.
func (d *CollectorDriver) finishOrFail(ctx context.Context, err error) error {
	if err == nil {
		d.sink.Finish(ctx)
		return nil
	}
	d.failed = true
	var breakerErr *BreakerTrippedError
	if errors.As(err, &breakerErr) {
		d.metrics.incBreakerTrip()
	}
	d.sink.Fail(ctx, err)
	return err
}

// collectDoc runs the full per-document contract shared by the
// unordered scan path and the ordered paginator's deliverPage: cancel
// and breaker checks, bookkeeping, stored-field fetch, expression
// rebind, row assembly, and delivery.
func (d *CollectorDriver) collectDoc(ctx context.Context, doc DocID) ScanSignal {
	if d.kill.Killed() {
		return signalErr(ErrCancelled)
	}
	if d.breaker != nil && d.breaker.Tripped() {
		return signalErr(NewBreakerTrippedError(d.breaker))
	}

	d.rowCount++
	d.producedRows = true

	if d.visitorEnabled {
		d.visitor.Reset()
		if d.currentSegment != nil {
			if err := d.currentSegment.Document(doc, d.visitor); err != nil {
				return signalErr(NewIndexError(err))
			}
		}
	}

	if d.currentScorer != nil {
		d.pushScore(d.currentScorer.Score(doc))
	}

	for _, e := range d.req.Inputs {
		if err := e.SetNextDoc(ctx, doc); err != nil {
			return signalErr(NewIndexError(err))
		}
	}

	row := Row{exprs: d.req.Inputs}
	wantMore, err := d.sink.DeliverRow(ctx, row)
	if err != nil {
		return signalErr(NewDownstreamError(err))
	}
	d.metrics.incRows(1)

	if !wantMore || (d.req.Limit > 0 && d.rowCount == d.req.Limit) {
		return signalStop()
	}
	return signalContinue()
}

// locateSegment binary-searches d.segments (populated by the ordered
// paginator in ascending BaseDocID order) for the segment owning global
// doc id doc, returning it together with doc's offset local to that
// segment.
func (d *CollectorDriver) locateSegment(doc DocID) (Segment, DocID) {
	i := sort.Search(len(d.segments), func(i int) bool {
		return d.segments[i].BaseDocID() > doc
	})
	seg := d.segments[i-1]
	return seg, doc - seg.BaseDocID()
}

func (d *CollectorDriver) pushScore(score float32) {
	for _, e := range d.req.Inputs {
		if sr, ok := e.(ScoreReceiver); ok {
			sr.SetScore(score)
		}
	}
}

func (d *CollectorDriver) pushSortFields(fields []interface{}) {
	for _, e := range d.req.Inputs {
		if sr, ok := e.(SortFieldsReceiver); ok {
			sr.SetSortFields(fields)
		}
	}
}

// --- ScanSink implementation (unordered path) ---

// SetSegment is part of the ScanSink interface.
func (d *CollectorDriver) SetSegment(ctx context.Context, seg Segment) ScanSignal {
	d.currentSegment = seg
	for _, e := range d.req.Inputs {
		if err := e.SetSegment(ctx, seg); err != nil {
			return signalErr(NewIndexError(err))
		}
	}
	return signalContinue()
}

// SetScorer is part of the ScanSink interface.
func (d *CollectorDriver) SetScorer(ctx context.Context, scorer Scorer) ScanSignal {
	d.currentScorer = scorer
	return signalContinue()
}

// HandleDoc is part of the ScanSink interface.
func (d *CollectorDriver) HandleDoc(ctx context.Context, doc DocID) ScanSignal {
	return d.collectDoc(ctx, doc)
}
