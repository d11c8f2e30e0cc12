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
	"fmt"
)

// fakeSegment is an in-memory Segment backing a contiguous doc id range
// starting at base, with per-doc stored fields.
type fakeSegment struct {
	base   DocID
	fields map[DocID]map[string]interface{}
}

func (s *fakeSegment) BaseDocID() DocID { return s.base }

func (s *fakeSegment) Document(doc DocID, visitor *FieldsVisitor) error {
	for name, val := range s.fields[doc] {
		if visitor.NeedsField(name) {
			visitor.SetValue(name, val)
		}
	}
	return nil
}

// fakeScorer returns a fixed score per doc id, defaulting to 0.
type fakeScorer struct {
	scores map[DocID]float32
}

func (s *fakeScorer) Score(doc DocID) float32 { return s.scores[doc] }

// fakePlainExpr is a ColumnExpression reading a stored field by name.
type fakePlainExpr struct {
	field string
	seg   Segment
	cctx  *CollectorContext
	doc   DocID
}

func (e *fakePlainExpr) StartCollect(ctx context.Context, cctx *CollectorContext) error {
	e.cctx = cctx
	if e.field != "" {
		cctx.Visitor.Require(e.field)
	}
	return nil
}

func (e *fakePlainExpr) SetSegment(ctx context.Context, seg Segment) error {
	e.seg = seg
	return nil
}

func (e *fakePlainExpr) SetNextDoc(ctx context.Context, doc DocID) error {
	e.doc = doc
	return nil
}

func (e *fakePlainExpr) Value() (interface{}, error) {
	if e.field == "" {
		return fmt.Sprintf("doc-%d", e.doc), nil
	}
	val, _ := e.cctx.Visitor.Value(e.field)
	return val, nil
}

// fakeScoreExpr is a ColumnExpression implementing ScoreReceiver.
type fakeScoreExpr struct {
	fakePlainExpr
	score float32
}

func (e *fakeScoreExpr) SetScore(score float32) { e.score = score }
func (e *fakeScoreExpr) Value() (interface{}, error) { return e.score, nil }

// fakeSortExpr is a ColumnExpression implementing SortFieldsReceiver.
type fakeSortExpr struct {
	fakePlainExpr
	fields []interface{}
}

func (e *fakeSortExpr) SetSortFields(fields []interface{}) { e.fields = fields }
func (e *fakeSortExpr) Value() (interface{}, error) {
	if len(e.fields) == 0 {
		return nil, nil
	}
	return e.fields[0], nil
}

// failingExpr returns an error from the named hook, for error-path tests.
type failingExpr struct {
	fakePlainExpr
	failOn string
	err    error
}

func (e *failingExpr) StartCollect(ctx context.Context, cctx *CollectorContext) error {
	if e.failOn == "start" {
		return e.err
	}
	return e.fakePlainExpr.StartCollect(ctx, cctx)
}

func (e *failingExpr) SetNextDoc(ctx context.Context, doc DocID) error {
	if e.failOn == "doc" {
		return e.err
	}
	return e.fakePlainExpr.SetNextDoc(ctx, doc)
}

// fakeSink records delivered rows and the terminal call it received.
type fakeSink struct {
	rows       [][]interface{}
	finished   bool
	failed     bool
	failErr    error
	maxWant    int // stop returning wantMore=true once len(rows) reaches this; 0 means unlimited
	deliverErr error
}

func (s *fakeSink) DeliverRow(ctx context.Context, row Row) (bool, error) {
	if s.deliverErr != nil {
		return false, s.deliverErr
	}
	vals := make([]interface{}, row.Len())
	for i := range vals {
		vals[i], _ = row.Value(i)
	}
	s.rows = append(s.rows, vals)
	if s.maxWant > 0 && len(s.rows) >= s.maxWant {
		return false, nil
	}
	return true, nil
}

func (s *fakeSink) Finish(ctx context.Context) { s.finished = true }

func (s *fakeSink) Fail(ctx context.Context, err error) {
	s.failed = true
	s.failErr = err
}

// fakeShardContext records the order lifecycle calls arrive in.
type fakeShardContext struct {
	calls     []string
	acquireErr error
	enterErr   error
}

func (c *fakeShardContext) Acquire(ctx context.Context) error {
	c.calls = append(c.calls, "acquire")
	return c.acquireErr
}

func (c *fakeShardContext) EnterMainQueryStage(ctx context.Context) error {
	c.calls = append(c.calls, "enter")
	return c.enterErr
}

func (c *fakeShardContext) FinishMainQueryStage(ctx context.Context) {
	c.calls = append(c.calls, "finish")
}

func (c *fakeShardContext) Release(ctx context.Context) {
	c.calls = append(c.calls, "release")
}

func (c *fakeShardContext) Close(ctx context.Context) {
	c.calls = append(c.calls, "close")
}

func (c *fakeShardContext) JobSearchContextID() string { return "test-shard" }

// fakeBreaker is a MemoryBreaker whose trip state is toggled directly by
// a test.
type fakeBreaker struct {
	tripped bool
}

func (b *fakeBreaker) Tripped() bool      { return b.tripped }
func (b *fakeBreaker) ContextID() string  { return "test-account" }
func (b *fakeBreaker) Limit() int64       { return 1024 }

// fakeUnorderedSearcher drives a ScanSink over one segment's worth of
// docs in a fixed order, honoring Stop/Err signals.
type fakeUnorderedSearcher struct {
	seg    Segment
	scorer Scorer
	docs   []DocID
	segs   []Segment
}

func (s *fakeUnorderedSearcher) Scan(ctx context.Context, q Query, sink ScanSink) error {
	if signal := sink.SetSegment(ctx, s.seg); signal.Kind == ScanErr {
		return signal.Err
	}
	if s.scorer != nil {
		if signal := sink.SetScorer(ctx, s.scorer); signal.Kind == ScanErr {
			return signal.Err
		}
	}
	for _, doc := range s.docs {
		signal := sink.HandleDoc(ctx, doc)
		switch signal.Kind {
		case ScanStop:
			return nil
		case ScanErr:
			return signal.Err
		}
	}
	return nil
}

func (s *fakeUnorderedSearcher) TopK(ctx context.Context, q Query, k int, sort []OrderBySpec) (Page, error) {
	panic("not used in unordered tests")
}

func (s *fakeUnorderedSearcher) SearchAfter(ctx context.Context, cursor SortCursor, q Query, k int, sort []OrderBySpec) (Page, error) {
	panic("not used in unordered tests")
}

func (s *fakeUnorderedSearcher) SegmentLeaves(ctx context.Context) ([]Segment, error) {
	return s.segs, nil
}

// fakePagedSearcher replays a fixed queue of pages: the first call
// (always TopK) pops the first page, each SearchAfter call pops the
// next. Records the query and k used for each SearchAfter call.
type fakePagedSearcher struct {
	segs        []Segment
	pages       []Page
	next        int
	searchCalls []struct {
		k int
		q Query
	}
}

func (s *fakePagedSearcher) Scan(ctx context.Context, q Query, sink ScanSink) error {
	panic("not used in ordered tests")
}

func (s *fakePagedSearcher) TopK(ctx context.Context, q Query, k int, sort []OrderBySpec) (Page, error) {
	return s.pop(), nil
}

func (s *fakePagedSearcher) SearchAfter(ctx context.Context, cursor SortCursor, q Query, k int, sort []OrderBySpec) (Page, error) {
	s.searchCalls = append(s.searchCalls, struct {
		k int
		q Query
	}{k, q})
	return s.pop(), nil
}

func (s *fakePagedSearcher) pop() Page {
	if s.next >= len(s.pages) {
		return Page{}
	}
	p := s.pages[s.next]
	s.next++
	return p
}

func (s *fakePagedSearcher) SegmentLeaves(ctx context.Context) ([]Segment, error) {
	return s.segs, nil
}

// fakeBuilder builds opaque clause descriptions; the fake searchers never
// interpret query contents, so correctness here is about call shape, not
// predicate semantics.
type fakeBuilder struct{}

type fakeClause struct {
	kind string
	args []interface{}
}

func (fakeBuilder) RangeQuery(column string, lo, hi interface{}, loInclusive, hiInclusive bool) Query {
	return fakeClause{kind: "range", args: []interface{}{column, lo, hi, loInclusive, hiInclusive}}
}

func (fakeBuilder) And(base Query, clauses ...Query) Query {
	args := []interface{}{base}
	for _, c := range clauses {
		args = append(args, c)
	}
	return fakeClause{kind: "and", args: args}
}

func (fakeBuilder) Not(q Query) Query {
	return fakeClause{kind: "not", args: []interface{}{q}}
}
