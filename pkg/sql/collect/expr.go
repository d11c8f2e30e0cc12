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

import "context"

// CollectorContext binds a ColumnExpression to the scan it runs under.
// It is constructed once per scan and handed to every expression's
// StartCollect.
type CollectorContext struct {
	// ScanID identifies this scan for logging/tracing.
	ScanID string
	// Visitor is the scan-wide fields visitor; an expression that needs
	// a stored field calls Visitor.Require during StartCollect.
	Visitor *FieldsVisitor
}

// ColumnExpression binds a query-plan column reference to a mechanism
// that, given a segment and a doc id, yields a typed value. Score and
// order-by variants implement the same interface plus one of the
// optional capability interfaces below (capability polymorphism, not
// inheritance: the driver upgrades via a type assertion rather than
// dispatching on an embedded base type).
type ColumnExpression interface {
	// StartCollect binds the expression to the scan-global context. An
	// expression that needs stored fields calls cctx.Visitor.Require
	// here.
	StartCollect(ctx context.Context, cctx *CollectorContext) error
	// SetSegment rebinds the expression to a new segment. Called before
	// any SetNextDoc from that segment.
	SetSegment(ctx context.Context, seg Segment) error
	// SetNextDoc positions the expression at a document within the
	// current segment.
	SetNextDoc(ctx context.Context, doc DocID) error
	// Value produces the currently-positioned typed value.
	Value() (interface{}, error)
}

// ScoreReceiver is the optional capability a score expression
// implements. The driver pushes the current document's score before
// SetNextDoc whenever a score is available (either from a live Scorer
// in the unordered path, or from a page's ScoredDoc in the ordered
// path).
type ScoreReceiver interface {
	SetScore(score float32)
}

// SortFieldsReceiver is the optional capability an order-by expression
// implements. While streaming in sort order, the driver injects the
// page's sort-field vector before SetNextDoc; Value() then reads from
// that injected vector instead of consulting the index.
type SortFieldsReceiver interface {
	SetSortFields(fields []interface{})
}
