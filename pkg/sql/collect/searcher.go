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

// Query is an opaque index query object. The collector never inspects
// it; it only ever passes it to a Searcher or a QueryBuilder.
type Query interface{}

// Scorer computes a relevance score for a document within the segment
// that was current when SetScorer delivered it.
type Scorer interface {
	Score(doc DocID) float32
}

// Segment is an immutable sub-unit of the index; doc ids handed to
// ColumnExpression.SetNextDoc and to Segment.Document are local to it.
type Segment interface {
	// BaseDocID returns the segment's first global doc id. The ordered
	// paginator binary-searches over these to locate the segment owning
	// a page's global doc id.
	BaseDocID() DocID
	// Document fetches the stored fields needed by visitor for doc,
	// calling visitor.SetValue for every field visitor.NeedsField
	// reports YES for.
	Document(doc DocID, visitor *FieldsVisitor) error
}

// ScoredDoc is one result row from TopK or SearchAfter.
type ScoredDoc struct {
	// Doc is the document's global id (not segment-local).
	Doc DocID
	// Fields holds the doc's value for each OrderBySpec column, in
	// order, as used by the already-collected exclusion filter.
	Fields []interface{}
	// Score is populated when the scan requested a score expression.
	Score    float32
	HasScore bool
}

// Page is a batch of globally sorted results from TopK or SearchAfter.
type Page struct {
	Docs []ScoredDoc
}

// SortCursor seeds the next SearchAfter call: the sort-field values and
// doc id of the last document in the previous page.
type SortCursor struct {
	Fields []interface{}
	Doc    DocID
}

// ScanKind is the three-valued outcome of a per-document scan callback,
// replacing the source's use of exceptions (EarlyStop, Cancelled) for
// control flow: a Searcher must treat Stop as a graceful request to
// terminate the scan (return nil, not an error) and must propagate Error
// as the error returned from Scan.
type ScanKind int

const (
	ScanContinue ScanKind = iota
	ScanStop
	ScanErr
)

// ScanSignal is returned by every ScanSink method.
type ScanSignal struct {
	Kind ScanKind
	Err  error
}

func signalContinue() ScanSignal { return ScanSignal{Kind: ScanContinue} }
func signalStop() ScanSignal     { return ScanSignal{Kind: ScanStop} }
func signalErr(err error) ScanSignal {
	return ScanSignal{Kind: ScanErr, Err: err}
}

// ScanSink receives the unordered-scan callbacks a Searcher drives.
type ScanSink interface {
	// SetSegment is called before any doc from a new segment is
	// delivered.
	SetSegment(ctx context.Context, seg Segment) ScanSignal
	// SetScorer is called before any doc from a new segment is
	// delivered whose scoring needs a live Scorer.
	SetScorer(ctx context.Context, scorer Scorer) ScanSignal
	// HandleDoc delivers one matching document, local to the
	// most-recently-set segment.
	HandleDoc(ctx context.Context, doc DocID) ScanSignal
}

// Searcher abstracts the inverted-index engine. Document-id enumeration,
// scoring, and sort-field extraction belong to the engine; the collector
// only calls these four entry points.
type Searcher interface {
	// Scan enumerates every doc matching q in an unspecified order,
	// invoking sink's callbacks. The collector advertises that it
	// accepts out-of-order delivery for this path.
	Scan(ctx context.Context, q Query, sink ScanSink) error
	// TopK returns up to k documents globally sorted by sort.
	TopK(ctx context.Context, q Query, k int, sort []OrderBySpec) (Page, error)
	// SearchAfter returns up to k documents strictly after cursor in
	// sort order.
	SearchAfter(ctx context.Context, cursor SortCursor, q Query, k int, sort []OrderBySpec) (Page, error)
	// SegmentLeaves enumerates the shard's segments in ascending
	// BaseDocID order, used by the ordered paginator to locate the
	// segment owning a page's global doc id.
	SegmentLeaves(ctx context.Context) ([]Segment, error)
}
