// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package collect implements the per-shard document collector: it
// streams documents matching a query through a set of column
// expressions to a downstream row consumer, optionally sorted and
// limited, while honoring cancellation and memory budgets.
package collect

// DefaultPageSize is used when a ShardScanRequest leaves PageSize unset.
const DefaultPageSize = 1000

// DocID identifies a document within a segment's local numbering. In the
// unordered scan path it is also the id the searcher hands the driver
// directly; in the ordered path it is the intra-segment offset computed
// by locating the page's global doc id within a segment.
type DocID int64

// OrderBySpec is one column of a multi-column sort order.
type OrderBySpec struct {
	// Symbol names the sort key as understood by the searcher (passed
	// through opaquely to TopK/SearchAfter).
	Symbol string
	// Column is the direct column reference backing this sort key, used
	// to build the already-collected exclusion filter. Empty if this
	// sort key is not a direct column reference (e.g. a computed
	// expression) — the exclusion filter omits such columns entirely,
	// matching the original's `order instanceof Reference` check.
	Column string
	Reverse    bool
	NullsFirst bool
}

// ShardScanRequest is immutable for the lifetime of a scan.
type ShardScanRequest struct {
	// Query is an opaque index query object, round-tripped verbatim to
	// the Searcher and, for ordered scans, to QueryBuilder.And.
	Query Query
	// Inputs defines the row schema: one ColumnExpression per output
	// column, bound once at scan start and rebound per segment/doc.
	Inputs []ColumnExpression
	// OrderBy is nil/empty for an unordered scan.
	OrderBy []OrderBySpec
	// Limit is 0 when unset.
	Limit int
	// PageSize is the ordered-scan page size; 0 means DefaultPageSize.
	PageSize int
	// Builder constructs the range queries used by the ordered
	// paginator's exclusion filter. Required only when OrderBy is set.
	Builder QueryBuilder
}

func (r *ShardScanRequest) pageSize() int {
	if r.PageSize > 0 {
		return r.PageSize
	}
	return DefaultPageSize
}

// Row is a lazy view over the scan's column expressions: a value is
// only computed from the currently-positioned expression when asked for.
type Row struct {
	exprs []ColumnExpression
}

// Len returns the number of columns in the row.
func (r Row) Len() int { return len(r.exprs) }

// Value returns the current value of column i.
func (r Row) Value(i int) (interface{}, error) {
	return r.exprs[i].Value()
}
