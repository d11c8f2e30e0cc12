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

// QueryBuilder constructs the query fragments the ordered paginator
// needs to make search_after continuation idempotent under equal sort
// keys. A concrete implementation belongs to the index/query layer and
// is out of scope here; the collector only calls these three methods.
type QueryBuilder interface {
	// RangeQuery builds a range predicate over column. A nil lo means
	// unbounded below; a nil hi means unbounded above. Both bounds are
	// always open (exclusive) for the paginator's use.
	RangeQuery(column string, lo, hi interface{}, loInclusive, hiInclusive bool) Query
	// And conjuncts base with the given additional clauses.
	And(base Query, clauses ...Query) Query
	// Not negates q.
	Not(q Query) Query
}
