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

// orderedPaginator implements stable pagination over a sorted index:
// a top-K page, then repeated search-after continuation, each page
// guarded by an exclusion filter that makes the continuation idempotent
// even when the underlying sort does not strictly order ties.
type orderedPaginator struct {
	d *CollectorDriver
}

func newOrderedPaginator(d *CollectorDriver) *orderedPaginator {
	return &orderedPaginator{d: d}
}

// run drives the full paginated scan, returning nil on natural
// completion or a graceful stop, and a non-nil error otherwise.
func (p *orderedPaginator) run(ctx context.Context) error {
	d := p.d
	req := d.req

	segs, err := d.searcher.SegmentLeaves(ctx)
	if err != nil {
		return NewIndexError(err)
	}
	d.segments = segs

	batch := req.pageSize()
	if req.Limit > 0 && req.Limit < batch {
		batch = req.Limit
	}

	page, err := d.searcher.TopK(ctx, req.Query, batch, req.OrderBy)
	if err != nil {
		return NewIndexError(err)
	}
	d.metrics.incPages()

	for {
		signal := p.deliverPage(ctx, page)
		switch signal.Kind {
		case ScanStop:
			return nil
		case ScanErr:
			return signal.Err
		}

		limitReached := req.Limit > 0 && d.rowCount >= req.Limit
		pageWasFull := len(page.Docs) == batch
		if limitReached || !pageWasFull || len(page.Docs) == 0 {
			return nil
		}

		if d.kill.Killed() {
			return ErrCancelled
		}

		last := page.Docs[len(page.Docs)-1]
		q := req.Query
		if excl := p.alreadyCollectedFilter(last); excl != nil {
			q = req.Builder.And(req.Query, req.Builder.Not(excl))
		}

		batch = req.pageSize()
		if req.Limit > 0 {
			if remaining := req.Limit - d.rowCount; remaining < batch {
				batch = remaining
			}
		}

		cursor := SortCursor{Fields: last.Fields, Doc: last.Doc}
		page, err = d.searcher.SearchAfter(ctx, cursor, q, batch, req.OrderBy)
		if err != nil {
			return NewIndexError(err)
		}
		d.metrics.incPages()
	}
}

// deliverPage streams one sorted page through the shared per-document
// contract, rebinding the column expressions to each doc's owning
// segment, injecting its sort-field vector and score ahead of
// SetNextDoc, in that order — matching the order a segment transition
// is observed during a single ordered pass over the index.
func (p *orderedPaginator) deliverPage(ctx context.Context, page Page) ScanSignal {
	d := p.d
	for _, sd := range page.Docs {
		seg, localDoc := d.locateSegment(sd.Doc)
		if seg != d.currentSegment {
			if signal := d.SetSegment(ctx, seg); signal.Kind != ScanContinue {
				return signal
			}
		}

		d.pushSortFields(sd.Fields)
		if sd.HasScore {
			d.pushScore(sd.Score)
		}

		signal := d.collectDoc(ctx, localDoc)
		if signal.Kind != ScanContinue {
			return signal
		}
	}
	return signalContinue()
}

// alreadyCollectedFilter builds the tie-breaking exclusion clause for
// the page that ended at lastDoc: a conjunction, over every order-by
// column backed by a direct column reference, of "sorted strictly
// before lastDoc's value on that column". The ranges are open, so a
// document equal to lastDoc's value on a column does not match that
// column's clause. ANDing the negation into the next search-after query
// drops every document that sorts strictly before lastDoc on all of
// those columns; documents that tie with lastDoc are not excluded by
// this filter. Returns nil if no column qualifies.
func (p *orderedPaginator) alreadyCollectedFilter(lastDoc ScoredDoc) Query {
	d := p.d
	builder := d.req.Builder
	var clauses []Query
	for i, spec := range d.req.OrderBy {
		if spec.Column == "" {
			continue
		}
		v := lastDoc.Fields[i]
		if v == nil && spec.NullsFirst {
			continue
		}
		if spec.Reverse {
			clauses = append(clauses, builder.RangeQuery(spec.Column, v, nil, false, false))
		} else {
			clauses = append(clauses, builder.RangeQuery(spec.Column, nil, v, false, false))
		}
	}
	if len(clauses) == 0 {
		return nil
	}
	return builder.And(clauses[0], clauses[1:]...)
}
