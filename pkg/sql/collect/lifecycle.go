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

	"github.com/opentracing/opentracing-go"
)

// ShardContext is the scan's exclusive handle on the shard's search
// context, acquired exactly once and released exactly once per scan.
type ShardContext interface {
	// Acquire takes exclusive ownership of the shard's search context.
	Acquire(ctx context.Context) error
	// EnterMainQueryStage marks the searcher as entering its main-query
	// stage, called once Acquire succeeds.
	EnterMainQueryStage(ctx context.Context) error
	// FinishMainQueryStage ends the main-query stage, flushing any
	// per-stage buffers. Always called before Release.
	FinishMainQueryStage(ctx context.Context)
	// Release gives up exclusive ownership.
	Release(ctx context.Context)
	// Close releases any resources the context itself holds.
	Close(ctx context.Context)
	// JobSearchContextID identifies this shard's search context for
	// diagnostics. Breaker-trip messages do not use it; they name the
	// MemoryBreaker's ContextID.
	JobSearchContextID() string
}

// shardGuard performs the scoped acquisition described in spec.md §4.6:
// finish the searcher's stage, then release, then close, in that order,
// exactly once, on every exit path including a panic unwinding through
// it.
type shardGuard struct {
	sc       ShardContext
	span     opentracing.Span
	released bool
}

// acquireShard acquires sc and starts its main-query stage, returning a
// guard whose release() must run exactly once regardless of how the
// scan terminates.
func acquireShard(ctx context.Context, sc ShardContext) (*shardGuard, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "shard-collect")
	if err := sc.Acquire(ctx); err != nil {
		span.Finish()
		return nil, NewIndexError(err)
	}
	if err := sc.EnterMainQueryStage(ctx); err != nil {
		sc.Release(ctx)
		sc.Close(ctx)
		span.Finish()
		return nil, NewIndexError(err)
	}
	return &shardGuard{sc: sc, span: span}, nil
}

// release runs the two-step teardown exactly once. Safe to call more
// than once (e.g. once from a deferred panic-recovery and once from the
// normal-path defer); subsequent calls are no-ops.
func (g *shardGuard) release(ctx context.Context) {
	if g.released {
		return
	}
	g.released = true
	g.sc.FinishMainQueryStage(ctx)
	g.sc.Release(ctx)
	g.sc.Close(ctx)
	g.span.Finish()
}
