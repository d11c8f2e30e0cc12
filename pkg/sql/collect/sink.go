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
	"sync/atomic"
)

// DownstreamSink is the opaque consumer of rows produced by the
// collector. Exactly one of Finish or Fail is called per scan.
type DownstreamSink interface {
	// DeliverRow hands one row to the consumer synchronously from the
	// collector's point of view, returning whether more rows are
	// wanted.
	DeliverRow(ctx context.Context, row Row) (wantMore bool, err error)
	// Finish is the terminal call for a successful or early-stopped
	// scan.
	Finish(ctx context.Context)
	// Fail is the terminal call for a scan that took the error path.
	Fail(ctx context.Context, err error)
}

// MemoryBreaker reports whether a memory-accounting context has tripped
// its limit. *mon.MemoryMonitor satisfies this interface.
type MemoryBreaker interface {
	Tripped() bool
	ContextID() string
	Limit() int64
}

// KillHandle is a thread-safe, idempotent cancellation toggle: Kill sets
// it at most once from false to true, and Killed is checked once per
// document by the scan thread.
type KillHandle struct {
	killed atomic.Bool
}

// Kill requests cancellation. Safe to call concurrently and more than
// once; only the first call has any effect.
func (k *KillHandle) Kill() {
	k.killed.Store(true)
}

// Killed reports whether Kill has been called.
func (k *KillHandle) Killed() bool {
	return k.killed.Load()
}
