// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package mon tracks memory allocated on behalf of a query against a
// configured limit and trips a breaker once that limit is crossed.
package mon

import "github.com/gravitysql/shardcollect/pkg/util/syncutil"

// MemoryMonitor accounts allocations made against a single limit,
// identified by contextID for diagnostics. A zero limit means unlimited.
type MemoryMonitor struct {
	contextID string
	limit     int64

	mu struct {
		syncutil.Mutex
		allocated int64
	}
}

// NewMemoryMonitor returns a monitor tracking allocations against limit
// bytes, identified by contextID in trip messages.
func NewMemoryMonitor(contextID string, limit int64) *MemoryMonitor {
	return &MemoryMonitor{contextID: contextID, limit: limit}
}

// ContextID identifies the query/job this monitor accounts for.
func (m *MemoryMonitor) ContextID() string { return m.contextID }

// Limit returns the configured byte limit, or 0 if unlimited.
func (m *MemoryMonitor) Limit() int64 { return m.limit }

// Tripped reports whether cumulative allocation has crossed the limit.
func (m *MemoryMonitor) Tripped() bool {
	if m.limit <= 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mu.allocated > m.limit
}

// Allocated returns the current cumulative allocation.
func (m *MemoryMonitor) Allocated() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mu.allocated
}

// MakeBoundAccount returns a new account that books its growth against
// this monitor.
func (m *MemoryMonitor) MakeBoundAccount() BoundAccount {
	return BoundAccount{mon: m}
}

// BoundAccount tracks a single caller's share of a MemoryMonitor's
// allocation, released in one step via Close.
type BoundAccount struct {
	mon       *MemoryMonitor
	allocated int64
}

// Grow books an additional n bytes against the account's monitor.
func (b *BoundAccount) Grow(n int64) {
	if b.mon == nil {
		return
	}
	b.mon.mu.Lock()
	b.mon.mu.allocated += n
	b.mon.mu.Unlock()
	b.allocated += n
}

// Close releases everything this account has grown by back to the
// monitor. Idempotent.
func (b *BoundAccount) Close() {
	if b.mon == nil || b.allocated == 0 {
		return
	}
	b.mon.mu.Lock()
	b.mon.mu.allocated -= b.allocated
	b.mon.mu.Unlock()
	b.allocated = 0
}
