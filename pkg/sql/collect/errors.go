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
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrCancelled is returned when an external kill() is observed mid-scan.
// finish() is never called once this error surfaces.
var ErrCancelled = errors.New("collect: scan cancelled")

// BreakerTrippedError reports that a memory-accounting context tripped
// its limit mid-scan. The message names the context and its limit,
// matching the engine's own breaking-exception message convention.
type BreakerTrippedError struct {
	ContextID string
	LimitBytes int64
}

func (e *BreakerTrippedError) Error() string {
	return fmt.Sprintf("memory limit exceeded for context %s: limit %d bytes reached",
		e.ContextID, e.LimitBytes)
}

// NewBreakerTrippedError constructs a BreakerTrippedError for breaker.
func NewBreakerTrippedError(breaker MemoryBreaker) error {
	return errors.WithStack(&BreakerTrippedError{
		ContextID:  breaker.ContextID(),
		LimitBytes: breaker.Limit(),
	})
}

// IndexError wraps a failure surfaced by the searcher or by segment I/O.
type IndexError struct {
	cause error
}

func (e *IndexError) Error() string { return fmt.Sprintf("index error: %v", e.cause) }
func (e *IndexError) Unwrap() error { return e.cause }

// NewIndexError wraps cause as an IndexError. Returns nil if cause is nil.
func NewIndexError(cause error) error {
	if cause == nil {
		return nil
	}
	return &IndexError{cause: cause}
}

// DownstreamError wraps a failure raised by DownstreamSink.DeliverRow.
type DownstreamError struct {
	cause error
}

func (e *DownstreamError) Error() string { return fmt.Sprintf("downstream error: %v", e.cause) }
func (e *DownstreamError) Unwrap() error { return e.cause }

// NewDownstreamError wraps cause as a DownstreamError.
func NewDownstreamError(cause error) error {
	if cause == nil {
		return nil
	}
	return &DownstreamError{cause: cause}
}
