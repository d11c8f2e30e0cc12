// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package log provides leveled, context-aware logging for the collector.
// It mirrors the calling convention of the engine's own logging package
// (Infof/Warningf/Errorf take a context.Context first) without the
// multi-sink, multi-channel machinery the full engine carries -- a
// standalone collector library has no file sinks or cluster logging
// config to manage.
package log

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// Severity orders log messages the way the engine's channels do.
type Severity int32

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "I"
	case SeverityWarning:
		return "W"
	case SeverityError:
		return "E"
	case SeverityFatal:
		return "F"
	default:
		return "?"
	}
}

var std = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)

// verbosity is the current V-level threshold; VEventf only emits when its
// level is <= verbosity. Set via SetVerbosity, defaults to 0 (quiet).
var verbosity int32

// SetVerbosity adjusts the V-level threshold used by VEventf.
func SetVerbosity(level int32) {
	atomic.StoreInt32(&verbosity, level)
}

// V reports whether logging at the given verbosity level is enabled.
func V(level int32) bool {
	return level <= atomic.LoadInt32(&verbosity)
}

func output(ctx context.Context, sev Severity, format string, args ...interface{}) {
	tag := tagFromContext(ctx)
	msg := fmt.Sprintf(format, args...)
	if tag != "" {
		std.Printf("%s [%s] %s", sev, tag, msg)
	} else {
		std.Printf("%s %s", sev, msg)
	}
}

// Infof logs at SeverityInfo.
func Infof(ctx context.Context, format string, args ...interface{}) {
	output(ctx, SeverityInfo, format, args...)
}

// Warningf logs at SeverityWarning.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	output(ctx, SeverityWarning, format, args...)
}

// Errorf logs at SeverityError.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	output(ctx, SeverityError, format, args...)
}

// Fatalf logs at SeverityFatal and terminates the process, matching the
// engine's convention that Fatalf never returns.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	output(ctx, SeverityFatal, format, args...)
	os.Exit(1)
}

// VEventf logs at SeverityInfo only when V(level) is enabled. It is used
// for per-document tracing that would otherwise be too noisy to always emit.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if !V(level) {
		return
	}
	output(ctx, SeverityInfo, format, args...)
}

type tagKey struct{}

// WithLogTag annotates ctx with a short tag (e.g. a scan id) that subsequent
// log calls made with the returned context will prefix their output with.
func WithLogTag(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, tagKey{}, tag)
}

func tagFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if t, ok := ctx.Value(tagKey{}).(string); ok {
		return t
	}
	return ""
}
