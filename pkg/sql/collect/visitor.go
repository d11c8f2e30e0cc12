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

import "github.com/gravitysql/shardcollect/pkg/util/syncutil"

// FieldsVisitor lazily accumulates which stored fields the scan's column
// expressions need and holds the scratch values fetched for the
// currently-positioned document. The required set is fixed once any
// expression calls Require during StartCollect; the scratch values are
// cleared between documents by Reset.
type FieldsVisitor struct {
	sourceField string
	required    syncutil.Set[string]
	scratch     map[string]interface{}
}

// NewFieldsVisitor returns a visitor that always reports YES for
// sourceField (the designated source/raw-document field) regardless of
// whether any expression explicitly required it.
func NewFieldsVisitor(sourceField string) *FieldsVisitor {
	return &FieldsVisitor{sourceField: sourceField}
}

// Require registers name as a stored field the current scan needs. Safe
// to call from multiple expressions during StartCollect.
func (v *FieldsVisitor) Require(name string) {
	v.required.Add(name)
}

// Required reports whether any field beyond the source field was
// registered. The driver uses this once, at scan start, to decide
// whether the per-document stored-field fetch can be skipped entirely.
func (v *FieldsVisitor) Required() bool {
	return v.required.Len() > 0
}

// NeedsField reports whether the index should deliver name for the
// current document.
func (v *FieldsVisitor) NeedsField(name string) bool {
	if name == v.sourceField {
		return true
	}
	return v.required.Contains(name)
}

// SetValue records the value fetched for field name on the current
// document. Called by Segment.Document implementations.
func (v *FieldsVisitor) SetValue(name string, val interface{}) {
	if v.scratch == nil {
		v.scratch = make(map[string]interface{}, v.required.Len()+1)
	}
	v.scratch[name] = val
}

// Value returns the scratch value recorded for name on the current
// document, if any.
func (v *FieldsVisitor) Value(name string) (interface{}, bool) {
	val, ok := v.scratch[name]
	return val, ok
}

// Reset clears the per-document scratch storage. The required set is
// retained across calls.
func (v *FieldsVisitor) Reset() {
	for k := range v.scratch {
		delete(v.scratch, k)
	}
}
