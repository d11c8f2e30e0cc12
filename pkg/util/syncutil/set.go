// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package syncutil

// Set is a goroutine-safe set of comparable values. The zero value is an
// empty set ready to use.
type Set[V comparable] struct {
	mu Mutex
	m  map[V]struct{}
}

// Add inserts v into the set, returning true if it was not already present.
func (s *Set[V]) Add(v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[V]struct{})
	}
	if _, ok := s.m[v]; ok {
		return false
	}
	s.m[v] = struct{}{}
	return true
}

// Remove deletes v from the set, returning true if it was present.
func (s *Set[V]) Remove(v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[v]; !ok {
		return false
	}
	delete(s.m, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set[V]) Contains(v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[v]
	return ok
}

// Len returns the number of elements in the set.
func (s *Set[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Range calls f for every element currently in the set, in an unspecified
// order, stopping early if f returns false. Range takes a snapshot of the
// set before iterating, so f may safely call Add or Remove on the same set.
func (s *Set[V]) Range(f func(v V) bool) {
	s.mu.Lock()
	vals := make([]V, 0, len(s.m))
	for v := range s.m {
		vals = append(vals, v)
	}
	s.mu.Unlock()
	for _, v := range vals {
		if !f(v) {
			return
		}
	}
}
