// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import "iter"

// All returns an iterator over key-value pairs from m in bucket order.
// Like Iter, it skips keys deleted during the iteration.
func (m *Map[K, E]) All() iter.Seq2[K, E] {
	return func(yield func(K, E) bool) {
		for it := m.Iter(); it.Next(); {
			if !yield(it.Key(), it.Elem()) {
				return
			}
		}
	}
}

// Keys returns an iterator over keys in m in bucket order.
func (m *Map[K, E]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over values in m in bucket order.
func (m *Map[K, E]) Values() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range m.All() {
			if !yield(e) {
				return
			}
		}
	}
}

// Buckets returns an iterator over the keys in m paired with the index
// of the table slot each one occupies. Indexes ascend.
func (m *Map[K, E]) Buckets() iter.Seq2[uint64, K] {
	return func(yield func(uint64, K) bool) {
		for k := range m.All() {
			b, _ := m.Bucket(k)
			if !yield(b, k) {
				return
			}
		}
	}
}
