// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"strings"

	"golang.org/x/exp/slices"
)

// String renders m in the legacy format, see Repr.
func (m *Map[K, E]) String() string {
	return Repr(m)
}

// StringFunc converts m to a string representation with the help of
// strK and strE functions to stringify m's keys and elems. Entries
// appear in bucket order, formatted as {k: e, ...}.
func StringFunc[K comparable, E any](m *Map[K, E],
	strK func(key K) string,
	strE func(elem E) string) string {
	if m == nil || m.Len() == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, ke := range m.Items() {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(strK(ke.Key))
		b.WriteString(": ")
		b.WriteString(strE(ke.Elem))
	}
	b.WriteByte('}')
	return b.String()
}

// Equal returns true if the same set of keys and elems are in m1 and
// m2. Elements are compared using ==. Iteration order is not compared,
// see SameOrder.
func Equal[K, E comparable](m1, m2 *Map[K, E]) bool {
	return EqualFunc(m1, m2, func(a, b E) bool { return a == b })
}

// EqualFunc returns true if the same set of keys and elems are in m1
// and m2. Elements are compared using eq.
func EqualFunc[K comparable, E any](m1, m2 *Map[K, E], eq func(E, E) bool) bool {
	if m1.Len() != m2.Len() {
		return false
	}
	for it := m1.Iter(); it.Next(); {
		e2, ok := m2.Get(it.Key())
		if !ok || !eq(it.Elem(), e2) {
			return false
		}
	}
	return true
}

// SameOrder returns true if m1 and m2 iterate the same keys in the same
// order.
func SameOrder[K comparable, E any](m1, m2 *Map[K, E]) bool {
	if m1.Len() != m2.Len() {
		return false
	}
	if m1.Len() == 0 {
		return true
	}
	return slices.Equal(m1.order.Keys(), m2.order.Keys())
}
