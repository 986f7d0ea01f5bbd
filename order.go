// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package py27dict provides Map, an associative container whose
// iteration order is the iteration order of a CPython 2.7 dict holding
// the same keys. Documents rebuilt on top of Map serialize byte for
// byte the way they did under the legacy runtime, independently of
// Go's randomized map iteration.
//
// The order is not insertion order. It is the order of the dict's
// internal slot table, which depends on each key's legacy hash, on
// collisions resolved by the perturbation probe, and on when the
// table was resized.
package py27dict

// This file contains Order, a simulation of the slot table of
// CPython 2.7's dictobject.c. See
// https://github.com/python/cpython/blob/2.7/Objects/dictobject.c
//
// A dict is an open addressing hash table whose size is a power of
// two, 8 at minimum. The low bits of a key's hash select the first
// slot. On collision the next slot is
//
//	i = (5*i + perturb + 1) & mask
//	perturb >>= 5
//
// with perturb starting at the full hash, so the higher hash bits take
// part in the first few probes and the recurrence degenerates into a
// full period generator once perturb reaches 0. Iteration walks the
// slots in index order.
//
// When an insertion leaves the table two thirds full the dict is
// resized to the smallest power of two above 4*used (2*used for dicts
// over 50000 keys), and the live entries are reinserted in old slot
// order. A bulk merge presizes the table for the combined key count
// before inserting anything.
//
// Deleted slots are not marked with a dummy entry. An index from key
// to slot keeps every present key reachable regardless of which probe
// chains the deletion broke. A new key takes the first free slot on its
// probe path, as the interpreter does with dummy slots. The interpreter
// also counts dummy slots toward its fill, so after deletions it can
// resize earlier than Order does, and the two layouts then differ.

import (
	"reflect"

	"golang.org/x/exp/slices"
)

const (
	// Size of a new table.
	minSize = 8

	// Right shift applied to perturb on every probe.
	perturbShift = 5

	// Tables holding more live keys than this grow by 2x instead of 4x.
	growthThreshold = 50000
)

type bucket[K any] struct {
	key  K
	hash uint64
	used bool
}

// Order tracks the slot each key of a simulated dict occupies, and
// yields the keys in slot order.
//
// An Order is not safe for concurrent use.
type Order[K comparable] struct {
	count   int // # occupied buckets
	buckets []bucket[K]

	// slots caches the bucket each present key was probed into. It
	// is rebuilt whenever the table is resized.
	slots map[K]uint64

	// sorted caches Keys until the next structural change.
	sorted []K
	stale  bool

	hash HashFunc[K]
}

// NewOrder returns an empty Order with the minimum table size that
// hashes keys with hash.
func NewOrder[K comparable](hash HashFunc[K]) *Order[K] {
	if hash == nil {
		panic("py27dict: nil hash function")
	}
	return &Order[K]{
		buckets: make([]bucket[K], minSize),
		slots:   make(map[K]uint64),
		stale:   true,
		hash:    hash,
	}
}

// Len returns the number of keys in o.
func (o *Order[K]) Len() int {
	if o == nil {
		return 0
	}
	return o.count
}

// Mask returns the table size minus one.
func (o *Order[K]) Mask() uint64 {
	return uint64(len(o.buckets) - 1)
}

// Bucket returns the slot key occupies and true, or false if key is
// not in o.
func (o *Order[K]) Bucket(key K) (uint64, bool) {
	if o == nil || !comparableKey(key) {
		return 0, false
	}
	i, ok := o.slots[key]
	return i, ok
}

// Contains reports whether key is in o.
func (o *Order[K]) Contains(key K) bool {
	_, ok := o.Bucket(key)
	return ok
}

// comparableKey reports whether key can be looked up in a Go map. Only
// interface key types can hold values that cannot.
func comparableKey[K comparable](key K) bool {
	t := reflect.TypeOf(any(key))
	return t == nil || t.Comparable()
}

// Add inserts key into o. Adding a key that is already present does
// not move it. Add fails without modifying o if key cannot be hashed.
func (o *Order[K]) Add(key K) error {
	if o.Contains(key) {
		return nil
	}
	hash, err := o.hash(key)
	if err != nil {
		return err
	}
	o.add(key, hash)
	return nil
}

func (o *Order[K]) add(key K, hash uint64) {
	if _, ok := o.slots[key]; ok {
		return
	}
	o.insert(key, hash)
	if o.count*3 >= len(o.buckets)*2 {
		request := o.count * 4
		if o.count > growthThreshold {
			request = o.count * 2
		}
		o.resize(request)
	}
}

// insert places key without checking the load factor.
func (o *Order[K]) insert(key K, hash uint64) {
	i := o.probe(key, hash)
	o.buckets[i] = bucket[K]{key: key, hash: hash, used: true}
	o.slots[key] = i
	o.count++
	o.stale = true
}

// probe returns the first bucket on key's probe sequence that is free
// or holds key.
func (o *Order[K]) probe(key K, hash uint64) uint64 {
	mask := o.Mask()
	i := hash & mask
	for perturb := hash; ; perturb >>= perturbShift {
		b := &o.buckets[i]
		if !b.used || b.key == key {
			return i
		}
		i = (i<<2 + i + perturb + 1) & mask
	}
}

// resize grows the table to the smallest power of two strictly greater
// than request and reinserts the keys in their old bucket order.
func (o *Order[K]) resize(request int) {
	newsize := minSize
	for newsize <= request {
		newsize <<= 1
	}
	old := o.buckets
	o.buckets = make([]bucket[K], newsize)
	o.slots = make(map[K]uint64, o.count)
	o.count = 0
	for i := range old {
		if b := &old[i]; b.used {
			o.insert(b.key, b.hash)
		}
	}
}

// Remove deletes key from o and reports whether it was present.
func (o *Order[K]) Remove(key K) bool {
	i, ok := o.Bucket(key)
	if !ok {
		return false
	}
	o.buckets[i] = bucket[K]{}
	delete(o.slots, key)
	o.count--
	o.stale = true
	return true
}

// Keys returns the keys of o in ascending bucket order. This is the
// order a legacy dict holding the same keys iterates in.
func (o *Order[K]) Keys() []K {
	if o == nil {
		return nil
	}
	if o.stale {
		o.sorted = o.sorted[:0]
		for i := range o.buckets {
			if b := &o.buckets[i]; b.used {
				o.sorted = append(o.sorted, b.key)
			}
		}
		o.stale = false
	}
	return slices.Clone(o.sorted)
}

// Merge adds keys to o the way a dict update does: the table is first
// presized for the combined key count, then keys are added in the
// order given. Merge fails without modifying o if any key cannot be
// hashed.
func (o *Order[K]) Merge(keys []K) error {
	incoming := make([]bucket[K], 0, len(keys))
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		hash, err := o.hash(k)
		if err != nil {
			return err
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		incoming = append(incoming, bucket[K]{key: k, hash: hash})
	}
	o.merge(incoming)
	return nil
}

func (o *Order[K]) merge(incoming []bucket[K]) {
	if n := o.count + len(incoming); n*3 >= len(o.buckets)*2 {
		o.resize(n * 2)
	}
	for _, b := range incoming {
		o.add(b.key, b.hash)
	}
}

// entries returns the occupied buckets in bucket order.
func (o *Order[K]) entries() []bucket[K] {
	entries := make([]bucket[K], 0, o.count)
	for _, b := range o.buckets {
		if b.used {
			entries = append(entries, b)
		}
	}
	return entries
}

// Copy returns a new Order built by merging o's keys, in o's order,
// into an empty Order. Bucket assignments are recomputed and may differ
// from o's, exactly as they do when a legacy dict is copied.
func (o *Order[K]) Copy() *Order[K] {
	c := NewOrder(o.hash)
	c.merge(o.entries())
	return c
}

// Clone returns an exact duplicate of o, bucket for bucket.
func (o *Order[K]) Clone() *Order[K] {
	c := &Order[K]{
		count:   o.count,
		buckets: slices.Clone(o.buckets),
		slots:   make(map[K]uint64, len(o.slots)),
		stale:   true,
		hash:    o.hash,
	}
	for k, i := range o.slots {
		c.slots[k] = i
	}
	return c
}

// Pop removes and returns the first key in bucket order. It returns
// false if o is empty.
func (o *Order[K]) Pop() (K, bool) {
	for i := range o.buckets {
		if b := &o.buckets[i]; b.used {
			key := b.key
			o.Remove(key)
			return key, true
		}
	}
	var zero K
	return zero, false
}

// Clear removes all keys from o and returns the table to its minimum
// size, as clearing a legacy dict does.
func (o *Order[K]) Clear() {
	o.buckets = make([]bucket[K], minSize)
	clear(o.slots)
	o.count = 0
	o.stale = true
}
