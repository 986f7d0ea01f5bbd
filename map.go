// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

// Map pairs an Order with ordinary Go map storage. The Order decides
// iteration order, the Go map holds the elements. Every mutation goes
// through both so that they always hold the same key set.

// Map is an associative container iterated, printed and marshalled in
// the order of a legacy dict holding the same keys.
//
// A Map is not safe for concurrent use.
type Map[K comparable, E any] struct {
	order *Order[K]
	elems map[K]E
}

// KeyElem contains a Key and Elem.
type KeyElem[K, E any] struct {
	Key  K
	Elem E
}

// Iterator is instantiated by a call to Iter. It allows iterating over
// a Map in bucket order.
type Iterator[K comparable, E any] struct {
	key  K
	elem E
	m    *Map[K, E]
	keys []K
	i    int
}

// Key returns the key at the iterator's current position. This is
// only valid after a call to Next() that returns true.
func (it *Iterator[K, E]) Key() K {
	return it.key
}

// Elem returns the element at the iterator's current position. This
// is only valid after a call to Next() that returns true.
func (it *Iterator[K, E]) Elem() E {
	return it.elem
}

// New instantiates a new Map that hashes keys with hash, initialized
// with any KeyElems passed. The KeyElems are merged as a dict update
// would merge them, so the table is presized for all of them at once.
// New fails if a key cannot be hashed.
func New[K comparable, E any](hash HashFunc[K], kes ...KeyElem[K, E]) (*Map[K, E], error) {
	m := &Map[K, E]{
		order: NewOrder(hash),
		elems: make(map[K]E, len(kes)),
	}
	if len(kes) == 0 {
		return m, nil
	}
	if err := m.Merge(kes...); err != nil {
		return nil, err
	}
	return m, nil
}

// NewString instantiates a new Map keyed by byte strings. Byte strings
// always hash, so NewString cannot fail.
func NewString[E any](kes ...KeyElem[string, E]) *Map[string, E] {
	m, _ := New[string, E](StringHash, kes...)
	return m
}

// Len returns the count of occupied elements in m.
func (m *Map[K, E]) Len() int {
	if m == nil {
		return 0
	}
	return m.order.Len()
}

// Mask returns the size of m's simulated table minus one.
func (m *Map[K, E]) Mask() uint64 {
	return m.order.Mask()
}

// Bucket returns the slot key occupies in m's simulated table.
func (m *Map[K, E]) Bucket(key K) (uint64, bool) {
	return m.order.Bucket(key)
}

// Get returns the element associated with key and true if that key is
// in the Map, otherwise it returns the zero value of E and false.
func (m *Map[K, E]) Get(key K) (E, bool) {
	if !m.Contains(key) {
		var zeroE E
		return zeroE, false
	}
	return m.elems[key], true
}

// GetDefault returns the element associated with key, or def if key is
// not in m.
func (m *Map[K, E]) GetDefault(key K, def E) E {
	if e, ok := m.Get(key); ok {
		return e
	}
	return def
}

// Lookup returns the element associated with key. It fails with
// ErrKeyNotFound if key is not in m.
func (m *Map[K, E]) Lookup(key K) (E, error) {
	e, ok := m.Get(key)
	if !ok {
		return e, keyNotFound(key)
	}
	return e, nil
}

// Contains reports whether key is in m.
func (m *Map[K, E]) Contains(key K) bool {
	return m != nil && m.order.Contains(key)
}

// Set associates key with elem in m. A key that is already present
// keeps its position. Set fails without modifying m if key cannot be
// hashed.
func (m *Map[K, E]) Set(key K, elem E) error {
	if m == nil {
		// We have to panic here rather than initialize an empty map
		// because we need the user to pass in a hash function
		panic("Set called on nil map")
	}
	if err := m.order.Add(key); err != nil {
		return err
	}
	m.elems[key] = elem
	return nil
}

// SetDefault returns the element associated with key if present.
// Otherwise it sets key to def and returns def.
func (m *Map[K, E]) SetDefault(key K, def E) (E, error) {
	if e, ok := m.Get(key); ok {
		return e, nil
	}
	if err := m.Set(key, def); err != nil {
		var zeroE E
		return zeroE, err
	}
	return def, nil
}

// Delete removes key and it's associated value from the map. It fails
// with ErrKeyNotFound if key is not in m.
func (m *Map[K, E]) Delete(key K) error {
	if m == nil || !m.order.Remove(key) {
		return keyNotFound(key)
	}
	delete(m.elems, key)
	return nil
}

// Pop removes key from m and returns its element, or returns def if key
// is not in m.
func (m *Map[K, E]) Pop(key K, def E) E {
	if m == nil || !m.order.Remove(key) {
		return def
	}
	e := m.elems[key]
	delete(m.elems, key)
	return e
}

// PopItem removes and returns the first key and element in bucket
// order. It returns false if m is empty.
func (m *Map[K, E]) PopItem() (K, E, bool) {
	var zeroE E
	if m == nil {
		var zeroK K
		return zeroK, zeroE, false
	}
	key, ok := m.order.Pop()
	if !ok {
		return key, zeroE, false
	}
	e := m.elems[key]
	delete(m.elems, key)
	return key, e, true
}

// Merge adds kes to m as a dict update would: the simulated table is
// presized for the combined key count, keys are added in the order
// given and elements are assigned last writer wins. Merge fails
// without modifying m if any key cannot be hashed.
func (m *Map[K, E]) Merge(kes ...KeyElem[K, E]) error {
	keys := make([]K, len(kes))
	for i := range kes {
		keys[i] = kes[i].Key
	}
	if err := m.order.Merge(keys); err != nil {
		return err
	}
	for _, ke := range kes {
		m.elems[ke.Key] = ke.Elem
	}
	return nil
}

// MergeMap merges the contents of other into m, in other's order.
func (m *Map[K, E]) MergeMap(other *Map[K, E]) error {
	return m.Merge(other.Items()...)
}

// Items returns the keys and elements of m in bucket order.
func (m *Map[K, E]) Items() []KeyElem[K, E] {
	if m == nil {
		return nil
	}
	keys := m.order.Keys()
	items := make([]KeyElem[K, E], len(keys))
	for i, k := range keys {
		items[i] = KeyElem[K, E]{Key: k, Elem: m.elems[k]}
	}
	return items
}

// Copy returns a deep copy of m. Nested Maps and []any elements are
// copied recursively. The copy's order is rebuilt with Order.Copy, so
// like a copied legacy dict it may iterate differently from m.
func (m *Map[K, E]) Copy() *Map[K, E] {
	c := &Map[K, E]{
		order: m.order.Copy(),
		elems: make(map[K]E, len(m.elems)),
	}
	for k, e := range m.elems {
		c.elems[k] = deepCopy(e)
	}
	return c
}

func (m *Map[K, E]) deepCopy() any {
	return m.Copy()
}

// Clone returns a shallow copy of m with exactly m's bucket layout.
func (m *Map[K, E]) Clone() *Map[K, E] {
	c := &Map[K, E]{
		order: m.order.Clone(),
		elems: make(map[K]E, len(m.elems)),
	}
	for k, e := range m.elems {
		c.elems[k] = e
	}
	return c
}

// Clear deletes all keys from m.
func (m *Map[K, E]) Clear() {
	if m == nil {
		return
	}
	m.order.Clear()
	clear(m.elems)
}

// Iter instantiates an Iterator to explore the elements of the Map in
// bucket order. Keys deleted after the iterator was created are
// skipped, keys added after it was created are not visited.
func (m *Map[K, E]) Iter() *Iterator[K, E] {
	if m == nil || m.Len() == 0 {
		return &Iterator[K, E]{}
	}
	return &Iterator[K, E]{m: m, keys: m.order.Keys()}
}

// Next moves the iterator to the next element. Next returns false
// when the iterator is complete.
func (it *Iterator[K, E]) Next() bool {
	for it.i < len(it.keys) {
		k := it.keys[it.i]
		it.i++
		e, ok := it.m.elems[k]
		if !ok {
			continue // key has been deleted
		}
		it.key = k
		it.elem = e
		return true
	}
	var (
		zeroK K
		zeroE E
	)
	it.key = zeroK
	it.elem = zeroE
	return false
}

type deepCopier interface {
	deepCopy() any
}

func deepCopy[E any](e E) E {
	switch v := any(e).(type) {
	case deepCopier:
		if c, ok := v.deepCopy().(E); ok {
			return c
		}
	case []any:
		c := make([]any, len(v))
		for i, x := range v {
			c[i] = deepCopy(x)
		}
		if out, ok := any(c).(E); ok {
			return out
		}
	}
	return e
}
