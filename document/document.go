// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package document rebuilds nested mapping/sequence documents so that
// every mapping node is a py27dict.Map, giving the whole document the
// iteration and serialization order it had under the legacy runtime.
//
// Decoders in this package produce mappings as Pairs, in source order,
// and pass each one through an optional Hook. TagPairs is the hook that
// marks text values the way the legacy JSON reader did.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/aristanetworks/py27dict"
)

// DefaultMaxDepth bounds the container nesting of decoded and
// canonicalized documents.
const DefaultMaxDepth = 10000

// ErrDepthExceeded is returned when a document nests containers deeper
// than the configured maximum.
var ErrDepthExceeded = errors.New("document: maximum nesting depth exceeded")

// Pair is one member of a mapping.
type Pair struct {
	Key   any
	Value any
}

// Pairs is a mapping in source order. Keys may repeat.
type Pairs []Pair

// Hook transforms each mapping as it is decoded. Values have already
// been decoded, and hooked, when the hook sees the pairs.
type Hook func(Pairs) (any, error)

// Dedup returns p with repeated keys removed. A repeated key keeps the
// position of its first occurrence and the value of its last.
func (p Pairs) Dedup() Pairs {
	index := make(map[any]int, len(p))
	out := make(Pairs, 0, len(p))
	for _, kv := range p {
		if !hashable(kv.Key) {
			out = append(out, kv)
			continue
		}
		if i, ok := index[kv.Key]; ok {
			out[i].Value = kv.Value
			continue
		}
		index[kv.Key] = len(out)
		out = append(out, kv)
	}
	return out
}

// Get returns the last value stored under key.
func (p Pairs) Get(key any) (any, bool) {
	if !hashable(key) {
		return nil, false
	}
	for i := len(p) - 1; i >= 0; i-- {
		if hashable(p[i].Key) && p[i].Key == key {
			return p[i].Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes p as a JSON object in source order.
func (p Pairs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for i, kv := range p.Dedup() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(keyString(kv.Key)); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		if err := enc.Encode(kv.Value); err != nil {
			return nil, fmt.Errorf("value of key %s: %w", py27dict.Repr(kv.Key), err)
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func hashable(v any) bool {
	t := reflect.TypeOf(v)
	return t == nil || t.Comparable()
}

func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case py27dict.Unicode:
		return string(k)
	case bool:
		// Matches the legacy JSON writer.
		if k {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	}
	return py27dict.Repr(key)
}

// TagPairs is a Hook that marks every key and every string value of a
// mapping as py27dict.Unicode and drops repeated keys. Strings inside
// sequences are left untagged.
func TagPairs(p Pairs) (any, error) {
	out := p.Dedup()
	for i := range out {
		out[i].Key = tag(out[i].Key)
		out[i].Value = tag(out[i].Value)
	}
	return out, nil
}

func tag(v any) any {
	if s, ok := v.(string); ok {
		return py27dict.Unicode(s)
	}
	return v
}

// TagStrings returns a copy of doc in which every mapping is Pairs
// passed through TagPairs, so that mapping keys and string values are
// py27dict.Unicode. Mapping keys that are not strings become their JSON
// object key text, as they would after a JSON round trip. Other scalars
// keep their Go types. A *py27dict.Map is read in its iteration order.
func TagStrings(doc any) (any, error) {
	return tagStrings(doc, nil, 0)
}

func tagStrings(v any, path *step, depth int) (any, error) {
	var p Pairs
	switch src := generic(v).(type) {
	case Pairs:
		p = src
	case *py27dict.Map[any, any]:
		if src == nil {
			return nil, nil
		}
		p = make(Pairs, 0, src.Len())
		for k, e := range src.All() {
			p = append(p, Pair{Key: k, Value: e})
		}
	case []any:
		if depth+1 > DefaultMaxDepth {
			return nil, fmt.Errorf("%s: %w", path, ErrDepthExceeded)
		}
		l := make([]any, len(src))
		for i, e := range src {
			var err error
			if l[i], err = tagStrings(e, &step{parent: path, index: i}, depth+1); err != nil {
				return nil, err
			}
		}
		return l, nil
	default:
		switch reflect.ValueOf(src).Kind() {
		case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
			return nil, fmt.Errorf("document: %s: cannot tag value of type %T", path, src)
		}
		return src, nil
	}

	if depth+1 > DefaultMaxDepth {
		return nil, fmt.Errorf("%s: %w", path, ErrDepthExceeded)
	}
	out := make(Pairs, len(p))
	for i, kv := range p {
		val, err := tagStrings(kv.Value, &step{parent: path, key: kv.Key, isKey: true}, depth+1)
		if err != nil {
			return nil, err
		}
		key := kv.Key
		switch key.(type) {
		case string, py27dict.Unicode:
		default:
			key = keyString(key)
		}
		out[i] = Pair{Key: key, Value: val}
	}
	return TagPairs(out)
}

// generic returns v with Go maps converted to Pairs and slices and
// arrays other than byte strings converted to []any. A map's pairs are
// in ascending key order for string keys, and in ascending order of the
// keys' legacy repr otherwise. Other values are returned unchanged.
func generic(v any) any {
	switch src := v.(type) {
	case nil, Pairs, []any, []byte, string, py27dict.Unicode, *py27dict.Map[any, any]:
		return v
	case map[string]any:
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		p := make(Pairs, len(keys))
		for i, k := range keys {
			p[i] = Pair{Key: k, Value: src[k]}
		}
		return p
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		p := make(Pairs, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			if k.Kind() == reflect.String {
				// Named string types hash as plain strings.
				p = append(p, Pair{Key: k.String(), Value: iter.Value().Interface()})
			} else {
				p = append(p, Pair{Key: k.Interface(), Value: iter.Value().Interface()})
			}
		}
		if rv.Type().Key().Kind() == reflect.String {
			slices.SortFunc(p, func(a, b Pair) int {
				return strings.Compare(a.Key.(string), b.Key.(string))
			})
		} else {
			slices.SortFunc(p, func(a, b Pair) int {
				return strings.Compare(py27dict.Repr(a.Key), py27dict.Repr(b.Key))
			})
		}
		return p
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		l := make([]any, rv.Len())
		for i := range l {
			l[i] = rv.Index(i).Interface()
		}
		return l
	}
	return v
}
