// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"strings"

	"github.com/aristanetworks/py27dict/pyhash"
)

// HashFunc returns the legacy hash of key. It fails with
// ErrUnsupportedKeyKind for keys it cannot hash.
type HashFunc[K any] func(key K) (uint64, error)

// Unicode is a string that originated as a text value. It hashes by
// code point and is rendered with the u prefix by Repr, reproducing the
// legacy distinction between byte strings and unicode strings.
type Unicode string

// Concat returns u+s, keeping the tag.
func (u Unicode) Concat(s string) Unicode {
	return u + Unicode(s)
}

// Upper returns u with all letters mapped to upper case, keeping the
// tag.
func (u Unicode) Upper() Unicode {
	return Unicode(strings.ToUpper(string(u)))
}

// Lower returns u with all letters mapped to lower case, keeping the
// tag.
func (u Unicode) Lower() Unicode {
	return Unicode(strings.ToLower(string(u)))
}

// Hash hashes keys of any supported kind: nil (None), string (a byte
// string), Unicode, bool and all integer and floating point kinds.
//
// Keys of different kinds are different keys even when the legacy
// runtime would find them equal: 1, int64(1), 1.0 and true hash alike
// but occupy separate slots, as do "a" and Unicode("a").
func Hash(key any) (uint64, error) {
	switch k := key.(type) {
	case nil:
		return pyhash.None, nil
	case Unicode:
		return pyhash.Unicode(string(k)), nil
	case string:
		return pyhash.String(k), nil
	case bool:
		return pyhash.Bool(k), nil
	case int:
		return pyhash.Int(k), nil
	case int8:
		return pyhash.Int(k), nil
	case int16:
		return pyhash.Int(k), nil
	case int32:
		return pyhash.Int(k), nil
	case int64:
		return pyhash.Int(k), nil
	case uint:
		return pyhash.Uint(k), nil
	case uint8:
		return pyhash.Uint(k), nil
	case uint16:
		return pyhash.Uint(k), nil
	case uint32:
		return pyhash.Uint(k), nil
	case uint64:
		return pyhash.Uint(k), nil
	case float32:
		return pyhash.Float(k), nil
	case float64:
		return pyhash.Float(k), nil
	}
	return 0, unsupportedKey(key)
}

// StringHash is the HashFunc for maps keyed by byte strings.
func StringHash(key string) (uint64, error) {
	return pyhash.String(key), nil
}

// UnicodeHash is the HashFunc for maps keyed by Unicode strings.
func UnicodeHash(key Unicode) (uint64, error) {
	return pyhash.Unicode(string(key)), nil
}
