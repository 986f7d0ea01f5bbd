// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"errors"
	"testing"
)

func TestHash(t *testing.T) {
	for _, tc := range []struct {
		key any
		exp uint64
	}{
		{key: "a", exp: 12416037344},
		{key: Unicode("a"), exp: 12416037344},
		{key: "é", exp: 24960149699224354},
		{key: Unicode("é"), exp: 29824089448},
		{key: 7, exp: 7},
		{key: int8(-1), exp: 18446744073709551614},
		{key: uint32(9), exp: 9},
		{key: true, exp: 1},
		{key: false, exp: 0},
		{key: 2.0, exp: 2},
		{key: 0.5, exp: 1073741824},
		{key: float32(1.5), exp: 1610645504},
		{key: nil, exp: 566771},
	} {
		got, err := Hash(tc.key)
		if err != nil {
			t.Errorf("%#v: %s", tc.key, err)
			continue
		}
		if got != tc.exp {
			t.Errorf("%#v: expected %d got %d", tc.key, tc.exp, got)
		}
	}

	for _, key := range []any{[]byte("a"), struct{}{}, complex(1, 2)} {
		if _, err := Hash(key); !errors.Is(err, ErrUnsupportedKeyKind) {
			t.Errorf("%#v: expected ErrUnsupportedKeyKind got %v", key, err)
		}
	}
}

func TestUnicodeConcat(t *testing.T) {
	u := Unicode("ab").Concat("c")
	if u != Unicode("abc") {
		t.Errorf("expected abc got %s", u)
	}
	if Repr(u) != "u'abc'" {
		t.Errorf("expected u'abc' got %s", Repr(u))
	}
}

func TestUnicodeUpperLower(t *testing.T) {
	if u := Unicode("Ab").Upper(); u != Unicode("AB") || Repr(u) != "u'AB'" {
		t.Errorf("expected u'AB' got %s", Repr(u))
	}
	if u := Unicode("Ab").Lower(); u != Unicode("ab") || Repr(u) != "u'ab'" {
		t.Errorf("expected u'ab' got %s", Repr(u))
	}
	// The result keys a map like any other tagged string.
	m, err := New(UnicodeHash, KeyElem[Unicode, int]{Unicode("Ab").Concat("c").Upper(), 1})
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Get(Unicode("ABC")); !ok || v != 1 {
		t.Errorf("expected u'ABC' to map to 1 got %d, %t", v, ok)
	}
}
