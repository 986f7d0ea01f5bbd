// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"math"
	"math/big"
	"testing"
)

func TestRepr(t *testing.T) {
	nested := NewString(
		KeyElem[string, any]{"b", 1},
		KeyElem[string, any]{"a", []any{true, nil, 2.5}},
	)
	for _, tc := range []struct {
		in  any
		exp string
	}{
		{in: nil, exp: "None"},
		{in: true, exp: "True"},
		{in: false, exp: "False"},
		{in: -42, exp: "-42"},
		{in: uint64(math.MaxUint64), exp: "18446744073709551615"},
		{in: new(big.Int).Lsh(big.NewInt(1), 70), exp: "1180591620717411303424"},
		{in: "abc", exp: "'abc'"},
		{in: Unicode("abc"), exp: "u'abc'"},
		{in: "a'b", exp: `"a'b"`},
		{in: Unicode("a'b"), exp: `u"a'b"`},
		{in: `it's "x"`, exp: `'it\'s "x"'`},
		{in: "back\\slash", exp: `'back\\slash'`},
		{in: "tab\tnl\ncr\r", exp: `'tab\tnl\ncr\r'`},
		{in: "\x00\x7f", exp: `'\x00\x7f'`},
		{in: "é", exp: `'\xc3\xa9'`},
		{in: Unicode("é"), exp: `u'\xe9'`},
		{in: Unicode("☃\x7f\t"), exp: `u'\u2603\x7f\t'`},
		{in: Unicode("😀"), exp: `u'\U0001f600'`},
		{in: 0.1, exp: "0.1"},
		{in: 2.0, exp: "2.0"},
		{in: -2.5, exp: "-2.5"},
		{in: 1e15, exp: "1000000000000000.0"},
		{in: 1e16, exp: "1e+16"},
		{in: 0.0001, exp: "0.0001"},
		{in: 0.00001, exp: "1e-05"},
		{in: 1.5e-300, exp: "1.5e-300"},
		{in: 123456789.123, exp: "123456789.123"},
		{in: math.Inf(1), exp: "inf"},
		{in: math.Inf(-1), exp: "-inf"},
		{in: math.NaN(), exp: "nan"},
		{in: float32(0.5), exp: "0.5"},
		{in: []any{"a", Unicode("b"), 1}, exp: "['a', u'b', 1]"},
		{in: []string{}, exp: "[]"},
		{in: nested, exp: "{'a': [True, None, 2.5], 'b': 1}"},
		{in: NewString[int](), exp: "{}"},
	} {
		if got := Repr(tc.in); got != tc.exp {
			t.Errorf("Repr(%#v): expected %s got %s", tc.in, tc.exp, got)
		}
	}
}
