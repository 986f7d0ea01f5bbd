// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"strconv"
	"testing"
)

func TestString(t *testing.T) {
	m := NewString(
		KeyElem[string, string]{"Avenue", "AVE"},
		KeyElem[string, string]{"Street", "ST"},
		KeyElem[string, string]{"Court", "CT"},
	)
	s := m.String()
	expected := "{'Court': 'CT', 'Street': 'ST', 'Avenue': 'AVE'}"
	if expected != s {
		t.Errorf("Got: %q Expected: %q", s, expected)
	}

	s = StringFunc(m,
		func(k string) string { return k },
		func(string) string { return "✅" })
	expected = "{Court: ✅, Street: ✅, Avenue: ✅}"
	if s != expected {
		t.Errorf("Got: %q Expected: %q", s, expected)
	}

	var empty *Map[string, string]
	if s := StringFunc(empty, strconv.Quote, strconv.Quote); s != "{}" {
		t.Errorf("Got: %q Expected: {}", s)
	}
}

func TestEqual(t *testing.T) {
	m1 := NewString(
		KeyElem[string, int]{"a", 1},
		KeyElem[string, int]{"b", 2},
	)
	m2 := NewString(
		KeyElem[string, int]{"b", 2},
		KeyElem[string, int]{"a", 1},
	)
	if !Equal(m1, m2) {
		t.Error("expected maps to be equal")
	}
	if !SameOrder(m1, m2) {
		t.Error("expected maps to iterate alike")
	}
	m2.Set("a", 3)
	if Equal(m1, m2) {
		t.Error("expected maps to differ")
	}
	if !EqualFunc(m1, m2, func(a, b int) bool { return (a-b)%2 == 0 }) {
		t.Error("expected maps to be equal under eq")
	}
	m2.Delete("a")
	if Equal(m1, m2) || SameOrder(m1, m2) {
		t.Error("expected maps of different size to differ")
	}

	// y and h land in different relative order once the table grows.
	m3 := NewString(KeyElem[string, int]{"h", 0}, KeyElem[string, int]{"y", 0})
	m4 := NewString[int]()
	for _, k := range letters("abcdefhy") {
		m4.Set(k, 0)
	}
	for _, k := range letters("abcdef") {
		m4.Delete(k)
	}
	if !Equal(m3, m4) {
		t.Error("expected maps to be equal")
	}
	if SameOrder(m3, m4) {
		t.Errorf("expected %s and %s to iterate differently", m3, m4)
	}
}
