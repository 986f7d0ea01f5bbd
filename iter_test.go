// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"slices"
	"testing"
)

func TestRangeFuncs(t *testing.T) {
	m := NewString(
		KeyElem[string, string]{"Avenue", "AVE"},
		KeyElem[string, string]{"Street", "ST"},
		KeyElem[string, string]{"Court", "CT"},
	)

	t.Run("All", func(t *testing.T) {
		exp := []KeyElem[string, string]{
			{"Court", "CT"},
			{"Street", "ST"},
			{"Avenue", "AVE"},
		}
		var got []KeyElem[string, string]
		for k, v := range m.All() {
			got = append(got, KeyElem[string, string]{k, v})
		}
		if !slices.Equal(exp, got) {
			t.Errorf("expected: %v got: %v", exp, got)
		}
	})

	t.Run("Keys", func(t *testing.T) {
		exp := []string{"Court", "Street", "Avenue"}
		if got := slices.Collect(m.Keys()); !slices.Equal(exp, got) {
			t.Errorf("expected: %v got: %v", exp, got)
		}
	})

	t.Run("Values", func(t *testing.T) {
		exp := []string{"CT", "ST", "AVE"}
		if got := slices.Collect(m.Values()); !slices.Equal(exp, got) {
			t.Errorf("expected: %v got: %v", exp, got)
		}
	})

	t.Run("Buckets", func(t *testing.T) {
		var buckets []uint64
		var keys []string
		for b, k := range m.Buckets() {
			buckets = append(buckets, b)
			keys = append(keys, k)
		}
		// Court collides with Avenue in slot 4 and probes to slot 1.
		if exp := []uint64{1, 3, 4}; !slices.Equal(exp, buckets) {
			t.Errorf("expected: %v got: %v", exp, buckets)
		}
		if exp := []string{"Court", "Street", "Avenue"}; !slices.Equal(exp, keys) {
			t.Errorf("expected: %v got: %v", exp, keys)
		}
	})

	t.Run("Break", func(t *testing.T) {
		var got []string
		for k := range m.Keys() {
			got = append(got, k)
			break
		}
		if len(got) != 1 || got[0] != "Court" {
			t.Errorf("expected: [Court] got: %v", got)
		}
	})
}
