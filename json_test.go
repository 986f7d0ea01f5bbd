// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"encoding/json"
	"testing"
)

func TestMarshalJSON(t *testing.T) {
	inner := NewString(
		KeyElem[string, any]{"Path", "/<id>"},
		KeyElem[string, any]{"Method", "get"},
	)
	m := NewString(
		KeyElem[string, any]{"b", []any{1, 2.5, nil}},
		KeyElem[string, any]{"a", inner},
	)
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	exp := `{"a":{"Path":"/<id>","Method":"get"},"b":[1,2.5,null]}`
	if string(b) != exp {
		t.Errorf("expected %s got %s", exp, b)
	}

	mixed, _ := New[any, bool](Hash,
		KeyElem[any, bool]{Unicode("u"), true},
		KeyElem[any, bool]{3, false},
	)
	b, err = json.Marshal(mixed)
	if err != nil {
		t.Fatal(err)
	}
	if exp := `{"3":false,"u":true}`; string(b) != exp {
		t.Errorf("expected %s got %s", exp, b)
	}

	empty := NewString[int]()
	if b, _ := json.Marshal(empty); string(b) != "{}" {
		t.Errorf("expected {} got %s", b)
	}
}

func TestMarshalJSONNoneKey(t *testing.T) {
	m, _ := New[any, int](Hash, KeyElem[any, int]{nil, 1})
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if exp := `{"null":1}`; string(b) != exp {
		t.Errorf("expected %s got %s", exp, b)
	}
}
