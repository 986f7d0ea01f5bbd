// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Decoder reads documents into Pairs, []any and scalars.
type Decoder struct {
	// Hook, if set, replaces every decoded mapping with its result.
	Hook Hook
	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

func (d *Decoder) mapping(p Pairs) (any, error) {
	if d.Hook == nil {
		return p, nil
	}
	return d.Hook(p)
}

// JSON decodes a single JSON value from r. Objects are read member by
// member so that their source order survives, integers decode to int64
// (uint64 or *big.Int when they do not fit) and other numbers to
// float64.
func (d *Decoder) JSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := d.jsonValue(dec, 1)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("document: trailing JSON content")
		}
		return nil, fmt.Errorf("document: %w", err)
	}
	return v, nil
}

func (d *Decoder) jsonValue(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("document: %w", err)
	}
	switch v := tok.(type) {
	case json.Delim:
		if depth > d.maxDepth() {
			return nil, ErrDepthExceeded
		}
		switch v {
		case '{':
			return d.jsonObject(dec, depth)
		case '[':
			return d.jsonArray(dec, depth)
		}
		return nil, fmt.Errorf("document: unexpected delimiter %q", v)
	case json.Number:
		return jsonNumber(v)
	}
	// string, bool or nil
	return tok, nil
}

// jsonObject decodes the members of an object whose opening brace has
// been consumed.
func (d *Decoder) jsonObject(dec *json.Decoder, depth int) (any, error) {
	var p Pairs
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("document: reading key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("document: object key %v is not a string", tok)
		}
		val, err := d.jsonValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		p = append(p, Pair{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return d.mapping(p)
}

func (d *Decoder) jsonArray(dec *json.Decoder, depth int) (any, error) {
	l := []any{}
	for dec.More() {
		v, err := d.jsonValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return l, nil
}

func jsonNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
		if b, ok := new(big.Int).SetString(s, 10); ok {
			return b, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("document: invalid number %s: %w", s, err)
	}
	return f, nil
}
