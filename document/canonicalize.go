// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/aristanetworks/py27dict"
)

// Canonicalizer rebuilds documents with a py27dict.Map at every mapping
// node. The zero value is ready to use.
type Canonicalizer struct {
	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	Logger   *slog.Logger
}

// Canonicalize rebuilds doc with the default Canonicalizer.
func Canonicalize(doc any) (any, error) {
	var c Canonicalizer
	return c.Canonicalize(doc)
}

// task is a node of the input waiting to be rebuilt. set stores the
// rebuilt node in its parent.
type task struct {
	src   any
	set   func(any)
	depth int
	path  *step
}

// step is one link of the path from the root to a node.
type step struct {
	parent *step
	key    any
	index  int
	isKey  bool
}

func (s *step) String() string {
	if s == nil {
		return "$"
	}
	if s.isKey {
		return s.parent.String() + "[" + py27dict.Repr(s.key) + "]"
	}
	return s.parent.String() + "[" + strconv.Itoa(s.index) + "]"
}

// Canonicalize returns a copy of doc in which every mapping is a
// *py27dict.Map[any, any] and every sequence a []any.
//
// A mapping's keys are merged into an empty Map before any value is
// written, the way the legacy dict constructor did. Pairs are merged in
// source order. Go maps have no source order: string keys are merged in
// ascending order, other keys in ascending order of their legacy repr.
// Slices and arrays of any element type become []any, except byte
// slices, which are scalars. An existing *py27dict.Map[any,
// any] keeps its exact layout, so canonicalizing twice yields the same
// document. Scalars are returned unchanged.
//
// The document is walked with an explicit stack, so nesting depth is
// bounded by MaxDepth rather than by the goroutine stack.
func (c *Canonicalizer) Canonicalize(doc any) (any, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxDepth := c.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var (
		out      any
		mappings int
	)
	stack := []task{{src: doc, set: func(v any) { out = v }}}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var kes []py27dict.KeyElem[any, any]
		switch src := generic(t.src).(type) {
		case Pairs:
			kes = make([]py27dict.KeyElem[any, any], len(src))
			for i, p := range src {
				kes[i] = py27dict.KeyElem[any, any]{Key: p.Key, Elem: p.Value}
			}
		case *py27dict.Map[any, any]:
			if src == nil {
				t.set(src)
				continue
			}
			if t.depth+1 > maxDepth {
				return nil, fmt.Errorf("%s: %w", t.path, ErrDepthExceeded)
			}
			m := src.Clone()
			t.set(m)
			mappings++
			stack = pushValues(stack, m, t)
			continue
		case []any:
			if t.depth+1 > maxDepth {
				return nil, fmt.Errorf("%s: %w", t.path, ErrDepthExceeded)
			}
			l := make([]any, len(src))
			t.set(l)
			for i := len(src) - 1; i >= 0; i-- {
				stack = append(stack, task{
					src:   src[i],
					set:   func(v any) { l[i] = v },
					depth: t.depth + 1,
					path:  &step{parent: t.path, index: i},
				})
			}
			continue
		default:
			t.set(src)
			continue
		}

		if t.depth+1 > maxDepth {
			return nil, fmt.Errorf("%s: %w", t.path, ErrDepthExceeded)
		}
		m, err := py27dict.New[any, any](py27dict.Hash, kes...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.path, err)
		}
		t.set(m)
		mappings++
		stack = pushValues(stack, m, t)
	}
	logger.Debug("canonicalized document", "mappings", mappings)
	return out, nil
}

// pushValues queues the values of m, last key first so that they are
// rebuilt in canonical order.
func pushValues(stack []task, m *py27dict.Map[any, any], parent task) []task {
	items := m.Items()
	for i := len(items) - 1; i >= 0; i-- {
		key, elem := items[i].Key, items[i].Elem
		stack = append(stack, task{
			src: elem,
			set: func(v any) {
				// key is present, so Set cannot fail.
				_ = m.Set(key, v)
			},
			depth: parent.depth + 1,
			path:  &step{parent: parent.path, key: key, isKey: true},
		})
	}
	return stack
}
