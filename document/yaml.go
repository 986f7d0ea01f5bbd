// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML decodes the first YAML document in r. Mappings keep their source
// order and go through the Hook like JSON objects do. Aliases and merge
// keys are expanded, and a document in which too many of the decoded
// nodes come from alias expansion fails with ErrExcessiveAliasing.
//
// CloudFormation short form intrinsic functions are rewritten to their
// long form: "!Ref x" becomes {Ref: x}, "!GetAtt a.b" becomes
// {Fn::GetAtt: [a, b]} and any other "!Name v" becomes {Fn::Name: v}.
// Scalars under an intrinsic tag are read as strings.
func (d *Decoder) YAML(r io.Reader) (any, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("document: %w", err)
	}
	w := yamlWalker{Decoder: d}
	return w.value(&root, 0)
}

// ErrExcessiveAliasing is returned when alias expansion makes up too
// large a share of a YAML document's decoded nodes.
var ErrExcessiveAliasing = errors.New("document: excessive aliasing in YAML document")

// yamlWalker decodes one YAML node tree. It counts decoded nodes, and
// the ones reached through an alias, to bound alias expansion.
type yamlWalker struct {
	*Decoder
	decoded    int
	aliased    int
	aliasDepth int
}

// allowedAliasRatio is the share of decoded nodes that may come from
// alias expansion. Small documents may alias freely, large ones much
// less so.
func allowedAliasRatio(decoded int) float64 {
	switch {
	case decoded <= 400000:
		return 0.99
	case decoded >= 4000000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decoded-400000)/3600000)
	}
}

func (w *yamlWalker) count() error {
	w.decoded++
	if w.aliasDepth > 0 {
		w.aliased++
	}
	if w.aliased > 100 && w.decoded > 1000 &&
		float64(w.aliased)/float64(w.decoded) > allowedAliasRatio(w.decoded) {
		return ErrExcessiveAliasing
	}
	return nil
}

// alias decodes the node an alias refers to with fn.
func (w *yamlWalker) alias(fn func() error) error {
	w.aliasDepth++
	defer func() { w.aliasDepth-- }()
	return fn()
}

func (w *yamlWalker) value(n *yaml.Node, depth int) (any, error) {
	if err := w.count(); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.value(n.Content[0], depth)
	case yaml.AliasNode:
		var v any
		err := w.alias(func() (err error) {
			v, err = w.value(n.Alias, depth)
			return err
		})
		return v, err
	}

	if fn, ok := intrinsic(n); ok {
		val, err := w.intrinsicArg(fn, n, depth+1)
		if err != nil {
			return nil, err
		}
		return w.mapping(Pairs{{Key: fn, Value: val}})
	}

	switch n.Kind {
	case yaml.MappingNode:
		if depth+1 > w.maxDepth() {
			return nil, ErrDepthExceeded
		}
		p, err := w.pairs(n, depth+1)
		if err != nil {
			return nil, err
		}
		return w.mapping(p)
	case yaml.SequenceNode:
		if depth+1 > w.maxDepth() {
			return nil, ErrDepthExceeded
		}
		l := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.value(c, depth+1)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("document: line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("document: line %d: unexpected YAML node kind %d", n.Line, n.Kind)
}

// yamlPairs decodes the members of a mapping, splicing in the members
// of merged mappings ahead of the mapping's own.
func (w *yamlWalker) pairs(n *yaml.Node, depth int) (Pairs, error) {
	var merged, own Pairs
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			p, err := w.merge(v, depth)
			if err != nil {
				return nil, err
			}
			merged = append(merged, p...)
			continue
		}
		key, err := w.value(k, depth)
		if err != nil {
			return nil, err
		}
		val, err := w.value(v, depth)
		if err != nil {
			return nil, err
		}
		own = append(own, Pair{Key: key, Value: val})
	}
	return append(merged, own...), nil
}

func (w *yamlWalker) merge(v *yaml.Node, depth int) (Pairs, error) {
	if err := w.count(); err != nil {
		return nil, err
	}
	if v.Kind == yaml.AliasNode {
		var p Pairs
		err := w.alias(func() (err error) {
			p, err = w.merge(v.Alias, depth)
			return err
		})
		return p, err
	}
	switch v.Kind {
	case yaml.MappingNode:
		return w.pairs(v, depth)
	case yaml.SequenceNode:
		var out Pairs
		for _, c := range v.Content {
			p, err := w.merge(c, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, p...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("document: line %d: merge value is not a mapping", v.Line)
}

// intrinsic returns the long form name of the intrinsic function n is
// tagged with.
func intrinsic(n *yaml.Node) (string, bool) {
	if !strings.HasPrefix(n.Tag, "!") || strings.HasPrefix(n.Tag, "!!") || n.Tag == "!" {
		return "", false
	}
	name := n.Tag[1:]
	if name == "Ref" || name == "Condition" {
		return name, true
	}
	return "Fn::" + name, true
}

func (w *yamlWalker) intrinsicArg(fn string, n *yaml.Node, depth int) (any, error) {
	if n.Kind != yaml.ScalarNode {
		untagged := *n
		untagged.Tag = ""
		return w.value(&untagged, depth)
	}
	if fn == "Fn::GetAtt" {
		resource, attr, ok := strings.Cut(n.Value, ".")
		if !ok {
			return []any{n.Value}, nil
		}
		return []any{resource, attr}, nil
	}
	return n.Value, nil
}
