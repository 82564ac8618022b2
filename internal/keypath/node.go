// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package keypath provides a tagged content tree and a small interpreter
// for dotted/indexed path expressions such as "stats.stat1.label" or
// "questions.2.answer".
package keypath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Kind identifies the variant held by a Node.
type Kind uint8

// Node kinds.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is a value in a content tree: a scalar, an ordered sequence, or a
// keyed map. The zero Node is null.
//
// Nodes are treated as immutable. Every operation in this package that
// changes a tree returns a new root and leaves its input untouched.
type Node struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Node
	m    map[string]Node
}

// Null returns the null node.
func Null() Node { return Node{} }

// String returns a string node.
func String(s string) Node { return Node{kind: KindString, str: s} }

// Number returns a number node.
func Number(f float64) Node { return Node{kind: KindNumber, num: f} }

// Bool returns a boolean node.
func Bool(b bool) Node { return Node{kind: KindBool, b: b} }

// List returns a list node holding items. The slice is copied.
func List(items ...Node) Node {
	out := make([]Node, len(items))
	copy(out, items)
	return Node{kind: KindList, list: out}
}

// Map returns a map node holding fields. The map is copied.
func Map(fields map[string]Node) Node {
	out := make(map[string]Node, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return Node{kind: KindMap, m: out}
}

// Kind reports the variant held by n.
func (n Node) Kind() Kind { return n.kind }

// IsNull reports whether n is null.
func (n Node) IsNull() bool { return n.kind == KindNull }

// IsScalar reports whether n is neither a list nor a map.
func (n Node) IsScalar() bool { return n.kind != KindList && n.kind != KindMap }

// Str returns the string value and whether n is a string.
func (n Node) Str() (string, bool) { return n.str, n.kind == KindString }

// Num returns the numeric value and whether n is a number.
func (n Node) Num() (float64, bool) { return n.num, n.kind == KindNumber }

// Truth returns the boolean value and whether n is a bool.
func (n Node) Truth() (bool, bool) { return n.b, n.kind == KindBool }

// Len returns the number of items of a list or fields of a map, 0 otherwise.
func (n Node) Len() int {
	switch n.kind {
	case KindList:
		return len(n.list)
	case KindMap:
		return len(n.m)
	default:
		return 0
	}
}

// Index returns the i-th item of a list node.
func (n Node) Index(i int) (Node, bool) {
	if n.kind != KindList || i < 0 || i >= len(n.list) {
		return Node{}, false
	}
	return n.list[i], true
}

// Field returns the named field of a map node.
func (n Node) Field(key string) (Node, bool) {
	if n.kind != KindMap {
		return Node{}, false
	}
	v, ok := n.m[key]
	return v, ok
}

// Items returns a copy of the items of a list node.
func (n Node) Items() []Node {
	if n.kind != KindList {
		return nil
	}
	out := make([]Node, len(n.list))
	copy(out, n.list)
	return out
}

// Keys returns the sorted field names of a map node.
func (n Node) Keys() []string {
	if n.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(n.m))
	for k := range n.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of n sharing no containers with it.
func (n Node) Clone() Node {
	switch n.kind {
	case KindList:
		out := make([]Node, len(n.list))
		for i, item := range n.list {
			out[i] = item.Clone()
		}
		return Node{kind: KindList, list: out}
	case KindMap:
		out := make(map[string]Node, len(n.m))
		for k, v := range n.m {
			out[k] = v.Clone()
		}
		return Node{kind: KindMap, m: out}
	default:
		return n
	}
}

// Equal reports whether n and other hold the same tree.
func (n Node) Equal(other Node) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindNull:
		return true
	case KindString:
		return n.str == other.str
	case KindNumber:
		return n.num == other.num
	case KindBool:
		return n.b == other.b
	case KindList:
		if len(n.list) != len(other.list) {
			return false
		}
		for i := range n.list {
			if !n.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(n.m) != len(other.m) {
			return false
		}
		for k, v := range n.m {
			ov, ok := other.m[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// FromAny converts a decoded JSON/YAML value into a Node. Supported inputs
// are nil, string, bool, all Go integer and float types, json.Number,
// []any, map[string]any and map[any]any with stringable keys.
func FromAny(v any) (Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Node:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Node{}, fmt.Errorf("keypath: number %q: %w", x, err)
		}
		return Number(f), nil
	case []any:
		items := make([]Node, len(x))
		for i, item := range x {
			n, err := FromAny(item)
			if err != nil {
				return Node{}, err
			}
			items[i] = n
		}
		return Node{kind: KindList, list: items}, nil
	case map[string]any:
		fields := make(map[string]Node, len(x))
		for k, item := range x {
			n, err := FromAny(item)
			if err != nil {
				return Node{}, err
			}
			fields[k] = n
		}
		return Node{kind: KindMap, m: fields}, nil
	case map[any]any:
		fields := make(map[string]Node, len(x))
		for k, item := range x {
			n, err := FromAny(item)
			if err != nil {
				return Node{}, err
			}
			fields[fmt.Sprint(k)] = n
		}
		return Node{kind: KindMap, m: fields}, nil
	default:
		return Node{}, fmt.Errorf("keypath: unsupported value type %T", v)
	}
}

// Any converts n back into plain Go values (nil, string, float64, bool,
// []any, map[string]any). Whole numbers are returned as int64.
func (n Node) Any() any {
	switch n.kind {
	case KindString:
		return n.str
	case KindNumber:
		if n.num == math.Trunc(n.num) && math.Abs(n.num) < 1<<53 {
			return int64(n.num)
		}
		return n.num
	case KindBool:
		return n.b
	case KindList:
		out := make([]any, len(n.list))
		for i, item := range n.list {
			out[i] = item.Any()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(n.m))
		for k, v := range n.m {
			out[k] = v.Any()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Any())
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (n Node) MarshalYAML() (any, error) {
	return n.Any(), nil
}
