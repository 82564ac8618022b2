// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package keypath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPathResolution is matched by every *ResolutionError.
var ErrPathResolution = errors.New("path resolution failed")

// ErrInvalidPath is returned by Parse for malformed expressions.
var ErrInvalidPath = errors.New("invalid path")

// ResolutionError reports a path segment that does not exist in the tree or
// cannot be applied to the node it lands on.
type ResolutionError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q at segment %q: %s", e.Path, e.Segment, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return ErrPathResolution }

// Path is a parsed sequence of segments. Each segment is a map key, or a
// list index when applied to a list node.
type Path []string

// Parse splits a dotted expression into a Path. The empty string parses to
// the empty Path, which addresses the root.
func Parse(expr string) (Path, error) {
	if expr == "" {
		return Path{}, nil
	}
	parts := strings.Split(expr, ".")
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: empty segment %d in %q", ErrInvalidPath, i, expr)
		}
	}
	return Path(parts), nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String joins the segments back into dotted form.
func (p Path) String() string { return strings.Join(p, ".") }

// Child returns a new Path extended by seg.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Head splits p into its first segment and the rest.
func (p Path) Head() (string, Path) {
	if len(p) == 0 {
		return "", nil
	}
	return p[0], p[1:]
}

func (p Path) fail(i int, reason string) error {
	return &ResolutionError{Path: p.String(), Segment: p[i], Reason: reason}
}

func listIndex(seg string) (int, bool) {
	idx, err := strconv.Atoi(seg)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// step resolves a single existing segment against n.
func (p Path) step(n Node, i int) (Node, error) {
	seg := p[i]
	switch n.kind {
	case KindList:
		idx, ok := listIndex(seg)
		if !ok {
			return Node{}, p.fail(i, "list index expected")
		}
		if idx >= len(n.list) {
			return Node{}, p.fail(i, fmt.Sprintf("index out of range (len %d)", len(n.list)))
		}
		return n.list[idx], nil
	case KindMap:
		v, ok := n.m[seg]
		if !ok {
			return Node{}, p.fail(i, "no such key")
		}
		return v, nil
	default:
		return Node{}, p.fail(i, "cannot descend into "+n.kind.String())
	}
}

// Get returns the node addressed by p.
func Get(root Node, p Path) (Node, error) {
	cur := root
	for i := range p {
		next, err := p.step(cur, i)
		if err != nil {
			return Node{}, err
		}
		cur = next
	}
	return cur, nil
}

// Set returns a copy of root with the node at p replaced by v.
//
// The final segment may name a new map key. On a list, an index equal to
// the list length appends; anything larger fails. Intermediate segments
// must already exist.
func Set(root Node, p Path, v Node) (Node, error) {
	if len(p) == 0 {
		return v, nil
	}
	return p.update(root, 0, func(parent Node, i int) (Node, error) {
		seg := p[i]
		switch parent.kind {
		case KindList:
			idx, ok := listIndex(seg)
			if !ok {
				return Node{}, p.fail(i, "list index expected")
			}
			switch {
			case idx < len(parent.list):
				out := parent.shallow()
				out.list[idx] = v
				return out, nil
			case idx == len(parent.list):
				out := parent.shallow()
				out.list = append(out.list, v)
				return out, nil
			default:
				return Node{}, p.fail(i, fmt.Sprintf("index out of range (len %d)", len(parent.list)))
			}
		case KindMap:
			out := parent.shallow()
			out.m[seg] = v
			return out, nil
		default:
			return Node{}, p.fail(i, "cannot assign into "+parent.kind.String())
		}
	})
}

// Append returns a copy of root with v added to the end of the list at p.
func Append(root Node, p Path, v Node) (Node, error) {
	target, err := Get(root, p)
	if err != nil {
		return Node{}, err
	}
	if target.kind != KindList {
		if len(p) == 0 {
			return Node{}, &ResolutionError{Reason: "root is " + target.kind.String() + ", not list"}
		}
		return Node{}, p.fail(len(p)-1, "not a list")
	}
	out := target.shallow()
	out.list = append(out.list, v)
	return Set(root, p, out)
}

// Remove returns a copy of root without the node at p. Removing a list item
// shifts later items down by one.
func Remove(root Node, p Path) (Node, error) {
	if len(p) == 0 {
		return Node{}, &ResolutionError{Reason: "cannot remove root"}
	}
	return p.update(root, 0, func(parent Node, i int) (Node, error) {
		if _, err := p.step(parent, i); err != nil {
			return Node{}, err
		}
		out := parent.shallow()
		switch parent.kind {
		case KindList:
			idx, _ := listIndex(p[i])
			out.list = append(out.list[:idx], out.list[idx+1:]...)
		case KindMap:
			delete(out.m, p[i])
		}
		return out, nil
	})
}

// update walks to the parent of the last segment, applies leaf to it, and
// rebuilds every container on the way back up.
func (p Path) update(n Node, i int, leaf func(parent Node, i int) (Node, error)) (Node, error) {
	if i == len(p)-1 {
		return leaf(n, i)
	}
	child, err := p.step(n, i)
	if err != nil {
		return Node{}, err
	}
	newChild, err := p.update(child, i+1, leaf)
	if err != nil {
		return Node{}, err
	}
	out := n.shallow()
	if n.kind == KindList {
		idx, _ := listIndex(p[i])
		out.list[idx] = newChild
	} else {
		out.m[p[i]] = newChild
	}
	return out, nil
}

// shallow copies the top-level container of n.
func (n Node) shallow() Node {
	switch n.kind {
	case KindList:
		out := make([]Node, len(n.list), len(n.list)+1)
		copy(out, n.list)
		return Node{kind: KindList, list: out}
	case KindMap:
		return Map(n.m)
	default:
		return n
	}
}
