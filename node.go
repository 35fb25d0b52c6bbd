package fdt

import (
	"iter"
	"strings"
)

// Node is one node of the decoded device tree. Every Property payload
// borrows directly from the source buffer; Name and property names are
// copied strings. Children and Properties are the only slices the decoder
// allocates per node.
type Node struct {
	Name       string
	Properties []Property
	Children   []*Node
}

// FindProperty returns the first property with the given name, in
// declaration order. Absence is reported as ok == false, not an error.
func (n *Node) FindProperty(name string) (*Property, bool) {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			return &n.Properties[i], true
		}
	}
	return nil, false
}

// HasProperty reports whether n carries a property with the given name.
func (n *Node) HasProperty(name string) bool {
	_, ok := n.FindProperty(name)
	return ok
}

// IsEnabled reports whether n's "status" property, if present, is
// "okay". A node with no "status" property is considered enabled.
func (n *Node) IsEnabled() bool {
	prop, ok := n.FindProperty("status")
	if !ok {
		return true
	}
	s, err := prop.Value.ToString()
	if err != nil {
		return false
	}
	return s == "okay"
}

// FindChild returns the direct child matching name exactly, or matching
// the portion of a child's name before its "@unit-address" suffix.
func (n *Node) FindChild(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
		if base, _, ok := strings.Cut(c.Name, "@"); ok && base == name {
			return c, true
		}
	}
	return nil, false
}

// FindNodeByPath resolves a slash-separated path against n, treating n as
// the root of the path. An empty path, or "/", resolves to n itself.
func (n *Node) FindNodeByPath(path string) (*Node, bool) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return n, true
	}
	cur := n
	for _, part := range strings.Split(path, "/") {
		child, ok := cur.FindChild(part)
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// IterNodes returns a lazy pre-order sequence over n and every descendant,
// n itself first.
func (n *Node) IterNodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var walk func(*Node) bool
		walk = func(node *Node) bool {
			if !yield(node) {
				return false
			}
			for _, c := range node.Children {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(n)
	}
}

// FindNodesMatching collects, in pre-order, every node in n's subtree
// (including n) for which pred returns true. FindCompatibleNodes and
// FindNodesWithProperty are both thin wrappers over this one walk.
func (n *Node) FindNodesMatching(pred func(*Node) bool) []*Node {
	var out []*Node
	for node := range n.IterNodes() {
		if pred(node) {
			out = append(out, node)
		}
	}
	return out
}

// FindNodesWithProperty collects every node in n's subtree (including n)
// that carries a property named name.
func (n *Node) FindNodesWithProperty(name string) []*Node {
	return n.FindNodesMatching(func(node *Node) bool {
		return node.HasProperty(name)
	})
}

// FindCompatibleNodes collects every node in n's subtree (including n)
// whose "compatible" property contains the exact string compat, whether
// "compatible" is a single String or a StringList. A payload classified
// as U32 or U64 by length (e.g. "ns16550\x00") is re-examined as a string.
func (n *Node) FindCompatibleNodes(compat string) []*Node {
	return n.FindNodesMatching(func(node *Node) bool {
		prop, ok := node.FindProperty("compatible")
		if !ok {
			return false
		}
		strs, err := prop.Value.Strings()
		if err != nil {
			v, ok := classifyStringish(prop.Value.Bytes())
			if !ok {
				return false
			}
			strs, _ = v.Strings()
		}
		for _, s := range strs {
			if s == compat {
				return true
			}
		}
		return false
	})
}
