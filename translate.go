package fdt

import "fmt"

// DefaultMaxTranslationDepth bounds TranslateAddressRecursive and the
// translating forms of MmioRegions/DiscoverMMIORegions when the caller
// doesn't supply an explicit depth.
const DefaultMaxTranslationDepth = 32

// TranslateAddress performs single-level address translation at node n,
// using n's own #address-cells/#size-cells (defaulted if absent) to
// interpret n's "ranges" entries, and parentAddressCells to interpret the
// parent-side field of those entries.
//
// If n has no "ranges" property, translation at this level is a no-op and
// childAddr is returned unchanged. If "ranges" is present but empty, the
// mapping is the identity and childAddr is again returned unchanged.
// Otherwise the entries are scanned for one whose child-address interval
// contains [childAddr, childAddr+size); the first such match, translated
// into the parent's address space, is returned. No containing entry is
// ErrAddressTranslation. childAddr+size is checked for uint64 overflow
// before the "ranges" property is even looked up; that, and an overflow
// in a range's own end or in the translated address, is rejected with
// ErrAddressOverflow.
func TranslateAddress(n *Node, childAddr, size uint64, parentAddressCells int) (uint64, error) {
	end, ok := addCheckedU64(childAddr, size)
	if !ok {
		return 0, fmt.Errorf("fdt: address %#x + size %#x: %w", childAddr, size, ErrAddressOverflow)
	}

	prop, ok := n.FindProperty("ranges")
	if !ok {
		return childAddr, nil
	}
	raw := prop.Value.Bytes()
	if len(raw) == 0 {
		return childAddr, nil
	}

	if parentAddressCells < 1 || parentAddressCells > 4 {
		return 0, fmt.Errorf("fdt: parent address-cells %d out of range: %w", parentAddressCells, ErrInvalidAddressCells)
	}
	ac, sc, err := nodeCells(n)
	if err != nil {
		return 0, err
	}
	ranges, err := ParseRanges(raw, ac, parentAddressCells, sc)
	if err != nil {
		return 0, err
	}

	for _, r := range ranges {
		if r.ChildAddress > childAddr {
			continue
		}
		rangeEnd, ok := addCheckedU64(r.ChildAddress, r.Size)
		if !ok {
			return 0, fmt.Errorf("fdt: range [%#x,+%#x): %w", r.ChildAddress, r.Size, ErrAddressOverflow)
		}
		if end > rangeEnd {
			continue
		}
		delta := childAddr - r.ChildAddress
		out, ok := addCheckedU64(r.ParentAddress, delta)
		if !ok {
			return 0, fmt.Errorf("fdt: translated address %#x + %#x: %w", r.ParentAddress, delta, ErrAddressOverflow)
		}
		return out, nil
	}
	return 0, fmt.Errorf("fdt: address %#x size %#x not covered by node %q's ranges: %w", childAddr, size, n.Name, ErrAddressTranslation)
}

// Tree wraps a decoded root Node with the parent-chain and phandle
// indexes that address translation and phandle lookup need. The tree
// itself does not thread parent pointers into Node; Tree carries that
// side-table instead so Node stays a plain, self-contained value.
type Tree struct {
	root     *Node
	parent   map[*Node]*Node
	phandles map[uint32]*Node
}

// newTree walks root once, indexing each node's parent and, for any node
// carrying a "phandle" property, its phandle value.
func newTree(root *Node) *Tree {
	t := &Tree{
		root:     root,
		parent:   make(map[*Node]*Node),
		phandles: make(map[uint32]*Node),
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		if prop, ok := n.FindProperty("phandle"); ok {
			if v, err := prop.Value.ToU32(); err == nil {
				t.phandles[v] = n
			}
		}
		for _, c := range n.Children {
			t.parent[c] = n
			walk(c)
		}
	}
	walk(root)
	return t
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// Parent returns n's parent, or ok == false if n is the root (or not part
// of this tree).
func (t *Tree) Parent(n *Node) (*Node, bool) {
	p, ok := t.parent[n]
	return p, ok
}

// NodeByPHandle looks up the node carrying the given phandle value. This
// is a structural index only: it does not interpret what a phandle
// reference inside some other property means.
func (t *Tree) NodeByPHandle(ph uint32) (*Node, bool) {
	n, ok := t.phandles[ph]
	return n, ok
}

// RegAddresses decodes n's "reg" property using the cell counts declared
// by n's parent (defaults if n is the root or the parent declares none).
// A node with no "reg" property yields a nil slice and no error.
func (t *Tree) RegAddresses(n *Node) ([]RegEntry, error) {
	prop, ok := n.FindProperty("reg")
	if !ok {
		return nil, nil
	}
	parent, _ := t.Parent(n)
	ac, sc, err := nodeCells(parent)
	if err != nil {
		return nil, err
	}
	return ParseReg(prop.Value.Bytes(), ac, sc)
}

// TranslateAddressRecursive walks from n's parent upward, applying
// single-level translation at every ancestor that carries a "ranges"
// property. An ancestor with no "ranges" property terminates the walk:
// its addresses are not CPU-visible through translation, so whatever
// address has been accumulated so far is returned as-is. Reaching the
// root without finding such an ancestor also ends the walk successfully.
//
// The walk is bounded by maxDepth (ancestor levels climbed) and guards
// against cycles by node identity; a cycle is only reachable via a
// corrupted or synthetic parent index, since a tree built by Parse cannot
// contain one.
func (t *Tree) TranslateAddressRecursive(n *Node, childAddr, size uint64, maxDepth int) (uint64, error) {
	addr := childAddr
	cur := n
	visited := map[*Node]bool{n: true}

	for depth := 0; ; depth++ {
		parent, ok := t.Parent(cur)
		if !ok {
			return addr, nil
		}
		if depth >= maxDepth {
			return 0, fmt.Errorf("fdt: translation exceeded max depth %d: %w", maxDepth, ErrMaxDepthExceeded)
		}
		if visited[parent] {
			return 0, fmt.Errorf("fdt: revisited node %q during translation: %w", parent.Name, ErrTranslationCycle)
		}
		visited[parent] = true

		if !parent.HasProperty("ranges") {
			return addr, nil
		}

		grandparent, _ := t.Parent(parent)
		gpAC, err := addressCellsOf(grandparent)
		if err != nil {
			return 0, err
		}
		translated, err := TranslateAddress(parent, addr, size, gpAC)
		if err != nil {
			return 0, err
		}
		addr = translated
		cur = parent
	}
}

// MmioRegion is one CPU-visible (or bus-local, if untranslated) memory
// window discovered on a node.
type MmioRegion struct {
	Node    *Node
	Address uint64
	Size    uint64
}

// MmioRegions decodes n's "reg" property and translates each entry's
// address up to maxDepth ancestor levels.
func (t *Tree) MmioRegions(n *Node, maxDepth int) ([]MmioRegion, error) {
	regs, err := t.RegAddresses(n)
	if err != nil {
		return nil, err
	}
	out := make([]MmioRegion, 0, len(regs))
	for _, r := range regs {
		addr, err := t.TranslateAddressRecursive(n, r.Address, r.Size, maxDepth)
		if err != nil {
			return nil, fmt.Errorf("fdt: node %q: %w", n.Name, err)
		}
		out = append(out, MmioRegion{Node: n, Address: addr, Size: r.Size})
	}
	return out, nil
}

// DiscoverMMIORegions walks the whole tree collecting every node's "reg"
// entries. If translate is true, each address is translated through its
// ancestor chain (bounded by DefaultMaxTranslationDepth); otherwise the
// bus-local address is returned as decoded.
func (t *Tree) DiscoverMMIORegions(translate bool) ([]MmioRegion, error) {
	var out []MmioRegion
	for node := range t.root.IterNodes() {
		regs, err := t.RegAddresses(node)
		if err != nil {
			return nil, fmt.Errorf("fdt: node %q: %w", node.Name, err)
		}
		for _, r := range regs {
			addr := r.Address
			if translate {
				addr, err = t.TranslateAddressRecursive(node, r.Address, r.Size, DefaultMaxTranslationDepth)
				if err != nil {
					return nil, fmt.Errorf("fdt: node %q: %w", node.Name, err)
				}
			}
			out = append(out, MmioRegion{Node: node, Address: addr, Size: r.Size})
		}
	}
	return out, nil
}
