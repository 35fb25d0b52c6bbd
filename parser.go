package fdt

import "fmt"

// Parser holds the decoded header, memory reservations, and tree of a
// single DTB; the tree's property payloads borrow from the buffer passed
// to Parse.
type Parser struct {
	header       Header
	reservations []MemoryReservation
	tree         *Tree
}

// Parse decodes buf as a complete DTB: the header, the memory-reservation
// block, and the structure/strings blocks into a tree. The returned
// Parser borrows buf for its entire lifetime; buf must not be modified
// while the Parser is in use.
func Parse(buf []byte) (*Parser, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	reservations, err := ParseReservations(buf, int(h.OffMemRsvmap))
	if err != nil {
		return nil, err
	}
	dec := newTokenDecoder(buf, int(h.OffDtStruct), int(h.SizeDtStruct), int(h.OffDtStrings), int(h.SizeDtStrings))
	root, err := buildTree(dec)
	if err != nil {
		return nil, err
	}
	return &Parser{
		header:       h,
		reservations: reservations,
		tree:         newTree(root),
	}, nil
}

// Header returns the decoded DTB header.
func (p *Parser) Header() Header { return p.header }

// Reservations returns the decoded memory-reservation block.
func (p *Parser) Reservations() []MemoryReservation { return p.reservations }

// Tree returns the decoded tree, with its parent and phandle indexes.
func (p *Parser) Tree() *Tree { return p.tree }

// Root returns the root node of the decoded tree.
func (p *Parser) Root() *Node { return p.tree.root }

// NodeByPHandle looks up the node carrying the given phandle value.
func (p *Parser) NodeByPHandle(ph uint32) (*Node, bool) {
	return p.tree.NodeByPHandle(ph)
}

// RegAddresses decodes n's "reg" property using its parent's cell counts.
func (p *Parser) RegAddresses(n *Node) ([]RegEntry, error) {
	return p.tree.RegAddresses(n)
}

// TranslateAddressRecursive translates a bus-local address rooted at n up
// through n's ancestor chain, bounded by maxDepth.
func (p *Parser) TranslateAddressRecursive(n *Node, childAddr, size uint64, maxDepth int) (uint64, error) {
	return p.tree.TranslateAddressRecursive(n, childAddr, size, maxDepth)
}

// MmioRegions decodes and translates n's "reg" entries, bounded by
// maxDepth.
func (p *Parser) MmioRegions(n *Node, maxDepth int) ([]MmioRegion, error) {
	return p.tree.MmioRegions(n, maxDepth)
}

// DiscoverMMIORegions walks the whole tree collecting every node's "reg"
// entries, translating them if translate is true.
func (p *Parser) DiscoverMMIORegions(translate bool) ([]MmioRegion, error) {
	return p.tree.DiscoverMMIORegions(translate)
}

// TimebaseFrequency finds the first node carrying a "timebase-frequency"
// property, in pre-order from the root, and decodes it as a u32. Absence
// is reported as ok == false, not an error; a property present but
// malformed is also reported as absent, since this is a best-effort
// convenience lookup rather than a required field.
func (p *Parser) TimebaseFrequency() (freq uint32, ok bool) {
	for node := range p.Root().IterNodes() {
		prop, has := node.FindProperty("timebase-frequency")
		if !has {
			continue
		}
		v, err := prop.Value.ToU32()
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// MemoryNodeRegions walks the tree for nodes whose "device_type" property
// equals "memory" and decodes their "reg" entries using their parent's
// cells, left untranslated: system RAM is already expressed in
// CPU-visible addresses by FDT convention, with no bus between /memory
// and the root.
func (p *Parser) MemoryNodeRegions() ([]MmioRegion, error) {
	var out []MmioRegion
	for node := range p.Root().IterNodes() {
		prop, ok := node.FindProperty("device_type")
		if !ok {
			continue
		}
		s, err := prop.Value.ToString()
		if err != nil || s != "memory" {
			continue
		}
		regs, err := p.tree.RegAddresses(node)
		if err != nil {
			return nil, fmt.Errorf("fdt: memory node %q: %w", node.Name, err)
		}
		for _, r := range regs {
			out = append(out, MmioRegion{Node: node, Address: r.Address, Size: r.Size})
		}
	}
	return out, nil
}
