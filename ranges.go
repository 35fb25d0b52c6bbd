package fdt

import "fmt"

// AddressRange is one decoded (child address, parent address, size)
// triple from a "ranges" property.
type AddressRange struct {
	ChildAddress  uint64
	ParentAddress uint64
	Size          uint64
}

// ParseRanges decodes a "ranges" payload into address-range triples, each
// consuming ac child-address cells, pac parent-address cells, and sc size
// cells. An empty payload (the identity-mapping form) decodes to a nil
// slice with no error; the caller distinguishes "identity" from "no
// ranges property at all" by checking property presence before calling
// ParseRanges. A non-empty payload whose length is not an exact multiple
// of the per-entry cell width fails with ErrInvalidRangesFormat.
func ParseRanges(data []byte, ac, pac, sc int) ([]AddressRange, error) {
	if len(data) == 0 {
		return nil, nil
	}

	entrySize := 4 * (ac + pac + sc)
	if entrySize == 0 || len(data)%entrySize != 0 {
		return nil, fmt.Errorf("fdt: ranges length %d is not a multiple of %d (ac=%d, pac=%d, sc=%d): %w", len(data), entrySize, ac, pac, sc, ErrInvalidRangesFormat)
	}

	count := len(data) / entrySize
	out := make([]AddressRange, 0, count)
	for i := 0; i < count; i++ {
		base := i * entrySize
		childAddr, err := readCellsValue(data, base, ac)
		if err != nil {
			return nil, err
		}
		parentAddr, err := readCellsValue(data, base+4*ac, pac)
		if err != nil {
			return nil, err
		}
		size, err := readCellsValue(data, base+4*(ac+pac), sc)
		if err != nil {
			return nil, err
		}
		out = append(out, AddressRange{ChildAddress: childAddr, ParentAddress: parentAddr, Size: size})
	}
	return out, nil
}
