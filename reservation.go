package fdt

import "fmt"

// reservationEntrySize is the on-disk size of one (address, size) pair.
const reservationEntrySize = 16

// MemoryReservation is one entry of the memory-reservation block: a
// physical address range the boot loader reserved from general use.
type MemoryReservation struct {
	Address uint64 `json:"address"`
	Size    uint64 `json:"size"`
}

// ParseReservations decodes the memory-reservation block starting at
// offMemRsvmap, reading consecutive (address, size) pairs until the
// (0, 0) sentinel. A non-sentinel entry with a zero size is rejected with
// ErrInvalidReservation. Running off the end of buf before the sentinel
// is reached fails with ErrUnexpectedEOF.
func ParseReservations(buf []byte, offMemRsvmap int) ([]MemoryReservation, error) {
	var out []MemoryReservation
	pos := offMemRsvmap
	for {
		addr, err := readBE64(buf, pos)
		if err != nil {
			return nil, fmt.Errorf("fdt: reservation address at %#x: %w", pos, ErrUnexpectedEOF)
		}
		size, err := readBE64(buf, pos+8)
		if err != nil {
			return nil, fmt.Errorf("fdt: reservation size at %#x: %w", pos+8, ErrUnexpectedEOF)
		}
		pos += reservationEntrySize

		if addr == 0 && size == 0 {
			return out, nil
		}
		if size == 0 {
			return nil, fmt.Errorf("fdt: reservation at %#x has zero size: %w", pos-reservationEntrySize, ErrInvalidReservation)
		}
		out = append(out, MemoryReservation{Address: addr, Size: size})
	}
}
