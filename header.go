package fdt

import "fmt"

// Magic is the fixed 32-bit value that must open every DTB header.
const Magic uint32 = 0xD00DFEED

// headerSize is the fixed on-disk size of Header, in bytes.
const headerSize = 40

// Header is the fixed 40-byte DTB header, decoded field-for-field in wire
// order (Device Tree Specification v0.4, section 5.2).
type Header struct {
	Magic           uint32
	TotalSize       uint32
	OffDtStruct     uint32
	OffDtStrings    uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCpuidPhys   uint32
	SizeDtStrings   uint32
	SizeDtStruct    uint32
}

// ParseHeader decodes and validates the 40-byte header at the start of buf.
// It checks the magic number, that TotalSize fits within buf, that
// LastCompVersion does not exceed Version, that OffDtStruct is 4-byte
// aligned, and that the struct and strings blocks both lie within
// TotalSize.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, fmt.Errorf("fdt: header: %w", ErrTruncatedBuffer)
	}

	fields := make([]uint32, 10)
	for i := range fields {
		v, err := readBE32(buf, i*4)
		if err != nil {
			return Header{}, fmt.Errorf("fdt: header: %w", ErrTruncatedBuffer)
		}
		fields[i] = v
	}

	h := Header{
		Magic:           fields[0],
		TotalSize:       fields[1],
		OffDtStruct:     fields[2],
		OffDtStrings:    fields[3],
		OffMemRsvmap:    fields[4],
		Version:         fields[5],
		LastCompVersion: fields[6],
		BootCpuidPhys:   fields[7],
		SizeDtStrings:   fields[8],
		SizeDtStruct:    fields[9],
	}

	if h.Magic != Magic {
		return Header{}, fmt.Errorf("fdt: magic %#08x: %w", h.Magic, ErrInvalidMagic)
	}
	if uint64(h.TotalSize) > uint64(len(buf)) {
		return Header{}, fmt.Errorf("fdt: totalsize %d exceeds buffer of %d bytes: %w", h.TotalSize, len(buf), ErrTruncatedBuffer)
	}
	if h.LastCompVersion > h.Version {
		return Header{}, fmt.Errorf("fdt: last_comp_version %d exceeds version %d: %w", h.LastCompVersion, h.Version, ErrInvalidHeader)
	}
	if h.OffDtStruct%4 != 0 {
		return Header{}, fmt.Errorf("fdt: off_dt_struct %d is not 4-byte aligned: %w", h.OffDtStruct, ErrInvalidHeader)
	}

	blocks := []struct {
		off, size uint32
		label     string
	}{
		{h.OffDtStruct, h.SizeDtStruct, "struct"},
		{h.OffDtStrings, h.SizeDtStrings, "strings"},
	}
	for _, b := range blocks {
		if uint64(b.off)+uint64(b.size) > uint64(h.TotalSize) {
			return Header{}, fmt.Errorf("fdt: %s block [%d,+%d) exceeds totalsize %d: %w", b.label, b.off, b.size, h.TotalSize, ErrInvalidHeader)
		}
	}

	return h, nil
}
