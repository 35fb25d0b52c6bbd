package fdt

import "encoding/binary"

// dtbBuilder assembles a well-formed synthetic DTB buffer for tests, one
// token at a time, mirroring the wire format ParseHeader/buildTree expect.
// Apart from the package's wire constants and the align4 helper, it does
// not reuse production decoding code, so tests built with it exercise the
// decoder against an independently constructed encoder.
type dtbBuilder struct {
	reservations  []MemoryReservation
	structBuf     []byte
	strings       []byte
	stringOffsets map[string]uint32
}

func newDTBBuilder() *dtbBuilder {
	return &dtbBuilder{stringOffsets: make(map[string]uint32)}
}

func (b *dtbBuilder) reserve(addr, size uint64) *dtbBuilder {
	b.reservations = append(b.reservations, MemoryReservation{Address: addr, Size: size})
	return b
}

func (b *dtbBuilder) putU32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.structBuf = append(b.structBuf, tmp[:]...)
}

func (b *dtbBuilder) pad4() {
	for len(b.structBuf)%4 != 0 {
		b.structBuf = append(b.structBuf, 0)
	}
}

func (b *dtbBuilder) beginNode(name string) *dtbBuilder {
	b.putU32(tagBeginNode)
	b.structBuf = append(b.structBuf, []byte(name)...)
	b.structBuf = append(b.structBuf, 0)
	b.pad4()
	return b
}

func (b *dtbBuilder) endNode() *dtbBuilder {
	b.putU32(tagEndNode)
	return b
}

func (b *dtbBuilder) nop() *dtbBuilder {
	b.putU32(tagNop)
	return b
}

func (b *dtbBuilder) internString(name string) uint32 {
	if off, ok := b.stringOffsets[name]; ok {
		return off
	}
	off := uint32(len(b.strings))
	b.strings = append(b.strings, []byte(name)...)
	b.strings = append(b.strings, 0)
	b.stringOffsets[name] = off
	return off
}

func (b *dtbBuilder) prop(name string, value []byte) *dtbBuilder {
	nameOff := b.internString(name)
	b.putU32(tagProp)
	b.putU32(uint32(len(value)))
	b.putU32(nameOff)
	b.structBuf = append(b.structBuf, value...)
	b.pad4()
	return b
}

func (b *dtbBuilder) propU32(name string, v uint32) *dtbBuilder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return b.prop(name, tmp[:])
}

func (b *dtbBuilder) propU64(name string, v uint64) *dtbBuilder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return b.prop(name, tmp[:])
}

func (b *dtbBuilder) propString(name, s string) *dtbBuilder {
	return b.prop(name, append([]byte(s), 0))
}

func (b *dtbBuilder) propStringList(name string, ss ...string) *dtbBuilder {
	var value []byte
	for _, s := range ss {
		value = append(value, []byte(s)...)
		value = append(value, 0)
	}
	return b.prop(name, value)
}

func (b *dtbBuilder) propEmpty(name string) *dtbBuilder {
	return b.prop(name, nil)
}

// cellsBE encodes v as width 32-bit big-endian cells (most significant
// first), matching the #address-cells/#size-cells layout of reg/ranges
// entries.
func cellsBE(width int, v uint64) []byte {
	out := make([]byte, width*4)
	for i := width - 1; i >= 0; i-- {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], uint32(v))
		v >>= 32
	}
	return out
}

func (b *dtbBuilder) end() *dtbBuilder {
	b.putU32(tagEnd)
	return b
}

// build assembles the full DTB: header, memory-reservation block, struct
// block, and strings block, in that order.
func (b *dtbBuilder) build() []byte {
	const rsvEntry = 16
	rsvSize := (len(b.reservations) + 1) * rsvEntry

	offMemRsvmap := headerSize
	offDtStruct := align4(offMemRsvmap + rsvSize)
	offDtStrings := offDtStruct + len(b.structBuf)
	total := offDtStrings + len(b.strings)

	buf := make([]byte, total)
	binary.BigEndian.PutUint32(buf[0:4], Magic)
	binary.BigEndian.PutUint32(buf[4:8], uint32(total))
	binary.BigEndian.PutUint32(buf[8:12], uint32(offDtStruct))
	binary.BigEndian.PutUint32(buf[12:16], uint32(offDtStrings))
	binary.BigEndian.PutUint32(buf[16:20], uint32(offMemRsvmap))
	binary.BigEndian.PutUint32(buf[20:24], 17) // version
	binary.BigEndian.PutUint32(buf[24:28], 16) // last_comp_version
	binary.BigEndian.PutUint32(buf[28:32], 0)  // boot_cpuid_phys
	binary.BigEndian.PutUint32(buf[32:36], uint32(len(b.strings)))
	binary.BigEndian.PutUint32(buf[36:40], uint32(len(b.structBuf)))

	pos := offMemRsvmap
	for _, r := range b.reservations {
		binary.BigEndian.PutUint64(buf[pos:pos+8], r.Address)
		binary.BigEndian.PutUint64(buf[pos+8:pos+16], r.Size)
		pos += rsvEntry
	}
	// (0,0) sentinel is already zero-filled.

	copy(buf[offDtStruct:], b.structBuf)
	copy(buf[offDtStrings:], b.strings)
	return buf
}

// minimalDTB builds the smallest valid DTB: an empty root node.
func minimalDTB() []byte {
	return newDTBBuilder().beginNode("").endNode().end().build()
}
