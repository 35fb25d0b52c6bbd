package fdt

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// readBE32 reads a big-endian uint32 at off, failing with ErrUnexpectedEOF
// if the read would run past the end of buf.
func readBE32(buf []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(buf) {
		return 0, fmt.Errorf("fdt: read u32 at %#x: %w", off, ErrUnexpectedEOF)
	}
	return binary.BigEndian.Uint32(buf[off : off+4]), nil
}

// readBE64 reads a big-endian uint64 at off, failing with ErrUnexpectedEOF
// if the read would run past the end of buf.
func readBE64(buf []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(buf) {
		return 0, fmt.Errorf("fdt: read u64 at %#x: %w", off, ErrUnexpectedEOF)
	}
	return binary.BigEndian.Uint64(buf[off : off+8]), nil
}

// readCString reads a null-terminated, UTF-8 string from buf starting at
// off and returns a copy of it, plus the offset of the byte past
// the terminating null. It fails with ErrInvalidString if no terminator
// appears before the end of buf or the bytes are not valid UTF-8.
func readCString(buf []byte, off int) (string, int, error) {
	if off < 0 || off > len(buf) {
		return "", off, fmt.Errorf("fdt: string at %#x: %w", off, ErrUnexpectedEOF)
	}
	end := off
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	if end >= len(buf) {
		return "", off, fmt.Errorf("fdt: string at %#x: %w", off, ErrInvalidString)
	}
	if !utf8.Valid(buf[off:end]) {
		return "", off, fmt.Errorf("fdt: string at %#x: %w", off, ErrInvalidString)
	}
	return string(buf[off:end]), end + 1, nil
}

// align4 rounds n up to the next multiple of 4.
func align4(n int) int {
	return (n + 3) &^ 3
}

// addCheckedU64 adds a and b, reporting whether the sum wrapped past the
// uint64 range.
func addCheckedU64(a, b uint64) (sum uint64, ok bool) {
	sum = a + b
	return sum, sum >= a
}
