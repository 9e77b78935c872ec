// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package bitfield extracts and replaces bits of 32-bit instruction and
// status words.
//
// Bit positions count from 0 (LSB) to 31 (MSB). Ranges are inclusive.
// Out of range positions are programmer errors, and panic.
package bitfield

import (
	"fmt"
)

// At returns bit 'pos' of 'word' as 0 or 1.
func At(word uint32, pos uint) uint32 {
	if pos > 31 {
		panic(fmt.Sprintf("bitfield: bit %d out of range", pos))
	}

	return (word >> pos) & 1
}

// IsSet returns true if bit 'pos' of 'word' is 1.
func IsSet(word uint32, pos uint) bool {
	return At(word, pos) == 1
}

// Bits returns bits 'start' through 'end' (inclusive) of 'word', shifted
// down so that bit 'start' is the LSB of the result.
func Bits(word uint32, start, end uint) uint32 {
	if end < start {
		panic(fmt.Sprintf("bitfield: range %d..%d inverted", start, end))
	}
	if end > 31 {
		panic(fmt.Sprintf("bitfield: bit %d out of range", end))
	}

	width := end - start + 1
	if width == 32 {
		return word
	}

	return (word >> start) & ((1 << width) - 1)
}

// Set returns 'word' with bit 'pos' forced to 'value'.
func Set(word uint32, pos uint, value bool) uint32 {
	if pos > 31 {
		panic(fmt.Sprintf("bitfield: bit %d out of range", pos))
	}

	if value {
		return word | (1 << pos)
	}

	return word &^ (1 << pos)
}

// SignExtend sign extends the low 'width' bits of 'word' to 32 bits.
func SignExtend(word uint32, width uint) uint32 {
	if width == 0 || width > 32 {
		panic(fmt.Sprintf("bitfield: width %d out of range", width))
	}

	shift := 32 - width
	return uint32(int32(word<<shift) >> shift)
}
