package memory

// Byter is anything with byte granular access to the address space.
type Byter interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
}

// Read16 reads a 16-bit value as two bytes, little endian.
func Read16(mem Byter, addr uint32) (value uint16) {
	for n := range 2 {
		value |= uint16(mem.Read8(addr+uint32(n))) << (8 * n)
	}
	return
}

// Write16 writes a 16-bit value as two bytes, little endian.
func Write16(mem Byter, addr uint32, value uint16) {
	for n := range 2 {
		mem.Write8(addr+uint32(n), uint8(value>>(8*n)))
	}
}

// Read32 reads a 32-bit value as four bytes, little endian.
//
// Each byte is dispatched independently, so an unaligned word may straddle
// two regions, or a region and open bus.
func Read32(mem Byter, addr uint32) (value uint32) {
	for n := range 4 {
		value |= uint32(mem.Read8(addr+uint32(n))) << (8 * n)
	}
	return
}

// Write32 writes a 32-bit value as four bytes, little endian.
func Write32(mem Byter, addr uint32, value uint32) {
	for n := range 4 {
		mem.Write8(addr+uint32(n), uint8(value>>(8*n)))
	}
}
