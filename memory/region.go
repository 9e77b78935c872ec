// Package memory provides the address space of the handheld: the on-board
// and on-chip work RAMs, the cartridge ROM, and the bus that routes byte and
// word accesses to them by address.
//
// Accesses to addresses with no backing region are not errors: reads return
// zero and writes are discarded (open bus).
package memory

// Region defines the interface for all backing stores mapped into the
// address space. Offsets are relative to the start of the region's mapping.
type Region interface {
	// Reset restores the region to its power-on contents.
	Reset()
	// Read8 reads a single byte.
	Read8(offset uint32) uint8
	// Write8 writes a single byte.
	Write8(offset uint32, value uint8)
}
