package memory

// Ram is a fixed size, zero initialized, read/write region.
type Ram struct {
	Data []uint8
}

var _ Region = (*Ram)(nil)

// NewRam creates a new RAM of 'size' bytes.
func NewRam(size int) (ram *Ram) {
	ram = &Ram{
		Data: make([]uint8, size),
	}
	return
}

// Reset zeros the RAM contents.
func (ram *Ram) Reset() {
	clear(ram.Data)
}

// Read8 reads a byte. Offsets past the end of the RAM read as zero.
func (ram *Ram) Read8(offset uint32) (value uint8) {
	if offset < uint32(len(ram.Data)) {
		value = ram.Data[offset]
	}
	return
}

// Write8 writes a byte. Offsets past the end of the RAM are discarded.
func (ram *Ram) Write8(offset uint32, value uint8) {
	if offset < uint32(len(ram.Data)) {
		ram.Data[offset] = value
	}
}
