package memory

// Rom is the cartridge program image.
//
// The backing store is exactly as long as the loaded image. Bytes past the
// image read as zero, and writes to them are discarded.
//
// Writes inside the image are permitted. Real cartridge ROM is read-only;
// the image is writable here as a bring-up simplification.
type Rom struct {
	Data []uint8
}

var _ Region = (*Rom)(nil)

// Load replaces the image with a copy of 'image'.
func (rom *Rom) Load(image []uint8) {
	rom.Data = append([]uint8(nil), image...)
}

// Reset leaves the image in place; the cartridge stays inserted.
func (rom *Rom) Reset() {
}

// Read8 reads a byte of the image.
func (rom *Rom) Read8(offset uint32) (value uint8) {
	if offset < uint32(len(rom.Data)) {
		value = rom.Data[offset]
	}
	return
}

// Write8 writes a byte of the image.
func (rom *Rom) Write8(offset uint32, value uint8) {
	if offset < uint32(len(rom.Data)) {
		rom.Data[offset] = value
	}
}
