// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
)

// Address space layout.
const (
	EWRAM_START = 0x0200_0000 // On-board work RAM.
	EWRAM_END   = 0x0203_FFFF
	EWRAM_SIZE  = EWRAM_END - EWRAM_START + 1 // 256KiB

	IWRAM_START = 0x0300_0000 // On-chip work RAM.
	IWRAM_END   = 0x0300_7FFF
	IWRAM_SIZE  = IWRAM_END - IWRAM_START + 1 // 32KiB

	ROM_START = 0x0800_0000 // Cartridge ROM.
	ROM_END   = 0x0DFF_FFFF
	ROM_LIMIT = ROM_END - ROM_START + 1 // Largest loadable image.
)

var _memory_defines = map[string]string{
	"EWRAM_START": fmt.Sprintf("%#x", EWRAM_START),
	"EWRAM_END":   fmt.Sprintf("%#x", EWRAM_END),
	"IWRAM_START": fmt.Sprintf("%#x", IWRAM_START),
	"IWRAM_END":   fmt.Sprintf("%#x", IWRAM_END),
	"ROM_START":   fmt.Sprintf("%#x", ROM_START),
	"ROM_END":     fmt.Sprintf("%#x", ROM_END),
}

// Mapping places a region at an inclusive address range.
type Mapping struct {
	Name   string
	Start  uint32
	End    uint32
	Region Region
}

// Contains returns true if 'addr' is inside the mapping.
func (mp *Mapping) Contains(addr uint32) bool {
	return addr >= mp.Start && addr <= mp.End
}

// Bus is the address space. Regions are looked up in an ordered table of
// disjoint mappings; the first match wins.
type Bus struct {
	Verbose bool // If set, logs open bus accesses.

	Ewram *Ram   // On-board work RAM.
	Iwram *Ram   // On-chip work RAM.
	Rom   *Rom   // Cartridge ROM.
	Video *Video // Video memory (not mapped).

	mapping []Mapping
}

var _ Byter = (*Bus)(nil)

// NewBus creates the address space with all regions in their power-on state
// and an empty cartridge.
func NewBus() (bus *Bus) {
	bus = &Bus{
		Ewram: NewRam(EWRAM_SIZE),
		Iwram: NewRam(IWRAM_SIZE),
		Rom:   &Rom{},
		Video: &Video{},
	}

	bus.mapping = []Mapping{
		{Name: "ewram", Start: EWRAM_START, End: EWRAM_END, Region: bus.Ewram},
		{Name: "iwram", Start: IWRAM_START, End: IWRAM_END, Region: bus.Iwram},
		{Name: "rom", Start: ROM_START, End: ROM_END, Region: bus.Rom},
	}

	return
}

// Defines returns an iterator over the address space equates.
func (bus *Bus) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Mappings returns an iterator over the address space table, in lookup
// order.
func (bus *Bus) Mappings() iter.Seq[Mapping] {
	return func(yield func(mp Mapping) bool) {
		for _, mp := range bus.mapping {
			if !yield(mp) {
				return
			}
		}
	}
}

// Reset restores all regions to their power-on state. The cartridge image
// is retained.
func (bus *Bus) Reset() {
	for _, mp := range bus.mapping {
		mp.Region.Reset()
	}
	bus.Video.Reset()
}

// LoadImage replaces the cartridge ROM with 'image'.
func (bus *Bus) LoadImage(image []uint8) (err error) {
	if len(image) > ROM_LIMIT {
		err = fmt.Errorf("%w: %v > %v", ErrImageSize, len(image), ROM_LIMIT)
		return
	}

	bus.Rom.Load(image)

	if bus.Verbose {
		log.Printf("bus: loaded %v byte image", len(image))
	}

	return
}

// ReadImage reads a complete program image from 'input'.
// Nothing on the bus is modified; pass the result to LoadImage.
func ReadImage(input io.Reader) (image []uint8, err error) {
	image, err = io.ReadAll(io.LimitReader(input, ROM_LIMIT+1))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrImageRead, err)
		image = nil
		return
	}

	if len(image) > ROM_LIMIT {
		err = ErrImageSize
		image = nil
		return
	}

	return
}

// lookup finds the region and region offset for 'addr'.
func (bus *Bus) lookup(addr uint32) (region Region, offset uint32, ok bool) {
	for n := range bus.mapping {
		mp := &bus.mapping[n]
		if mp.Contains(addr) {
			return mp.Region, addr - mp.Start, true
		}
	}

	return
}

// Read8 reads a byte from the address space.
func (bus *Bus) Read8(addr uint32) (value uint8) {
	region, offset, ok := bus.lookup(addr)
	if !ok {
		if bus.Verbose {
			log.Printf("bus: open read %08x", addr)
		}
		return
	}

	return region.Read8(offset)
}

// Write8 writes a byte to the address space.
func (bus *Bus) Write8(addr uint32, value uint8) {
	region, offset, ok := bus.lookup(addr)
	if !ok {
		if bus.Verbose {
			log.Printf("bus: open write %08x <- %02x", addr, value)
		}
		return
	}

	region.Write8(offset, value)
}

// Read32 reads a little endian word from the address space.
func (bus *Bus) Read32(addr uint32) uint32 {
	return Read32(bus, addr)
}

// Write32 writes a little endian word to the address space.
func (bus *Bus) Write32(addr uint32, value uint32) {
	Write32(bus, addr, value)
}
