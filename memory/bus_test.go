package memory

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestBusRoundTrip(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()

	table := [](struct {
		name string
		addr uint32
	}){
		{"ewram_start", EWRAM_START},
		{"ewram_mid", EWRAM_START + 0x1_2344},
		{"ewram_end", EWRAM_END - 3},
		{"iwram_start", IWRAM_START},
		{"iwram_mid", IWRAM_START + 0x4000},
		{"iwram_end", IWRAM_END - 3},
	}

	for _, entry := range table {
		bus.Write8(entry.addr, 0xa5)
		assert.Equal(uint8(0xa5), bus.Read8(entry.addr), entry.name)

		bus.Write32(entry.addr, 0xdeadbeef)
		assert.Equal(uint32(0xdeadbeef), bus.Read32(entry.addr), entry.name)
		assert.Equal(uint8(0xef), bus.Read8(entry.addr+0), entry.name)
		assert.Equal(uint8(0xbe), bus.Read8(entry.addr+1), entry.name)
		assert.Equal(uint8(0xad), bus.Read8(entry.addr+2), entry.name)
		assert.Equal(uint8(0xde), bus.Read8(entry.addr+3), entry.name)
	}
}

func TestBusOpen(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()

	open := []uint32{
		0x0000_0000,
		0x0100_0000,
		EWRAM_END + 1,
		IWRAM_END + 1,
		0x0400_0000, // I/O registers are not modelled.
		0x0600_0000, // Video memory is not mapped.
		ROM_END + 1,
		0xffff_fffc,
	}

	for _, addr := range open {
		assert.NotPanics(func() { bus.Write8(addr, 0x55) })
		assert.NotPanics(func() { bus.Write32(addr, 0x12345678) })
		assert.Equal(uint8(0), bus.Read8(addr), "%08x", addr)
		assert.Equal(uint32(0), bus.Read32(addr), "%08x", addr)
	}

	assert.Equal(uint32(0), bus.Video.Data[0])
}

func TestBusUnaligned(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()

	// Straddles the end of IWRAM and open bus.
	bus.Write32(IWRAM_END-1, 0x44332211)
	assert.Equal(uint8(0x11), bus.Read8(IWRAM_END-1))
	assert.Equal(uint8(0x22), bus.Read8(IWRAM_END))
	assert.Equal(uint32(0x00002211), bus.Read32(IWRAM_END-1))

	bus.Write32(EWRAM_START+1, 0xcafef00d)
	assert.Equal(uint32(0xcafef00d), bus.Read32(EWRAM_START+1))
	assert.Equal(uint32(0xfef00d00), bus.Read32(EWRAM_START))
}

func TestBusRom(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()

	err := bus.LoadImage([]uint8{0x20, 0x00, 0x81, 0xe2, 0x01, 0x10, 0xa0, 0xe1})
	assert.NoError(err)

	assert.Equal(uint32(0xe2810020), bus.Read32(ROM_START))
	assert.Equal(uint32(0xe1a01001), bus.Read32(ROM_START+4))
	assert.Equal(uint32(0), bus.Read32(ROM_START+8))

	// Writable inside the image, discarded past it.
	bus.Write8(ROM_START, 0x21)
	assert.Equal(uint8(0x21), bus.Read8(ROM_START))
	bus.Write8(ROM_START+8, 0x99)
	assert.Equal(uint8(0), bus.Read8(ROM_START+8))
	assert.Equal(8, len(bus.Rom.Data))

	// Reloading replaces the image wholesale.
	err = bus.LoadImage([]uint8{0x01})
	assert.NoError(err)
	assert.Equal(uint32(0x01), bus.Read32(ROM_START))
	assert.Equal(1, len(bus.Rom.Data))
}

func TestBusReset(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	assert.NoError(bus.LoadImage([]uint8{1, 2, 3, 4}))

	bus.Write32(EWRAM_START, 0x11111111)
	bus.Write32(IWRAM_START, 0x22222222)
	bus.Video.Data[7] = 0x33

	bus.Reset()

	assert.Equal(uint32(0), bus.Read32(EWRAM_START))
	assert.Equal(uint32(0), bus.Read32(IWRAM_START))
	assert.Equal(uint32(0), bus.Video.Data[7])
	assert.Equal(uint32(0x04030201), bus.Read32(ROM_START))
}

func TestBusMappings(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()

	var prior *Mapping
	count := 0
	for mp := range bus.Mappings() {
		assert.LessOrEqual(mp.Start, mp.End, mp.Name)
		if prior != nil {
			assert.Greater(mp.Start, prior.End, mp.Name)
		}
		prior = &mp
		count++
	}
	assert.Equal(3, count)

	defines := map[string]string{}
	for key, value := range bus.Defines() {
		defines[key] = value
	}
	assert.Equal("0x8000000", defines["ROM_START"])
	assert.Equal("0x2000000", defines["EWRAM_START"])
	assert.Equal("0x3000000", defines["IWRAM_START"])
}

func TestReadImage(t *testing.T) {
	assert := assert.New(t)

	image, err := ReadImage(bytes.NewReader([]uint8{1, 2, 3}))
	assert.NoError(err)
	assert.Equal([]uint8{1, 2, 3}, image)

	image, err = ReadImage(iotest.ErrReader(errors.New("boom")))
	assert.ErrorIs(err, ErrImageRead)
	assert.Nil(image)

	bus := NewBus()
	err = bus.LoadImage(make([]uint8, ROM_LIMIT+1))
	assert.ErrorIs(err, ErrImageSize)
	assert.Equal(0, len(bus.Rom.Data))
}
