// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/gbacore/cpu"
	"github.com/ezrec/gbacore/memory"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Bus)
	assert.Equal(uint32(memory.ROM_START), emu.Pc())
	assert.Equal(0, emu.LineNo())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x3007f00", defines["STACK_TOP"])
	assert.Equal("0x3000000", defines["IWRAM_START"])
	assert.Equal("0x2000000", defines["EWRAM_START"])
	assert.Equal("0x8000000", defines["ROM_START"])
}

// image packs instruction words into a little-endian cartridge image.
func image(codes ...uint32) []uint8 {
	data := make([]uint8, 4*len(codes))
	for n, code := range codes {
		binary.LittleEndian.PutUint32(data[4*n:], code)
	}
	return data
}

func TestEmulatorFibonacci(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.LoadImage(bytes.NewReader(image(
		0xE3A01001, // mov r1, #1
		0xE3A02001, // mov r2, #1
		0xE0811002, // add r1, r1, r2
		0xE0812002, // add r2, r1, r2
		0xE0811002, // add r1, r1, r2
		0xE1A05001, // mov r5, r1
	)))
	assert.NoError(err)

	steps, err := emu.Run(6)
	assert.NoError(err)
	assert.Equal(6, steps)
	assert.Equal(6, emu.Ticks())
	assert.Equal(uint32(5), emu.Read(5))

	snap := emu.Snapshot()
	assert.Equal(uint32(5), snap.Register[5])
	assert.Equal(6, snap.Ticks)
	assert.Equal(0, snap.LineNo)

	// Snapshots are copies.
	emu.Reset()
	assert.Equal(uint32(0), emu.Read(5))
	assert.Equal(uint32(5), snap.Register[5])
}

func TestEmulatorAssemble(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"    mov r0, #IWRAM_START",
		"    mov r1, #$(EWRAM_START >> 24)",
		"    mov r2, #3",
		"loop:",
		"    subs r2, r2, #1",
		"    bne loop",
		"    add r3, r0, r1",
		"halt:",
		"    b halt",
	}

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(1, emu.LineNo())
	assert.Equal("mov r0, #0x3000000", emu.Code().String())

	steps, err := emu.Run(100)
	assert.NoError(err)
	assert.Equal(3+2*3+1+1, steps)
	assert.Equal(9, emu.LineNo())
	assert.Equal(uint32(0x0300_0002), emu.Read(3))
	assert.True(emu.Flag(cpu.FLAG_Z))
}

func TestEmulatorOrigin(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.Assemble(strings.NewReader(".org 0x08000010\nmov r0, #7\nb ROM_START"))
	assert.NoError(err)

	// Execution starts at ROM_START, which is zero filled: andeq r0, r0, r0.
	err = emu.Step()
	assert.ErrorIs(err, cpu.ErrDataOpUnimplemented)

	var runtime *ErrRuntime
	assert.True(errors.As(err, &runtime))
	assert.Equal(uint32(memory.ROM_START), runtime.Address)
	assert.Equal(0, runtime.LineNo)

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(".org 0x02000000\nmov r0, #1"))
	assert.NoError(err)
	err = emu.LoadProgram(prog)
	assert.ErrorIs(err, ErrProgramOrigin)
}

func TestEmulatorUnimplemented(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"    mov r0, #1",
		"    orr r0, r0, #2",
		"    mov r1, #3",
	}

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	steps, err := emu.Run(0)
	assert.Equal(1, steps)
	assert.ErrorIs(err, cpu.ErrUnimplemented{})
	assert.ErrorIs(err, cpu.ErrDataOpUnimplemented)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(uint32(0x0800_0004), runtime.Address)
		assert.Equal(2, runtime.LineNo)
	}

	// The faulting instruction is not retired.
	assert.Equal(uint32(0x0800_0004), emu.Pc())
	assert.Equal(uint32(1), emu.Read(0))
}

func TestEmulatorLoadImageError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.LoadImage(bytes.NewReader(image(0xE3A01001)))
	assert.NoError(err)
	_, err = emu.Run(1)
	assert.NoError(err)

	before := emu.Snapshot()

	err = emu.LoadImage(iotest.ErrReader(errors.New("boom")))
	assert.ErrorIs(err, memory.ErrImageRead)

	assert.Equal(before, emu.Snapshot())
	assert.Equal(cpu.Code(0xE3A01001), cpu.Code(emu.Bus.Read32(memory.ROM_START)))
}
