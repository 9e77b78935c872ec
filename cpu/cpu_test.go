// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/gbacore/memory"
)

// newTestCpu creates a reset CPU with 'codes' loaded at the start of ROM.
func newTestCpu(t *testing.T, codes ...uint32) (cpu *Cpu) {
	bus := memory.NewBus()

	image := make([]uint8, 4*len(codes))
	for n, code := range codes {
		binary.LittleEndian.PutUint32(image[4*n:], code)
	}
	err := bus.LoadImage(image)
	if err != nil {
		t.Fatal(err)
	}

	cpu = NewCpu(bus)

	return
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)

	assert.Equal(uint32(0x0800_0000), cpu.Register[REG_PC])
	assert.Equal(uint32(0x0300_7F00), cpu.Register[REG_SP])
	assert.Equal(uint32(0x6000_0010), cpu.Cpsr)
	assert.Equal(MODE_USER, cpu.Mode())
	assert.True(cpu.Flag(FLAG_Z))
	assert.True(cpu.Flag(FLAG_C))
	assert.False(cpu.Flag(FLAG_N))
	assert.False(cpu.Flag(FLAG_V))
	for reg := range 13 {
		assert.Equal(uint32(0), cpu.Register[reg], "r%d", reg)
	}

	cpu.Register[3] = 0x1234
	cpu.Spsr[2] = 0xcafe
	cpu.Ticks = 10
	cpu.Reset()
	assert.Equal(uint32(0), cpu.Register[3])
	assert.Equal(uint32(0), cpu.Spsr[2])
	assert.Equal(0, cpu.Ticks)
}

func TestCpuDataSequence(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		0xE2810020, // add r0, r1, #0x20
		0xE1A01000, // mov r1, r0
		0xE2414005, // sub r4, r1, #5
	)

	err := cpu.Step()
	assert.NoError(err)
	assert.Equal(uint32(0x20), cpu.Register[0])
	assert.Equal(uint32(0x0800_0004), cpu.Register[REG_PC])

	err = cpu.Step()
	assert.NoError(err)
	assert.Equal(uint32(0x20), cpu.Register[1])

	err = cpu.Step()
	assert.NoError(err)
	assert.Equal(uint32(0x1B), cpu.Register[4])
	assert.Equal(uint32(0x0800_000C), cpu.Register[REG_PC])
	assert.Equal(3, cpu.Ticks)

	// Flags unchanged without the S bit.
	assert.Equal(uint32(0x6000_0010), cpu.Cpsr)
}

func TestCpuBranch(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)
	p := cpu.Register[REG_PC]

	assert.NoError(cpu.Execute(0xEA000001))
	assert.Equal(p+12, cpu.Register[REG_PC])
	assert.Equal(uint32(0), cpu.Register[REG_LR])

	assert.NoError(cpu.Execute(0xEAFFFFFB))
	assert.Equal(p, cpu.Register[REG_PC])

	assert.NoError(cpu.Execute(0xEB000001))
	assert.Equal(p+4, cpu.Register[REG_LR])
	assert.Equal(p+12, cpu.Register[REG_PC])
}

func TestCpuCompare(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)

	cpu.Register[0] = 7
	cpu.Register[1] = 7
	assert.NoError(cpu.Execute(0xE1500001)) // cmp r0, r1
	assert.True(cpu.Flag(FLAG_Z))
	assert.True(cpu.Flag(FLAG_C))
	assert.False(cpu.Flag(FLAG_N))
	assert.False(cpu.Flag(FLAG_V))

	cpu.Register[1] = 8
	assert.NoError(cpu.Execute(0xE1500001))
	assert.False(cpu.Flag(FLAG_Z))
	assert.False(cpu.Flag(FLAG_C))
	assert.True(cpu.Flag(FLAG_N))

	// Destination is never written.
	assert.Equal(uint32(7), cpu.Register[0])
}

func TestCpuCarry(t *testing.T) {
	assert := assert.New(t)

	adc := uint32(0xE0A02001) // adc r2, r0, r1

	cpu := newTestCpu(t)
	cpu.Register[0] = 1
	cpu.Register[1] = 1

	cpu.SetFlag(FLAG_C, true)
	assert.NoError(cpu.Execute(Code(adc)))
	assert.Equal(uint32(3), cpu.Register[2])

	cpu.SetFlag(FLAG_C, false)
	assert.NoError(cpu.Execute(Code(adc)))
	assert.Equal(uint32(2), cpu.Register[2])
}

func TestCpuFlags(t *testing.T) {
	assert := assert.New(t)

	type flags struct {
		n, z, c, v bool
	}

	table := [...]struct {
		name  string
		code  Code
		r0    uint32
		r1    uint32
		carry bool
		rd    uint32
		flags flags
	}{
		{"adds zero carry", MakeCodeDataReg(COND_AL, DATA_OP_ADD, true, 0, 2, 1, SHIFT_LSL, 0),
			0xffffffff, 1, false, 0, flags{false, true, true, false}},
		{"adds overflow", MakeCodeDataReg(COND_AL, DATA_OP_ADD, true, 0, 2, 1, SHIFT_LSL, 0),
			0x7fffffff, 1, false, 0x80000000, flags{true, false, false, true}},
		{"subs borrow", MakeCodeDataReg(COND_AL, DATA_OP_SUB, true, 0, 2, 1, SHIFT_LSL, 0),
			1, 2, false, 0xffffffff, flags{true, false, false, false}},
		{"subs no borrow", MakeCodeDataReg(COND_AL, DATA_OP_SUB, true, 0, 2, 1, SHIFT_LSL, 0),
			2, 1, false, 1, flags{false, false, true, false}},
		{"subs overflow", MakeCodeDataReg(COND_AL, DATA_OP_SUB, true, 0, 2, 1, SHIFT_LSL, 0),
			0x80000000, 1, false, 0x7fffffff, flags{false, false, true, true}},
		{"sbcs borrow in", MakeCodeDataReg(COND_AL, DATA_OP_SBC, true, 0, 2, 1, SHIFT_LSL, 0),
			5, 2, false, 2, flags{false, false, true, false}},
		{"sbcs no borrow in", MakeCodeDataReg(COND_AL, DATA_OP_SBC, true, 0, 2, 1, SHIFT_LSL, 0),
			5, 2, true, 3, flags{false, false, true, false}},
		{"sbcs borrow chain", MakeCodeDataReg(COND_AL, DATA_OP_SBC, true, 0, 2, 1, SHIFT_LSL, 0),
			0, 0, false, 0xffffffff, flags{true, false, false, false}},
		{"adcs carry chain", MakeCodeDataReg(COND_AL, DATA_OP_ADC, true, 0, 2, 1, SHIFT_LSL, 0),
			0xffffffff, 0, true, 0, flags{false, true, true, false}},
		{"movs shifter carry", MakeCodeDataReg(COND_AL, DATA_OP_MOV, true, 0, 2, 1, SHIFT_LSR, 1),
			0, 3, false, 1, flags{false, false, true, false}},
		{"movs keeps overflow", MakeCodeDataReg(COND_AL, DATA_OP_MOV, true, 0, 2, 1, SHIFT_LSL, 0),
			0, 0, true, 0, flags{false, true, true, true}},
	}

	for _, entry := range table {
		cpu := newTestCpu(t)
		cpu.Cpsr = uint32(MODE_USER)
		if entry.name == "movs keeps overflow" {
			cpu.SetFlag(FLAG_V, true)
		}
		cpu.Register[0] = entry.r0
		cpu.Register[1] = entry.r1
		cpu.SetFlag(FLAG_C, entry.carry)

		err := cpu.Execute(entry.code)
		assert.NoError(err, entry.name)
		assert.Equal(entry.rd, cpu.Register[2], entry.name)
		assert.Equal(entry.flags.n, cpu.Flag(FLAG_N), "%v: n", entry.name)
		assert.Equal(entry.flags.z, cpu.Flag(FLAG_Z), "%v: z", entry.name)
		assert.Equal(entry.flags.c, cpu.Flag(FLAG_C), "%v: c", entry.name)
		assert.Equal(entry.flags.v, cpu.Flag(FLAG_V), "%v: v", entry.name)
	}
}

func TestCpuConditionSkip(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)
	pc := cpu.Register[REG_PC]

	// addne r0, r0, #1 with Z set.
	code := MakeCodeDataImm(COND_NE, DATA_OP_ADD, false, 0, 0, 0, 1)
	assert.NoError(cpu.Execute(code))
	assert.Equal(uint32(0), cpu.Register[0])
	assert.Equal(pc+4, cpu.Register[REG_PC])
	assert.Equal(1, cpu.Ticks)

	// A failed condition skips even unimplemented words.
	assert.NoError(cpu.Execute(Code(0x1000_0090)))
	assert.Equal(pc+8, cpu.Register[REG_PC])

	// Never.
	code = MakeCodeBranch(COND_NV, false, 16)
	assert.NoError(cpu.Execute(code))
	assert.Equal(pc+12, cpu.Register[REG_PC])
}

func TestCpuProgramCounterOperand(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)
	pc := cpu.Register[REG_PC]

	// mov r0, pc
	assert.NoError(cpu.Execute(MakeCodeDataReg(COND_AL, DATA_OP_MOV, false, 0, 0, REG_PC, SHIFT_LSL, 0)))
	assert.Equal(pc+8, cpu.Register[0])

	// add r1, pc, r2, lsl r3
	cpu.Register[2] = 0
	cpu.Register[3] = 0
	pc = cpu.Register[REG_PC]
	assert.NoError(cpu.Execute(MakeCodeDataRegShift(COND_AL, DATA_OP_ADD, false, REG_PC, 1, 2, SHIFT_LSL, 3)))
	assert.Equal(pc+12, cpu.Register[1])

	// mov pc, r0 transfers control.
	cpu.Register[0] = 0x0800_0100
	assert.NoError(cpu.Execute(MakeCodeDataReg(COND_AL, DATA_OP_MOV, false, 0, REG_PC, 0, SHIFT_LSL, 0)))
	assert.Equal(uint32(0x0800_0100), cpu.Register[REG_PC])
}

func TestCpuUnimplemented(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		code Code
		err  error
	}{
		{MakeCodeDataReg(COND_AL, DATA_OP_AND, false, 0, 1, 2, SHIFT_LSL, 0), ErrDataOpUnimplemented},
		{MakeCodeDataImm(COND_AL, DATA_OP_ORR, true, 0, 1, 0, 1), ErrDataOpUnimplemented},
		{MakeCodeDataImm(COND_AL, DATA_OP_SUB, true, 14, REG_PC, 0, 4), ErrStatusRestore},
		{Code(0xE0010392), ErrMultiplyUnimplemented}, // mul r1, r2, r3
		{Code(0xE5901000), ErrClassUnimplemented},    // ldr r1, [r0]
		{Code(0xEF000000), ErrClassUnimplemented},    // swi 0
	}

	for _, entry := range table {
		cpu := newTestCpu(t)
		cpu.Register[0] = 0x55
		before := cpu.Registers

		err := cpu.Execute(entry.code)
		assert.ErrorIs(err, entry.err, entry.code.String())
		assert.ErrorIs(err, ErrUnimplemented{})

		var eu ErrUnimplemented
		assert.True(errors.As(err, &eu))
		assert.Equal(entry.code, eu.Code)
		assert.Equal(uint32(0x0800_0000), eu.Address)

		assert.Equal(before, cpu.Registers, entry.code.String())
		assert.Equal(0, cpu.Ticks)
	}
}

func TestCpuFibonacci(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		0xE3A01001, // mov r1, #1
		0xE3A02001, // mov r2, #1
		0xE0811002, // add r1, r1, r2
		0xE0812002, // add r2, r1, r2
		0xE0811002, // add r1, r1, r2
		0xE1A05001, // mov r5, r1
	)

	for range 6 {
		assert.NoError(cpu.Step())
	}

	assert.Equal(uint32(5), cpu.Register[5])
	assert.Equal(uint32(3), cpu.Register[2])
	assert.Equal(uint32(0x0800_0018), cpu.Register[REG_PC])
}

func TestCpuRegisterContract(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)

	assert.Panics(func() { cpu.Read(16) })
	assert.Panics(func() { cpu.Read(-1) })
	assert.Panics(func() { cpu.Write(16, 0) })

	cpu.Write(15, 0x0800_0040)
	assert.Equal(uint32(0x0800_0040), cpu.Read(REG_PC))
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)

	text := cpu.String()
	assert.True(strings.Contains(text, "   pc: 0800_0000\n"), text)
	assert.True(strings.Contains(text, "   sp: 0300_7F00\n"), text)
	assert.True(strings.Contains(text, " cpsr: 6000_0010 nZCv usr\n"), text)
	assert.True(strings.Contains(text, " spsr: ----_----\n"), text)

	cpu.Cpsr = uint32(MODE_SUPERVISOR)
	cpu.Spsr[2] = 0x1234_5678
	text = cpu.String()
	assert.True(strings.Contains(text, " spsr: 1234_5678\n"), text)
}

func TestCpuDefines(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)

	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("0x3007f00", defines["STACK_TOP"])
	assert.Equal("0x8000000", defines["RESET_PC"])
}
