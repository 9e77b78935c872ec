// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/gbacore/memory"
)

// Reset state.
const (
	RESET_PC   = uint32(memory.ROM_START)                // Execution starts at the cartridge.
	RESET_SP   = uint32(0x0300_7F00)                     // Top of the user stack in IWRAM.
	RESET_CPSR = uint32(0x6000_0000) | uint32(MODE_USER) // Z and C set, user mode.
)

var _cpu_defines = map[string]string{
	"RESET_PC":   fmt.Sprintf("0x%x", RESET_PC),
	"STACK_TOP":  fmt.Sprintf("0x%x", RESET_SP),
	"RESET_CPSR": fmt.Sprintf("0x%x", RESET_CPSR),
}

// Memory is the address space seen by the CPU.
type Memory interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
}

// Cpu is the simulation context for the processor core.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers        // Architectural registers.
	Memory    Memory // Address space.

	Ticks int // Instructions stepped, including those skipped by condition.

	branched bool // r15 written by the current instruction.
}

// NewCpu creates a new CPU attached to 'mem', in the reset state.
func NewCpu(mem Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for reg := range REG_COUNT {
		val := cpu.Register[reg]
		text += fmt.Sprintf("% 5s: %04X_%04X\n", regName(reg), val>>16, val&0xffff)
	}

	mode := cpu.Mode()
	text += fmt.Sprintf("% 5s: %04X_%04X %v %v\n", "cpsr", cpu.Cpsr>>16, cpu.Cpsr&0xffff, cpu.flagString(), mode)

	spsr, ok := cpu.SavedStatus(mode)
	if ok {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", "spsr", spsr>>16, spsr&0xffff)
	} else {
		text += fmt.Sprintf("% 5s: ----_----\n", "spsr")
	}

	return
}

// Reset the CPU state.
// - Clears the registers and saved status.
// - Zeros the tick counter.
// - Sets the stack pointer, entry point, and user mode status.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Spsr[:])
	cpu.Ticks = 0

	cpu.Register[REG_SP] = RESET_SP
	cpu.Register[REG_PC] = RESET_PC
	cpu.Cpsr = RESET_CPSR
}

// setRegister writes a general register from an executing instruction,
// noting a control flow transfer for writes to r15.
func (cpu *Cpu) setRegister(reg int, value uint32) {
	if reg == REG_PC {
		cpu.branched = true
	}
	cpu.Write(reg, value)
}

// Fetch reads the instruction word at the program counter.
func (cpu *Cpu) Fetch() (code Code) {
	return Code(cpu.Memory.Read32(cpu.Register[REG_PC]))
}

// Step fetches and executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	return cpu.Execute(cpu.Fetch())
}

// Execute executes an instruction as if it was fetched from the current
// program counter.
//
// The program counter advances by 4 unless the instruction wrote it.
// On error, the processor state is unchanged.
func (cpu *Cpu) Execute(code Code) (err error) {
	pc := cpu.Register[REG_PC]

	defer func() {
		if err != nil {
			err = errors.Join(ErrUnimplemented{Address: pc, Code: code}, err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%08x: %v", pc, code)
	}

	cpu.branched = false

	if code.Cond().Passed(cpu.Cpsr) {
		switch code.Class() {
		case CLASS_DATA_REG, CLASS_DATA_IMM:
			err = cpu.executeData(pc, code)
		case CLASS_BRANCH:
			cpu.executeBranch(pc, code)
		default:
			err = ErrClassUnimplemented
		}
		if err != nil {
			return
		}
	}

	if !cpu.branched {
		cpu.Register[REG_PC] = pc + 4
	}

	cpu.Ticks++

	return
}
