// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"io"
	"iter"
	"log"

	"github.com/ezrec/gbacore/cpu"
	"github.com/ezrec/gbacore/internal"
	"github.com/ezrec/gbacore/memory"
)

// Emulator state. CPU + memory bus + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Bus      *memory.Bus  // Address space.
	Program  *cpu.Program // Reference to the currently running program listing.
}

// Snapshot is a copy of the emulator state between steps.
type Snapshot struct {
	cpu.Registers
	Ticks  int
	LineNo int
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	bus := memory.NewBus()

	emu = &Emulator{
		Cpu:     cpu.NewCpu(bus),
		Bus:     bus,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Bus.Defines(),
	)
}

// Assemble assembles a program with the emulator defines, and loads it.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	err = emu.LoadProgram(prog)

	return
}

// LoadProgram places an assembled program in ROM and resets.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	image := prog.Binary()
	if len(image) != 0 {
		if prog.Origin < memory.ROM_START || prog.Origin > memory.ROM_END {
			err = ErrProgramOrigin
			return
		}
		image = append(make([]uint8, prog.Origin-memory.ROM_START), image...)
	}

	err = emu.Bus.LoadImage(image)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Reset()

	return
}

// LoadImage reads a cartridge image into ROM and resets.
// On error, the emulator is unchanged.
func (emu *Emulator) LoadImage(input io.Reader) (err error) {
	image, err := memory.ReadImage(input)
	if err != nil {
		return
	}

	err = emu.Bus.LoadImage(image)
	if err != nil {
		return
	}

	emu.Program = &cpu.Program{}
	emu.Reset()

	return
}

// Reset the emulator: clears RAM, and resets the CPU.
func (emu *Emulator) Reset() {
	emu.Bus.Verbose = emu.Verbose
	emu.Cpu.Verbose = emu.Verbose

	emu.Bus.Reset()
	emu.Cpu.Reset()
}

// Ticks returns the total instructions stepped since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint32 {
	return emu.Cpu.Register[cpu.REG_PC]
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	return emu.Cpu.Fetch()
}

// LineNo returns the current line number for the executing opcode,
// or zero if there is no listing for it.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Pc())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Snapshot returns a copy of the current state.
func (emu *Emulator) Snapshot() Snapshot {
	return Snapshot{
		Registers: emu.Cpu.Registers,
		Ticks:     emu.Cpu.Ticks,
		LineNo:    emu.LineNo(),
	}
}

// Step performs a single instruction step of the emulator.
func (emu *Emulator) Step() (err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Pc()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()

	return
}

// Run steps the emulator until an error, a branch to itself, or 'limit'
// steps. A limit of zero or less never stops.
func (emu *Emulator) Run(limit int) (steps int, err error) {
	for limit <= 0 || steps < limit {
		pc := emu.Pc()

		err = emu.Step()
		if err != nil {
			return
		}
		steps++

		if emu.Pc() == pc {
			if emu.Verbose {
				log.Printf("emulator: halted at %08x after %v steps", pc, steps)
			}
			return
		}
	}

	return
}
