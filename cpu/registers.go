package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/gbacore/bitfield"
)

// Register aliases.
const (
	REG_SP = 13 // Stack pointer.
	REG_LR = 14 // Link register.
	REG_PC = 15 // Program counter.

	REG_COUNT = 16
)

// Flag is a status flag, by its bit position in the CPSR.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_V = Flag(28) // v
	FLAG_C = Flag(29) // c
	FLAG_Z = Flag(30) // z
	FLAG_N = Flag(31) // n
)

// Mode is a processor mode, as stored in the low 5 bits of the CPSR.
type Mode uint32

const (
	MODE_USER       = Mode(0b10000)
	MODE_FIQ        = Mode(0b10001)
	MODE_IRQ        = Mode(0b10010)
	MODE_SUPERVISOR = Mode(0b10011)
	MODE_ABORT      = Mode(0b10111)
	MODE_UNDEFINED  = Mode(0b11011)
	MODE_SYSTEM     = Mode(0b11111)

	MODE_MASK = uint32(0b11111)
)

var _mode_name = map[Mode]string{
	MODE_USER:       "usr",
	MODE_FIQ:        "fiq",
	MODE_IRQ:        "irq",
	MODE_SUPERVISOR: "svc",
	MODE_ABORT:      "abt",
	MODE_UNDEFINED:  "und",
	MODE_SYSTEM:     "sys",
}

func (mode Mode) String() string {
	name, ok := _mode_name[mode]
	if !ok {
		return fmt.Sprintf("Mode(%#x)", uint32(mode))
	}
	return name
}

// Bank returns the saved status slot of a privileged mode.
func (mode Mode) Bank() (index int, ok bool) {
	ok = true
	switch mode {
	case MODE_FIQ:
		index = 0
	case MODE_IRQ:
		index = 1
	case MODE_SUPERVISOR:
		index = 2
	case MODE_ABORT:
		index = 3
	case MODE_UNDEFINED:
		index = 4
	case MODE_SYSTEM:
		index = 5
	default:
		ok = false
	}
	return
}

// Registers is the architectural register state.
type Registers struct {
	Register [REG_COUNT]uint32 // General registers; r13 is sp, r14 is lr, r15 is pc.
	Cpsr     uint32            // Current program status.
	Spsr     [6]uint32         // Saved program status, one per privileged mode.
}

// Read returns the value of a general register.
// Panics if 'reg' is not 0 through 15.
func (regs *Registers) Read(reg int) uint32 {
	if reg < 0 || reg >= REG_COUNT {
		panic(fmt.Sprintf("register r%d out of range", reg))
	}
	return regs.Register[reg]
}

// Write sets the value of a general register.
// Panics if 'reg' is not 0 through 15.
func (regs *Registers) Write(reg int, value uint32) {
	if reg < 0 || reg >= REG_COUNT {
		panic(fmt.Sprintf("register r%d out of range", reg))
	}
	regs.Register[reg] = value
}

// Flag returns the state of a status flag.
func (regs *Registers) Flag(flag Flag) bool {
	return bitfield.IsSet(regs.Cpsr, uint(flag))
}

// SetFlag sets or clears a status flag.
func (regs *Registers) SetFlag(flag Flag, value bool) {
	regs.Cpsr = bitfield.Set(regs.Cpsr, uint(flag), value)
}

// Mode returns the current processor mode.
func (regs *Registers) Mode() Mode {
	return Mode(regs.Cpsr & MODE_MASK)
}

// SavedStatus returns the saved program status of a privileged mode.
// User mode has none.
func (regs *Registers) SavedStatus(mode Mode) (value uint32, ok bool) {
	index, ok := mode.Bank()
	if ok {
		value = regs.Spsr[index]
	}
	return
}

// flagString renders the flags, upper case when set.
func (regs *Registers) flagString() (text string) {
	for _, flag := range []Flag{FLAG_N, FLAG_Z, FLAG_C, FLAG_V} {
		name := flag.String()
		if regs.Flag(flag) {
			name = strings.ToUpper(name)
		}
		text += name
	}
	return
}
