package cpu

import (
	"encoding/binary"
	"iter"
)

// Opcode is a single assembled source line.
type Opcode struct {
	LineNo    int      // Source line number.
	Address   uint32   // Address of the first code.
	Words     []string // Source words, after expansion.
	Codes     []Code   // Instruction words.
	LinkLabel string   // Branch target, resolved at link time.
}

// Program is an assembled program.
type Program struct {
	Origin  uint32   // Lowest address of the program.
	Opcodes []Opcode // Opcodes, in ascending address order.
}

// Debug locates the source of an instruction address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode containing 'address'; the Opcode is nil if
// there is none.
func (prog *Program) Debug(address uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if address >= op.Address && address < op.Address+uint32(4*len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(address-op.Address) / 4,
			}
			break
		}
	}

	return
}

// Binary returns the little-endian image of the program, starting at
// the origin. Gaps between opcodes are zero filled.
func (prog *Program) Binary() (bins []uint8) {
	for address, code := range prog.Codes() {
		offset := int(address - prog.Origin)
		if need := offset + 4; need > len(bins) {
			bins = append(bins, make([]uint8, need-len(bins))...)
		}
		binary.LittleEndian.PutUint32(bins[offset:], uint32(code))
	}

	return
}

// Codes iterates over every instruction word and its address.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(address uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Address+uint32(4*n), code) {
					return
				}
			}
		}
	}
}
