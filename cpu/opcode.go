// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"

	"github.com/ezrec/gbacore/bitfield"
)

// CodeCond is a condition code.
type CodeCond int

//go:generate go tool stringer -linecomment -type=CodeCond
const (
	COND_EQ = CodeCond(0x0) // eq
	COND_NE = CodeCond(0x1) // ne
	COND_CS = CodeCond(0x2) // cs
	COND_CC = CodeCond(0x3) // cc
	COND_MI = CodeCond(0x4) // mi
	COND_PL = CodeCond(0x5) // pl
	COND_VS = CodeCond(0x6) // vs
	COND_VC = CodeCond(0x7) // vc
	COND_HI = CodeCond(0x8) // hi
	COND_LS = CodeCond(0x9) // ls
	COND_GE = CodeCond(0xa) // ge
	COND_LT = CodeCond(0xb) // lt
	COND_GT = CodeCond(0xc) // gt
	COND_LE = CodeCond(0xd) // le
	COND_AL = CodeCond(0xe) // al
	COND_NV = CodeCond(0xf) // nv
)

// CodeClass is the instruction class, bits 27-25 of the word.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	CLASS_DATA_REG      = CodeClass(0) // dp
	CLASS_DATA_IMM      = CodeClass(1) // dpi
	CLASS_TRANSFER_IMM  = CodeClass(2) // ldr
	CLASS_TRANSFER_REG  = CodeClass(3) // ldrr
	CLASS_BLOCK         = CodeClass(4) // ldm
	CLASS_BRANCH        = CodeClass(5) // b
	CLASS_COPROC_MEMORY = CodeClass(6) // ldc
	CLASS_COPROC_SWI    = CodeClass(7) // swi
)

// CodeDataOp is a data processing operation.
type CodeDataOp int

//go:generate go tool stringer -linecomment -type=CodeDataOp
const (
	DATA_OP_AND = CodeDataOp(0x0) // and
	DATA_OP_EOR = CodeDataOp(0x1) // eor
	DATA_OP_SUB = CodeDataOp(0x2) // sub
	DATA_OP_RSB = CodeDataOp(0x3) // rsb
	DATA_OP_ADD = CodeDataOp(0x4) // add
	DATA_OP_ADC = CodeDataOp(0x5) // adc
	DATA_OP_SBC = CodeDataOp(0x6) // sbc
	DATA_OP_RSC = CodeDataOp(0x7) // rsc
	DATA_OP_TST = CodeDataOp(0x8) // tst
	DATA_OP_TEQ = CodeDataOp(0x9) // teq
	DATA_OP_CMP = CodeDataOp(0xa) // cmp
	DATA_OP_CMN = CodeDataOp(0xb) // cmn
	DATA_OP_ORR = CodeDataOp(0xc) // orr
	DATA_OP_MOV = CodeDataOp(0xd) // mov
	DATA_OP_BIC = CodeDataOp(0xe) // bic
	DATA_OP_MVN = CodeDataOp(0xf) // mvn
)

// Compare returns true for the operations that only update flags.
func (op CodeDataOp) Compare() bool {
	return op >= DATA_OP_TST && op <= DATA_OP_CMN
}

// Unary returns true for the operations that ignore rn.
func (op CodeDataOp) Unary() bool {
	return op == DATA_OP_MOV || op == DATA_OP_MVN
}

// CodeShift is a barrel shifter operation.
type CodeShift int

//go:generate go tool stringer -linecomment -type=CodeShift
const (
	SHIFT_LSL = CodeShift(0) // lsl
	SHIFT_LSR = CodeShift(1) // lsr
	SHIFT_ASR = CodeShift(2) // asr
	SHIFT_ROR = CodeShift(3) // ror
)

// Code is a single 32-bit instruction word.
type Code uint32

// makeCond creates an instruction word with the condition and class set.
func makeCond(cond CodeCond, class CodeClass, op uint32) Code {
	return Code((uint32(cond) << 28) | (uint32(class) << 25) | (op & 0x01ff_ffff))
}

// makeData packs the common data processing fields.
func makeData(op CodeDataOp, set_flags bool, rn, rd int) (word uint32) {
	word = (uint32(op) << 21) | (uint32(rn&0xf) << 16) | (uint32(rd&0xf) << 12)
	if set_flags {
		word |= 1 << 20
	}
	return
}

// MakeCodeDataImm creates a data processing instruction with a rotated
// 8-bit immediate operand: imm8 rotated right by 2 * rotate.
func MakeCodeDataImm(cond CodeCond, op CodeDataOp, set_flags bool, rn, rd int, rotate, imm8 uint32) Code {
	word := makeData(op, set_flags, rn, rd) | ((rotate & 0xf) << 8) | (imm8 & 0xff)
	return makeCond(cond, CLASS_DATA_IMM, word)
}

// MakeCodeDataReg creates a data processing instruction with a register
// operand shifted by an immediate amount.
func MakeCodeDataReg(cond CodeCond, op CodeDataOp, set_flags bool, rn, rd, rm int, shift CodeShift, amount uint32) Code {
	word := makeData(op, set_flags, rn, rd) | ((amount & 0x1f) << 7) | (uint32(shift) << 5) | uint32(rm&0xf)
	return makeCond(cond, CLASS_DATA_REG, word)
}

// MakeCodeDataRegShift creates a data processing instruction with a
// register operand shifted by the bottom byte of register rs.
func MakeCodeDataRegShift(cond CodeCond, op CodeDataOp, set_flags bool, rn, rd, rm int, shift CodeShift, rs int) Code {
	word := makeData(op, set_flags, rn, rd) | (uint32(rs&0xf) << 8) | (uint32(shift) << 5) | (1 << 4) | uint32(rm&0xf)
	return makeCond(cond, CLASS_DATA_REG, word)
}

// MakeCodeBranch creates a branch, optionally with link. 'offset' is in
// words, relative to the instruction address + 8.
func MakeCodeBranch(cond CodeCond, link bool, offset int32) Code {
	word := uint32(offset) & 0x00ff_ffff
	if link {
		word |= 1 << 24
	}
	return makeCond(cond, CLASS_BRANCH, word)
}

// Cond returns the condition code from the instruction word.
func (code Code) Cond() CodeCond {
	return CodeCond(bitfield.Bits(uint32(code), 28, 31))
}

// Class returns the instruction class from the instruction word.
func (code Code) Class() CodeClass {
	return CodeClass(bitfield.Bits(uint32(code), 25, 27))
}

// IsMultiply returns true for the class 0 words with bits 7 and 4 set,
// which encode multiplies and halfword transfers instead of data processing.
func (code Code) IsMultiply() bool {
	word := uint32(code)
	return code.Class() == CLASS_DATA_REG && bitfield.IsSet(word, 7) && bitfield.IsSet(word, 4)
}

// DataDecode decodes and returns the data processing operation, the set
// flags bit, the first operand register and the destination register.
func (code Code) DataDecode() (op CodeDataOp, set_flags bool, rn, rd int) {
	word := uint32(code)
	op = CodeDataOp(bitfield.Bits(word, 21, 24))
	set_flags = bitfield.IsSet(word, 20)
	rn = int(bitfield.Bits(word, 16, 19))
	rd = int(bitfield.Bits(word, 12, 15))
	return
}

// ImmediateDecode decodes and returns the rotate field and 8-bit immediate
// of a CLASS_DATA_IMM instruction.
func (code Code) ImmediateDecode() (rotate, imm8 uint32) {
	word := uint32(code)
	rotate = bitfield.Bits(word, 8, 11)
	imm8 = bitfield.Bits(word, 0, 7)
	return
}

// ShiftDecode decodes and returns the register operand of a CLASS_DATA_REG
// instruction: the register rm, the shift, and either the shift register rs
// (by_register set) or the 5-bit immediate shift amount.
func (code Code) ShiftDecode() (rm int, shift CodeShift, by_register bool, rs int, amount uint32) {
	word := uint32(code)
	rm = int(bitfield.Bits(word, 0, 3))
	by_register = bitfield.IsSet(word, 4)
	shift = CodeShift(bitfield.Bits(word, 5, 6))
	if by_register {
		rs = int(bitfield.Bits(word, 8, 11))
	} else {
		amount = bitfield.Bits(word, 7, 11)
	}
	return
}

// BranchDecode decodes and returns the link bit and the byte offset of a
// branch, relative to the instruction address + 8.
func (code Code) BranchDecode() (link bool, offset uint32) {
	word := uint32(code)
	link = bitfield.IsSet(word, 24)
	offset = bitfield.SignExtend(bitfield.Bits(word, 0, 23), 24) << 2
	return
}

// regName is the assembler name of a register.
func regName(reg int) string {
	switch reg {
	case REG_SP:
		return "sp"
	case REG_LR:
		return "lr"
	case REG_PC:
		return "pc"
	}
	return fmt.Sprintf("r%d", reg)
}

// operand2String renders the second operand of a data processing word.
func (code Code) operand2String() string {
	if code.Class() == CLASS_DATA_IMM {
		rotate, imm8 := code.ImmediateDecode()
		value, _ := Shift(imm8, SHIFT_ROR, rotate*2, false)
		return fmt.Sprintf("#%#x", value)
	}

	rm, shift, by_register, rs, amount := code.ShiftDecode()
	switch {
	case by_register:
		return fmt.Sprintf("%v, %v %v", regName(rm), shift, regName(rs))
	case shift == SHIFT_LSL && amount == 0:
		return regName(rm)
	case shift == SHIFT_ROR && amount == 0:
		return fmt.Sprintf("%v, rrx", regName(rm))
	case amount == 0:
		// lsr #0 and asr #0 encode a shift by 32.
		amount = 32
	}
	return fmt.Sprintf("%v, %v #%d", regName(rm), shift, amount)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	cond := code.Cond()
	suffix := ""
	if cond != COND_AL {
		suffix = cond.String()
	}

	switch code.Class() {
	case CLASS_DATA_REG, CLASS_DATA_IMM:
		if code.IsMultiply() {
			break
		}
		op, set_flags, rn, rd := code.DataDecode()
		s := ""
		if set_flags && !op.Compare() {
			s = "s"
		}
		operand := code.operand2String()
		switch {
		case op.Compare():
			out = fmt.Sprintf("%v%v %v, %v", op, suffix, regName(rn), operand)
		case op.Unary():
			out = fmt.Sprintf("%v%v%v %v, %v", op, suffix, s, regName(rd), operand)
		default:
			out = fmt.Sprintf("%v%v%v %v, %v, %v", op, suffix, s, regName(rd), regName(rn), operand)
		}
	case CLASS_BRANCH:
		link, offset := code.BranchDecode()
		mnemonic := "b"
		if link {
			mnemonic = "bl"
		}
		out = fmt.Sprintf("%v%v .%+d", mnemonic, suffix, int32(offset)+8)
	}

	if len(out) == 0 {
		out = fmt.Sprintf(".word 0x%08x", uint32(code))
	}

	return
}
