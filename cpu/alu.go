// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"math/bits"
)

// readOperand reads a register as an operand. The program counter reads
// as the instruction address + 8, or + 12 when the instruction also
// shifts by a register.
func (cpu *Cpu) readOperand(pc uint32, reg int, by_register bool) uint32 {
	if reg == REG_PC {
		if by_register {
			return pc + 12
		}
		return pc + 8
	}
	return cpu.Read(reg)
}

// operand2 computes the second data processing operand and the shifter
// carry out.
func (cpu *Cpu) operand2(pc uint32, code Code) (value uint32, carry bool) {
	carry = cpu.Flag(FLAG_C)

	if code.Class() == CLASS_DATA_IMM {
		rotate, imm8 := code.ImmediateDecode()
		return Shift(imm8, SHIFT_ROR, rotate*2, carry)
	}

	rm, shift, by_register, rs, amount := code.ShiftDecode()
	value = cpu.readOperand(pc, rm, by_register)

	if by_register {
		amount = cpu.readOperand(pc, rs, false) & 0xff
		return Shift(value, shift, amount, carry)
	}

	if amount == 0 {
		switch shift {
		case SHIFT_LSR, SHIFT_ASR:
			amount = 32
		case SHIFT_ROR:
			return RotateRightExtend(value, carry)
		}
	}

	return Shift(value, shift, amount, carry)
}

// addWithCarry returns a + b + carry_in, with the carry and signed overflow.
func addWithCarry(a, b uint32, carry_in bool) (result uint32, carry, overflow bool) {
	var cin uint32
	if carry_in {
		cin = 1
	}
	result, cout := bits.Add32(a, b, cin)
	carry = cout != 0
	overflow = ((a^result)&(b^result))>>31 == 1
	return
}

// executeData executes a data processing instruction.
// Nothing is modified when an error is returned.
func (cpu *Cpu) executeData(pc uint32, code Code) (err error) {
	if code.IsMultiply() {
		err = ErrMultiplyUnimplemented
		return
	}

	op, set_flags, rn, rd := code.DataDecode()

	switch op {
	case DATA_OP_ADD, DATA_OP_ADC, DATA_OP_SUB, DATA_OP_SBC, DATA_OP_CMP, DATA_OP_MOV:
	default:
		err = ErrDataOpUnimplemented
		return
	}

	if op == DATA_OP_CMP {
		set_flags = true
	} else if set_flags && rd == REG_PC {
		err = ErrStatusRestore
		return
	}

	op2, shift_carry := cpu.operand2(pc, code)

	_, _, by_register, _, _ := code.ShiftDecode()
	by_register = by_register && code.Class() == CLASS_DATA_REG
	a := cpu.readOperand(pc, rn, by_register)

	var result uint32
	var carry, overflow bool
	logical := false

	switch op {
	case DATA_OP_ADD:
		result, carry, overflow = addWithCarry(a, op2, false)
	case DATA_OP_ADC:
		result, carry, overflow = addWithCarry(a, op2, cpu.Flag(FLAG_C))
	case DATA_OP_SUB, DATA_OP_CMP:
		result, carry, overflow = addWithCarry(a, ^op2, true)
	case DATA_OP_SBC:
		result, carry, overflow = addWithCarry(a, ^op2, cpu.Flag(FLAG_C))
	case DATA_OP_MOV:
		result, carry = op2, shift_carry
		logical = true
	}

	if !op.Compare() {
		cpu.setRegister(rd, result)
	}

	if set_flags {
		cpu.SetFlag(FLAG_N, result>>31 == 1)
		cpu.SetFlag(FLAG_Z, result == 0)
		cpu.SetFlag(FLAG_C, carry)
		if !logical {
			cpu.SetFlag(FLAG_V, overflow)
		}
	}

	return
}
