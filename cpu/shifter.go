package cpu

import (
	"math/bits"
)

// Shift applies the barrel shifter to 'value' with the register-specified
// shift semantics: an amount of zero leaves the value and carry unchanged,
// and amounts of 32 or more saturate.
//
// The immediate-shift encodings for lsr #32, asr #32 and rrx are mapped onto
// this by the data processing operand decoder.
func Shift(value uint32, shift CodeShift, amount uint32, carry_in bool) (result uint32, carry_out bool) {
	if amount == 0 {
		return value, carry_in
	}

	switch shift {
	case SHIFT_LSL:
		switch {
		case amount < 32:
			result = value << amount
			carry_out = (value>>(32-amount))&1 == 1
		case amount == 32:
			carry_out = value&1 == 1
		}
	case SHIFT_LSR:
		switch {
		case amount < 32:
			result = value >> amount
			carry_out = (value>>(amount-1))&1 == 1
		case amount == 32:
			carry_out = value>>31 == 1
		}
	case SHIFT_ASR:
		if amount >= 32 {
			amount = 31
			carry_out = value>>31 == 1
			result = uint32(int32(value) >> amount)
			break
		}
		result = uint32(int32(value) >> amount)
		carry_out = (value>>(amount-1))&1 == 1
	case SHIFT_ROR:
		result = bits.RotateLeft32(value, -int(amount&31))
		carry_out = result>>31 == 1
	default:
		panic("invalid shift")
	}

	return
}

// RotateRightExtend rotates 'value' right by one through the carry.
func RotateRightExtend(value uint32, carry_in bool) (result uint32, carry_out bool) {
	result = value >> 1
	if carry_in {
		result |= 1 << 31
	}
	carry_out = value&1 == 1
	return
}

// EncodeImmediate finds the rotated 8-bit immediate encoding of 'value'.
// The encoding with the smallest rotation is chosen.
func EncodeImmediate(value uint32) (rotate, imm8 uint32, ok bool) {
	for rotate = 0; rotate < 16; rotate++ {
		imm := bits.RotateLeft32(value, int(rotate*2))
		if imm <= 0xff {
			return rotate, imm, true
		}
	}
	return 0, 0, false
}
