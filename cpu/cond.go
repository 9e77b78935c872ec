package cpu

import (
	"github.com/ezrec/gbacore/bitfield"
)

// Passed returns true if the condition holds for the flags in 'cpsr'.
func (cond CodeCond) Passed(cpsr uint32) bool {
	n := bitfield.IsSet(cpsr, uint(FLAG_N))
	z := bitfield.IsSet(cpsr, uint(FLAG_Z))
	c := bitfield.IsSet(cpsr, uint(FLAG_C))
	v := bitfield.IsSet(cpsr, uint(FLAG_V))

	switch cond {
	case COND_EQ:
		return z
	case COND_NE:
		return !z
	case COND_CS:
		return c
	case COND_CC:
		return !c
	case COND_MI:
		return n
	case COND_PL:
		return !n
	case COND_VS:
		return v
	case COND_VC:
		return !v
	case COND_HI:
		return c && !z
	case COND_LS:
		return !c || z
	case COND_GE:
		return n == v
	case COND_LT:
		return n != v
	case COND_GT:
		return !z && n == v
	case COND_LE:
		return z || n != v
	case COND_AL:
		return true
	}

	// COND_NV never executes.
	return false
}
