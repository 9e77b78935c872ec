// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/gbacore/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrClassUnimplemented    = errors.New(f("instruction class unimplemented"))
	ErrDataOpUnimplemented   = errors.New(f("data operation unimplemented"))
	ErrMultiplyUnimplemented = errors.New(f("multiply or halfword transfer unimplemented"))
	ErrStatusRestore         = errors.New(f("status restore unimplemented"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrOrgBackwards       = errors.New(f(".org moves backwards"))
	ErrOrgAlignment       = errors.New(f(".org unaligned"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("opcode missing"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrShiftInvalid       = errors.New(f("shift invalid"))
	ErrShiftRange         = errors.New(f("shift amount out of range"))
	ErrTargetMissing      = errors.New(f("target missing"))
	ErrBranchRange        = errors.New(f("branch target out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrUnimplemented is returned when the processor meets an instruction it
// does not implement. The processor state is left as it was before the
// instruction.
type ErrUnimplemented struct {
	Address uint32 // Address the instruction was fetched from.
	Code    Code   // Instruction word.
}

func (eu ErrUnimplemented) Error() string {
	return f("unimplemented instruction 0x%08x at 0x%08x (%v)", uint32(eu.Code), eu.Address, eu.Code.String())
}

func (eu ErrUnimplemented) Is(err error) (ok bool) {
	_, ok = err.(ErrUnimplemented)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrImmediate is returned when a value has no rotated 8-bit encoding.
type ErrImmediate uint32

func (ei ErrImmediate) Error() string {
	return f("%#x is not an encodable immediate", uint32(ei))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
