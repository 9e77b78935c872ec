// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the ARM data processing
// and branch instructions.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	start   uint32 // Address of the first opcode, unless moved by .org
	address uint32 // Address of the next opcode.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register numbers.
var regMap = map[string]int{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	"r4": 4, "r5": 5, "r6": 6, "r7": 7,
	"r8": 8, "r9": 9, "r10": 10, "r11": 11,
	"r12": 12, "r13": 13, "r14": 14, "r15": 15,
	"sp": REG_SP,
	"lr": REG_LR,
	"pc": REG_PC,
}

// condMap maps condition suffixes, including the hs and lo aliases.
var condMap = map[string]CodeCond{
	"eq": COND_EQ, "ne": COND_NE,
	"cs": COND_CS, "hs": COND_CS,
	"cc": COND_CC, "lo": COND_CC,
	"mi": COND_MI, "pl": COND_PL,
	"vs": COND_VS, "vc": COND_VC,
	"hi": COND_HI, "ls": COND_LS,
	"ge": COND_GE, "lt": COND_LT,
	"gt": COND_GT, "le": COND_LE,
	"al": COND_AL, "nv": COND_NV,
}

// dataMap maps data processing mnemonics.
var dataMap = map[string]CodeDataOp{
	"and": DATA_OP_AND,
	"eor": DATA_OP_EOR,
	"sub": DATA_OP_SUB,
	"rsb": DATA_OP_RSB,
	"add": DATA_OP_ADD,
	"adc": DATA_OP_ADC,
	"sbc": DATA_OP_SBC,
	"rsc": DATA_OP_RSC,
	"tst": DATA_OP_TST,
	"teq": DATA_OP_TEQ,
	"cmp": DATA_OP_CMP,
	"cmn": DATA_OP_CMN,
	"orr": DATA_OP_ORR,
	"mov": DATA_OP_MOV,
	"bic": DATA_OP_BIC,
	"mvn": DATA_OP_MVN,
}

// shiftMap maps shift names.
var shiftMap = map[string]CodeShift{
	"lsl": SHIFT_LSL,
	"asl": SHIFT_LSL,
	"lsr": SHIFT_LSR,
	"asr": SHIFT_ASR,
	"ror": SHIFT_ROR,
}

// immAlternate is the operation that can encode the complement (or
// negation) of an immediate for another.
var immAlternate = map[CodeDataOp]struct {
	op     CodeDataOp
	negate bool
}{
	DATA_OP_MOV: {DATA_OP_MVN, false},
	DATA_OP_MVN: {DATA_OP_MOV, false},
	DATA_OP_AND: {DATA_OP_BIC, false},
	DATA_OP_BIC: {DATA_OP_AND, false},
	DATA_OP_ADC: {DATA_OP_SBC, false},
	DATA_OP_SBC: {DATA_OP_ADC, false},
	DATA_OP_ADD: {DATA_OP_SUB, true},
	DATA_OP_SUB: {DATA_OP_ADD, true},
	DATA_OP_CMP: {DATA_OP_CMN, true},
	DATA_OP_CMN: {DATA_OP_CMP, true},
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	word = strings.TrimPrefix(word, "#")
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 1 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		value = uint32(v64)
	}

	if invert {
		value = ^value
	}

	return
}

// register returns the register number of a word.
func (asm *Assembler) register(word string) (reg int, err error) {
	reg, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// isLabel returns true if the word looks like a label rather than a value.
func isLabel(word string) bool {
	c := word[0]
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeUint64(uint64(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// splitWords splits a line on spaces and commas.
func splitWords(line string) []string {
	return strings.Fields(strings.ReplaceAll(line, ",", " "))
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next, also as an immediate.
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
			continue
		}
		if strings.HasPrefix(word, "#") {
			equate, ok = asm.Equate[word[1:]]
			if ok {
				words[n] = "#" + equate
			}
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.address
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program containing opcodes.
// The program starts at the reset address, unless moved by .org
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	maps.Copy(asm.Equate, asm.predefine)
	asm.start = RESET_PC
	asm.address = asm.start

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of branch labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		target, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if len(op.Codes) != 1 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		var offset int32
		offset, err = branchOffset(op.Address, target)
		if err != nil {
			return
		}
		op.Codes[0] |= Code(uint32(offset) & 0x00ff_ffff)
	}

	prog = &Program{
		Origin:  asm.start,
		Opcodes: slices.Clone(asm.Opcode),
	}
	if len(prog.Opcodes) > 0 {
		prog.Origin = prog.Opcodes[0].Address
	}

	return
}

// branchOffset returns the word offset of a branch at 'address' to 'target'.
func branchOffset(address, target uint32) (offset int32, err error) {
	delta := int64(target) - int64(address) - 8
	if delta&3 != 0 || delta < -(1<<25) || delta >= (1<<25) {
		err = ErrBranchRange
		return
	}
	offset = int32(delta >> 2)
	return
}

// parseMnemonic splits a mnemonic into its base, condition and set flags
// suffix. The suffixes may be in either order.
func parseMnemonic(word string) (base string, cond CodeCond, set_flags bool, ok bool) {
	word = strings.ToLower(word)

	suffix := func(rest string, allow_s bool) bool {
		if rest == "" {
			cond = COND_AL
			return true
		}
		if c, is_cond := condMap[rest]; is_cond {
			cond = c
			return true
		}
		if !allow_s {
			return false
		}
		if strings.HasSuffix(rest, "s") {
			prefix := rest[:len(rest)-1]
			if c, is_cond := condMap[prefix]; is_cond || prefix == "" {
				cond = COND_AL
				if is_cond {
					cond = c
				}
				set_flags = true
				return true
			}
		}
		if strings.HasPrefix(rest, "s") {
			if c, is_cond := condMap[rest[1:]]; is_cond {
				cond = c
				set_flags = true
				return true
			}
		}
		return false
	}

	if len(word) >= 3 {
		if _, is_data := dataMap[word[:3]]; is_data && suffix(word[3:], true) {
			return word[:3], cond, set_flags, true
		}
	}

	for _, branch := range []string{"bl", "b"} {
		if strings.HasPrefix(word, branch) && suffix(word[len(branch):], false) {
			return branch, cond, false, true
		}
	}

	return
}

// immediate encodes an immediate operand, switching to the alternate
// operation if only its complement or negation is encodable.
func immediate(op CodeDataOp, value uint32) (alt CodeDataOp, rotate, imm8 uint32, err error) {
	rotate, imm8, ok := EncodeImmediate(value)
	if ok {
		return op, rotate, imm8, nil
	}

	other, has := immAlternate[op]
	if has {
		alt_value := ^value
		if other.negate {
			alt_value = -value
		}
		rotate, imm8, ok = EncodeImmediate(alt_value)
		if ok {
			return other.op, rotate, imm8, nil
		}
	}

	err = ErrImmediate(value)
	return
}

// shiftAmount validates an immediate shift amount, and returns its encoding.
func shiftAmount(shift CodeShift, amount uint32) (out CodeShift, encoded uint32, err error) {
	out = shift
	switch {
	case amount == 0:
		// Any shift by zero is the identity.
		out = SHIFT_LSL
	case shift == SHIFT_LSL && amount < 32:
		encoded = amount
	case (shift == SHIFT_LSR || shift == SHIFT_ASR) && amount <= 32:
		encoded = amount & 0x1f
	case shift == SHIFT_ROR && amount < 32:
		encoded = amount
	default:
		err = ErrShiftRange
	}
	return
}

// dataCode assembles the second operand words of a data processing
// instruction into an instruction word.
func (asm *Assembler) dataCode(cond CodeCond, op CodeDataOp, set_flags bool, rn, rd int, words []string) (code Code, err error) {
	if len(words) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	rm, err := asm.register(words[0])
	if err != nil {
		// Immediate operand
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var value, rotate, imm8 uint32
		value, err = asm.valueOf(words[0])
		if err != nil {
			return
		}
		op, rotate, imm8, err = immediate(op, value)
		if err != nil {
			return
		}
		code = MakeCodeDataImm(cond, op, set_flags, rn, rd, rotate, imm8)
		return
	}

	switch len(words) {
	case 1:
		code = MakeCodeDataReg(cond, op, set_flags, rn, rd, rm, SHIFT_LSL, 0)
	case 2:
		if strings.ToLower(words[1]) != "rrx" {
			err = ErrShiftInvalid
			return
		}
		code = MakeCodeDataReg(cond, op, set_flags, rn, rd, rm, SHIFT_ROR, 0)
	case 3:
		shift, ok := shiftMap[strings.ToLower(words[1])]
		if !ok {
			err = ErrShiftInvalid
			return
		}
		rs, rs_err := asm.register(words[2])
		if rs_err == nil {
			code = MakeCodeDataRegShift(cond, op, set_flags, rn, rd, rm, shift, rs)
			return
		}
		var amount uint32
		amount, err = asm.valueOf(words[2])
		if err != nil {
			return
		}
		shift, amount, err = shiftAmount(shift, amount)
		if err != nil {
			return
		}
		code = MakeCodeDataReg(cond, op, set_flags, rn, rd, rm, shift, amount)
	default:
		err = ErrOpcodeExtraArgs
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Address: asm.address, Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
		asm.address += uint32(4 * len(codes))
	}()

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var address uint32
		address, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if address&3 != 0 {
			err = ErrOrgAlignment
			return
		}
		if address < asm.address && len(asm.Opcode) > 0 {
			err = ErrOrgBackwards
			return
		}
		if len(asm.Opcode) == 0 {
			asm.start = address
		}
		asm.address = address
		return
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			codes = append(codes, Code(value))
		}
		return
	}

	base, cond, set_flags, ok := parseMnemonic(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}
	args := words[1:]

	switch base {
	case "b", "bl":
		if len(args) < 1 {
			err = ErrTargetMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		link := base == "bl"
		if isLabel(args[0]) {
			codes = append(codes, MakeCodeBranch(cond, link, 0))
			label = args[0]
			return
		}
		var target uint32
		target, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		var offset int32
		offset, err = branchOffset(asm.address, target)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeBranch(cond, link, offset))
	default:
		op := dataMap[base]
		var rn, rd int
		operands := 2
		if !op.Compare() && !op.Unary() {
			operands = 3
		}
		if len(args) < operands {
			err = ErrOpcodeValueMissing
			return
		}
		regs := make([]int, operands-1)
		for n := range regs {
			regs[n], err = asm.register(args[n])
			if err != nil {
				return
			}
		}
		switch {
		case op.Compare():
			rn = regs[0]
			set_flags = true
		case op.Unary():
			rd = regs[0]
		default:
			rd, rn = regs[0], regs[1]
		}
		var code Code
		code, err = asm.dataCode(cond, op, set_flags, rn, rd, args[operands-1:])
		if err != nil {
			return
		}
		codes = append(codes, code)
	}

	return
}
