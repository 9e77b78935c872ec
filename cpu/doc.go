// Package cpu implements the processor core and assembler of the handheld.
//
// The processor executes 32-bit ARM instruction words: a 4-bit condition
// field gates every instruction on the N/Z/C/V status flags, and the word
// is then routed by its class to the data processing ALU (with its barrel
// shifter) or the branch unit. Register 15 is the program counter; writing
// it is a control flow transfer.
//
// Only a subset of the instruction set is implemented. Anything else
// stops the processor with an *ErrUnimplemented rather than guessing.
//
// The assembler accepts a small ARM assembly language for that subset,
// with labels, equates, macros, and compile-time $(...) expressions.
package cpu
