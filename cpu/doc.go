// Package cpu implements the 3-bit computer and its assembler.
//
// The CPU has three signed 64-bit registers (A, B, C), an instruction pointer
// into a read-only tape of 3-bit values, and a single output channel that
// receives one octal digit per OUT instruction. Instructions are
// (opcode, operand) pairs; there is no halt instruction, the machine stops
// when the instruction pointer leaves the tape.
//
// The assembler accepts the mnemonic form of the eight instructions,
// supporting labels, equates, and compile-time expression evaluation.
package cpu
