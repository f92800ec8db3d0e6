package cpu

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/ezrec/tribit/io"
)

// Statement is a line of assembled code with its source location.
type Statement struct {
	LineNo    int
	Ip        int
	Words     []string
	Code      Code
	LinkLabel string
}

// Program is an immutable instruction tape.
type Program struct {
	tape    []uint8
	Listing []Statement // Assembler listing, if assembled from source.
}

// Debug locates the source statement for an instruction pointer.
type Debug struct {
	*Statement
	Index int
}

// NewProgram validates and copies a tape of 3-bit values.
func NewProgram(tape []uint8) (prog *Program, err error) {
	if len(tape)%2 != 0 {
		err = ErrProgramOdd
		return
	}

	for n, value := range tape {
		if value > 7 {
			err = fmt.Errorf("%w: [%d] = %d", ErrProgramValue, n, value)
			return
		}
	}

	prog = &Program{tape: slices.Clone(tape)}

	for ip, code := range prog.Codes() {
		if !code.Valid() {
			err = fmt.Errorf("ip %d: %w", ip, errors.Join(ErrOpcode(code), ErrComboReserved))
			prog = nil
			return
		}
	}

	return
}

// MustProgram is NewProgram for known-good tapes. It panics on error.
func MustProgram(tape ...uint8) *Program {
	prog, err := NewProgram(tape)
	if err != nil {
		panic(err)
	}
	return prog
}

// Len returns the length of the tape.
func (prog *Program) Len() int {
	return len(prog.tape)
}

// Tape returns a copy of the tape.
func (prog *Program) Tape() []uint8 {
	return slices.Clone(prog.tape)
}

// Code decodes the instruction at ip.
// ok is false if there is no complete pair at ip.
func (prog *Program) Code(ip int) (code Code, ok bool) {
	if ip < 0 || ip >= len(prog.tape)-1 {
		return
	}

	code = Code{Op: CodeOp(prog.tape[ip]), Operand: prog.tape[ip+1]}
	ok = true
	return
}

// Codes iterates the even-aligned instructions of the program.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(ip int, code Code) bool) {
		for ip := 0; ip+1 < len(prog.tape); ip += 2 {
			code, _ := prog.Code(ip)
			if !yield(ip, code) {
				return
			}
		}
	}
}

// Debug returns the assembler statement that generated ip, if any.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, st := range prog.Listing {
		if ip >= st.Ip && ip < st.Ip+2 {
			dbg = Debug{
				Statement: &prog.Listing[n],
				Index:     ip - st.Ip,
			}
			break
		}
	}

	return
}

// String returns the tape as comma separated digits.
func (prog *Program) String() string {
	return io.FormatDigits(prog.tape)
}

// Disassemble returns one mnemonic line per aligned instruction.
func (prog *Program) Disassemble() (lines []string) {
	for ip, code := range prog.Codes() {
		lines = append(lines, fmt.Sprintf("%02d: %v", ip, code))
	}

	return
}
