package cpu

import (
	"errors"

	"github.com/ezrec/tribit/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpEmpty       = errors.New(f("ip empty"))
	ErrTickLimit     = errors.New(f("tick limit exceeded"))
	ErrChannelNone   = errors.New(f("no output channel"))
	ErrShiftRange    = errors.New(f("shift out of range"))
	ErrComboReserved = errors.New(f("combo operand 7 is reserved"))

	// Program errors
	ErrProgramOdd   = errors.New(f("program has a dangling opcode"))
	ErrProgramValue = errors.New(f("program value out of range"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelSyntax     = errors.New(f("label syntax"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandInvalid  = errors.New(f("operand invalid"))
	ErrOperandRange    = errors.New(f("operand out of range"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad instruction %v", Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
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

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
