// Package loader reads the textual machine description:
//
//	Register A: 729
//	Register B: 0
//	Register C: 0
//
//	Program: 0,1,5,4,3,0
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/tribit/cpu"
	"github.com/ezrec/tribit/translate"
)

var f = translate.From

var (
	ErrRegisterUnknown = errors.New(f("unrecognized register"))
	ErrEntrySyntax     = errors.New(f("expected 'name: value'"))
	ErrProgramMissing  = errors.New(f("program missing"))
)

type ErrNumber string

func (err ErrNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrLine indicates the location of a load error.
type ErrLine struct {
	LineNo int
	Err    error
}

func (err *ErrLine) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}

// Machine is a loaded machine description.
type Machine struct {
	Registers cpu.Registers
	Program   *cpu.Program
}

var registerMap = map[string]int{
	"A": cpu.REG_A,
	"B": cpu.REG_B,
	"C": cpu.REG_C,
}

// Load parses a machine description. Registers not mentioned are zero.
// Unknown entries are logged and ignored.
func Load(input io.Reader) (machine *Machine, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	var regs cpu.Registers
	var prog *cpu.Program

	defer func() {
		if err != nil && lineno > 0 {
			err = &ErrLine{LineNo: lineno, Err: err}
		}
	}()

	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		entry, value, ok := strings.Cut(line, ":")
		if !ok {
			err = ErrEntrySyntax
			return
		}
		entry = strings.TrimSpace(entry)
		value = strings.TrimSpace(value)

		switch {
		case strings.HasPrefix(entry, "Register"):
			name := strings.TrimSpace(strings.TrimPrefix(entry, "Register"))
			reg, ok := registerMap[name]
			if !ok {
				err = fmt.Errorf("%w: %q", ErrRegisterUnknown, name)
				return
			}
			regs[reg], err = strconv.ParseInt(value, 10, 64)
			if err != nil {
				err = ErrNumber(value)
				return
			}
		case entry == "Program":
			prog, err = ParseProgram(value)
			if err != nil {
				return
			}
		default:
			log.Printf("loader: ignoring entry: %v", entry)
		}
	}

	lineno = 0

	err = scanner.Err()
	if err != nil {
		return
	}

	if prog == nil {
		err = ErrProgramMissing
		return
	}

	machine = &Machine{
		Registers: regs,
		Program:   prog,
	}

	return
}

// ParseProgram parses a comma separated tape.
func ParseProgram(text string) (prog *cpu.Program, err error) {
	var tape []uint8
	for _, word := range strings.Split(text, ",") {
		word = strings.TrimSpace(word)
		var value uint64
		value, err = strconv.ParseUint(word, 10, 8)
		if err != nil {
			err = ErrNumber(word)
			return
		}
		tape = append(tape, uint8(value))
	}

	return cpu.NewProgram(tape)
}
