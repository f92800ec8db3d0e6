// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

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

	"github.com/ezrec/tribit/internal"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"IP":     "0",
}

// Assembler is a single pass assembler for the 3-bit computer.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to tape offsets.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// opMap maps mnemonics to opcodes.
var opMap = map[string]CodeOp{
	"adv": OP_ADV,
	"bxl": OP_BXL,
	"bst": OP_BST,
	"jnz": OP_JNZ,
	"bxc": OP_BXC,
	"out": OP_OUT,
	"bdv": OP_BDV,
	"cdv": OP_CDV,
}

// comboMap maps register names to combo operands.
var comboMap = map[string]CodeCombo{
	"a": COMBO_A,
	"b": COMBO_B,
	"c": COMBO_C,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
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
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// parseLine parses a single line into words, handling
// expressions, equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)
	asm.Equate["IP"] = fmt.Sprintf("%v", asm.currentIp())

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

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
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelSyntax
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
	}

	return
}

// currentIp gets the tape offset of the next statement.
func (asm *Assembler) currentIp() int {
	return len(asm.Statement) * 2
}

// operandOf decodes an operand word for an opcode.
func (asm *Assembler) operandOf(op CodeOp, word string) (operand uint8, label string, err error) {
	if op.Combo() {
		combo, ok := comboMap[strings.ToLower(word)]
		if ok {
			operand = uint8(combo)
			return
		}
	}

	value, err := asm.valueOf(word)
	if err != nil {
		if op == OP_JNZ && reLabel.MatchString(word) {
			// Resolved during linking.
			label = word
			err = nil
			return
		}
		err = fmt.Errorf("%w: %w", ErrOperandInvalid, err)
		return
	}

	if value < 0 || value > 7 {
		err = ErrOperandRange
		return
	}

	if op.Combo() && CodeCombo(value) == COMBO_RESERVED {
		err = ErrComboReserved
		return
	}

	operand = uint8(value)
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op, ok := opMap[strings.ToLower(words[0])]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	st := Statement{
		LineNo: lineno,
		Ip:     asm.currentIp(),
		Words:  slices.Clone(words),
		Code:   Code{Op: op},
	}

	switch {
	case len(args) == 1:
		st.Code.Operand, st.LinkLabel, err = asm.operandOf(op, args[0])
		if err != nil {
			return
		}
	case op == OP_BXC:
		// Operand is ignored.
	default:
		err = ErrOperandMissing
		return
	}

	if asm.Verbose {
		log.Printf("%02d: %v", st.Ip, st.Code)
	}

	asm.Statement = append(asm.Statement, st)

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Statement = asm.Statement[:0]
	asm.Equate = maps.Collect(internal.Concat2(maps.All(sysEquate), maps.All(asm.predefine)))

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		ip, ok := asm.Label[st.LinkLabel]
		if !ok {
			lineno, line = st.LineNo, strings.Join(st.Words, " ")
			err = ErrLabelMissing(st.LinkLabel)
			return
		}
		if ip > 7 {
			lineno, line = st.LineNo, strings.Join(st.Words, " ")
			err = ErrOperandRange
			return
		}
		st.Code.Operand = uint8(ip)
	}

	tape := make([]uint8, 0, len(asm.Statement)*2)
	for _, st := range asm.Statement {
		tape = append(tape, uint8(st.Code.Op), st.Code.Operand)
	}

	prog, err = NewProgram(tape)
	if err != nil {
		return
	}
	prog.Listing = slices.Clone(asm.Statement)

	return
}
