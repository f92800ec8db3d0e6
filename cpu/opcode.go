package cpu

import (
	"fmt"
)

// CodeOp is an instruction opcode.
type CodeOp uint8

const (
	OP_ADV = CodeOp(0) // adv: A = A / 2^combo
	OP_BXL = CodeOp(1) // bxl: B = B ^ literal
	OP_BST = CodeOp(2) // bst: B = combo % 8
	OP_JNZ = CodeOp(3) // jnz: if A != 0, IP = literal
	OP_BXC = CodeOp(4) // bxc: B = B ^ C
	OP_OUT = CodeOp(5) // out: emit combo % 8
	OP_BDV = CodeOp(6) // bdv: B = A / 2^combo
	OP_CDV = CodeOp(7) // cdv: C = A / 2^combo
)

var _codeOpName = [...]string{
	OP_ADV: "adv",
	OP_BXL: "bxl",
	OP_BST: "bst",
	OP_JNZ: "jnz",
	OP_BXC: "bxc",
	OP_OUT: "out",
	OP_BDV: "bdv",
	OP_CDV: "cdv",
}

func (op CodeOp) String() string {
	if int(op) < len(_codeOpName) {
		return _codeOpName[op]
	}
	return fmt.Sprintf("CodeOp(%d)", uint8(op))
}

// Combo returns true if the opcode resolves its operand as a combo operand.
func (op CodeOp) Combo() bool {
	switch op {
	case OP_ADV, OP_BST, OP_OUT, OP_BDV, OP_CDV:
		return true
	}
	return false
}

// CodeCombo is a combo operand.
type CodeCombo uint8

const (
	COMBO_0        = CodeCombo(0) // 0
	COMBO_1        = CodeCombo(1) // 1
	COMBO_2        = CodeCombo(2) // 2
	COMBO_3        = CodeCombo(3) // 3
	COMBO_A        = CodeCombo(4) // a
	COMBO_B        = CodeCombo(5) // b
	COMBO_C        = CodeCombo(6) // c
	COMBO_RESERVED = CodeCombo(7) // reserved
)

var _codeComboName = [...]string{"0", "1", "2", "3", "a", "b", "c", "reserved"}

func (combo CodeCombo) String() string {
	if int(combo) < len(_codeComboName) {
		return _codeComboName[combo]
	}
	return fmt.Sprintf("CodeCombo(%d)", uint8(combo))
}

// Register index.
const (
	REG_A = 0
	REG_B = 1
	REG_C = 2
)

// Registers is the A, B, C register bank.
type Registers [3]int64

// Code is a single decoded (opcode, operand) pair.
type Code struct {
	Op      CodeOp
	Operand uint8
}

// Combo returns true if the operand of this instruction is a combo operand.
func (code Code) Combo() bool {
	return code.Op.Combo()
}

// Valid returns true if the instruction can be decoded.
func (code Code) Valid() bool {
	if code.Op > OP_CDV || code.Operand > 7 {
		return false
	}

	return !code.Combo() || CodeCombo(code.Operand) != COMBO_RESERVED
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	switch {
	case code.Op == OP_BXC && code.Operand == 0:
		// Operand is ignored.
		return code.Op.String()
	case code.Combo():
		return fmt.Sprintf("%v %v", code.Op, CodeCombo(code.Operand))
	default:
		return fmt.Sprintf("%v %d", code.Op, code.Operand)
	}
}
