package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProgram(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		tape []uint8
		err  error
	}){
		{"empty", []uint8{}, nil},
		{"quine", []uint8{0, 3, 5, 4, 3, 0}, nil},
		{"odd", []uint8{0, 3, 5}, ErrProgramOdd},
		{"range", []uint8{0, 8}, ErrProgramValue},
		{"combo_reserved", []uint8{5, 7}, ErrComboReserved},
		{"literal_seven", []uint8{1, 7, 3, 7}, nil},
	}

	for _, entry := range table {
		prog, err := NewProgram(entry.tape)
		if entry.err == nil {
			assert.NoError(err, entry.name)
			assert.Equal(len(entry.tape), prog.Len(), entry.name)
		} else {
			assert.ErrorIs(err, entry.err, entry.name)
			assert.Nil(prog, entry.name)
		}
	}
}

func TestProgramImmutable(t *testing.T) {
	assert := assert.New(t)

	tape := []uint8{0, 3, 5, 4, 3, 0}
	prog := MustProgram(tape...)

	tape[0] = 7
	assert.Equal([]uint8{0, 3, 5, 4, 3, 0}, prog.Tape())

	copied := prog.Tape()
	copied[1] = 1
	assert.Equal([]uint8{0, 3, 5, 4, 3, 0}, prog.Tape())
}

func TestProgramCode(t *testing.T) {
	assert := assert.New(t)

	prog := MustProgram(0, 3, 5, 4, 3, 0)

	code, ok := prog.Code(0)
	assert.True(ok)
	assert.Equal(Code{Op: OP_ADV, Operand: 3}, code)

	// Odd offsets decode across pairs, as after a jnz to an odd target.
	code, ok = prog.Code(1)
	assert.True(ok)
	assert.Equal(Code{Op: OP_JNZ, Operand: 5}, code)

	_, ok = prog.Code(5)
	assert.False(ok)
	_, ok = prog.Code(-1)
	assert.False(ok)

	var ips []int
	for ip := range prog.Codes() {
		ips = append(ips, ip)
	}
	assert.Equal([]int{0, 2, 4}, ips)
}

func TestProgramString(t *testing.T) {
	assert := assert.New(t)

	prog := MustProgram(0, 3, 5, 4, 3, 0)
	assert.Equal("0,3,5,4,3,0", prog.String())
	assert.Equal("", MustProgram().String())

	assert.Equal([]string{
		"00: adv 3",
		"02: out a",
		"04: jnz 0",
	}, prog.Disassemble())
}

func TestProgramMustPanics(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() { MustProgram(1) })
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := MustProgram(0, 3, 5, 4, 3, 0)
	prog.Listing = []Statement{
		{LineNo: 2, Ip: 0, Words: []string{"adv", "3"}, Code: Code{OP_ADV, 3}},
		{LineNo: 3, Ip: 2, Words: []string{"out", "a"}, Code: Code{OP_OUT, 4}},
		{LineNo: 5, Ip: 4, Words: []string{"jnz", "loop"}, Code: Code{OP_JNZ, 0}, LinkLabel: "loop"},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Statement)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(3)
	assert.NotNil(dbg.Statement)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(4)
	assert.Equal("loop", dbg.LinkLabel)

	dbg = prog.Debug(6)
	assert.Nil(dbg.Statement)
}
