package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/tribit/cpu"
	"github.com/ezrec/tribit/io"
)

var quine = cpu.MustProgram(0, 3, 5, 4, 3, 0)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(quine)

	assert.False(emu.Verbose)
	assert.Equal(0, emu.TickLimit)
	assert.Same(quine, emu.Program)
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(quine)

	output, err := emu.Run(cpu.Registers{2024, 0, 0})
	assert.NoError(err)
	assert.Equal([]uint8{5, 7, 3, 0}, output)

	// Each run starts from its own state.
	again, err := emu.Run(cpu.Registers{2024, 0, 0})
	assert.NoError(err)
	assert.Equal(output, again)

	output, err = emu.Run(cpu.Registers{117440, 0, 0})
	assert.NoError(err)
	assert.Equal(quine.Tape(), output)
}

func TestEmulatorExample(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MustProgram(0, 1, 5, 4, 3, 0))

	output, err := emu.Run(cpu.Registers{729, 0, 0})
	assert.NoError(err)
	assert.Equal("4,6,3,5,6,3,5,2,1,0", io.FormatDigits(output))
}

func TestEmulatorVerify(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(quine)
	target := quine.Tape()

	table := [](struct {
		name    string
		a       int64
		verdict Verdict
		output  []uint8
	}){
		{"match", 117440, VERDICT_MATCH, target},
		{"match_low_bits", 117447, VERDICT_MATCH, target},
		{"short", 0, VERDICT_SHORT, []uint8{0}},
		{"mismatch", 2024, VERDICT_MISMATCH, nil},
		{"mismatch_late", 117440 * 8, VERDICT_MISMATCH, []uint8{0}},
	}

	for _, entry := range table {
		verdict, output, err := emu.Verify(cpu.Registers{entry.a, 0, 0}, target)
		assert.NoError(err, entry.name)
		assert.Equal(entry.verdict, verdict, entry.name)
		assert.Equal(entry.output, output, entry.name)
	}

	verdict, output, err := emu.Verify(cpu.Registers{117440, 0, 0}, target[:2])
	assert.NoError(err)
	assert.Equal(VERDICT_OVERRUN, verdict)
	assert.Equal([]uint8{0, 3}, output)
}

func TestEmulatorVerifyEarlyAbort(t *testing.T) {
	assert := assert.New(t)

	// out b; bxl 3; out b
	emu := NewEmulator(cpu.MustProgram(5, 5, 1, 3, 5, 5))
	emu.TickLimit = 1

	// A second instruction would trip the tick limit.
	verdict, output, err := emu.Verify(cpu.Registers{0, 5, 0}, []uint8{0, 1})
	assert.NoError(err)
	assert.Equal(VERDICT_MISMATCH, verdict)
	assert.Empty(output)

	emu.TickLimit = 0
	verdict, output, err = emu.Verify(cpu.Registers{0, 5, 0}, []uint8{5, 6})
	assert.NoError(err)
	assert.Equal(VERDICT_MATCH, verdict)
	assert.Equal([]uint8{5, 6}, output)
}

func TestEmulatorVerifyEmpty(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MustProgram(0, 3))

	verdict, output, err := emu.Verify(cpu.Registers{8, 0, 0}, nil)
	assert.NoError(err)
	assert.Equal(VERDICT_MATCH, verdict)
	assert.Empty(output)
}

func TestEmulatorProbe(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(quine)

	output, overrun, err := emu.Probe(cpu.Registers{28, 0, 0}, 6)
	assert.NoError(err)
	assert.False(overrun)
	assert.Equal([]uint8{3, 0}, output)

	output, overrun, err = emu.Probe(cpu.Registers{117440, 0, 0}, 2)
	assert.NoError(err)
	assert.True(overrun)
	assert.Equal([]uint8{0, 3}, output)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"jnz 3",
		"adv b",
		"cdv 0",
	}, "\n")))
	require.NoError(t, err)

	emu := NewEmulator(prog)
	_, err = emu.Run(cpu.Registers{1, 0, 0})

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(3, rt.Ip)
		assert.Equal(2, rt.LineNo)
	}
	assert.ErrorIs(err, cpu.ErrComboReserved)

	_, _, err = emu.Verify(cpu.Registers{1, 0, 0}, prog.Tape())
	assert.ErrorIs(err, cpu.ErrComboReserved)
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MustProgram(1, 0, 3, 0))
	emu.TickLimit = 50

	_, err := emu.Run(cpu.Registers{1, 0, 0})
	assert.ErrorIs(err, cpu.ErrTickLimit)

	_, _, err = emu.Probe(cpu.Registers{1, 0, 0}, 4)
	assert.ErrorIs(err, cpu.ErrTickLimit)
}

func TestVerdictString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("match", VERDICT_MATCH.String())
	assert.Equal("short", VERDICT_SHORT.String())
	assert.Equal("mismatch", VERDICT_MISMATCH.String())
	assert.Equal("overrun", VERDICT_OVERRUN.String())
	assert.Equal("unknown", Verdict(9).String())
}
