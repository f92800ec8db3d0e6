// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"log"

	"github.com/ezrec/tribit/cpu"
	"github.com/ezrec/tribit/io"
)

// Verdict is the outcome of a short-circuit run.
type Verdict int

const (
	VERDICT_MATCH    = Verdict(0) // Output equals the expected sequence.
	VERDICT_SHORT    = Verdict(1) // Halted with a strict prefix of the expected sequence.
	VERDICT_MISMATCH = Verdict(2) // Aborted at the first differing digit.
	VERDICT_OVERRUN  = Verdict(3) // Aborted emitting past the expected sequence.
)

var _verdictName = [...]string{"match", "short", "mismatch", "overrun"}

func (v Verdict) String() string {
	if v >= 0 && int(v) < len(_verdictName) {
		return _verdictName[v]
	}
	return "unknown"
}

// Emulator runs a program. Every run gets its own CPU, so an Emulator may be
// shared by concurrent callers as long as its fields are not modified.
type Emulator struct {
	Verbose   bool         // If set, enables verbose logging.
	Program   *cpu.Program // Reference to the program to run.
	TickLimit int          // If non-zero, the maximum ticks per run.
}

// NewEmulator creates a new emulator.
func NewEmulator(prog *cpu.Program) (emu *Emulator) {
	emu = &Emulator{
		Program: prog,
	}

	return
}

// newCpu creates a fresh CPU attached to a tape.
func (emu *Emulator) newCpu(regs cpu.Registers, tape *io.Tape) *cpu.Cpu {
	c := cpu.NewCpu(emu.Program)
	c.Verbose = emu.Verbose
	c.TickLimit = emu.TickLimit
	c.SetChannel(tape)
	c.Reset(regs)
	return c
}

// run executes until halt, annotating any error with its location.
func (emu *Emulator) run(c *cpu.Cpu) (err error) {
	err = c.Run()
	if err != nil {
		err = &ErrRuntime{Ip: c.Ip, LineNo: emu.lineNo(c.Ip), Err: err}
	}
	return
}

// lineNo returns the source line number for an instruction pointer.
func (emu *Emulator) lineNo(ip int) int {
	dbg := emu.Program.Debug(ip)
	if dbg.Statement == nil {
		return 0
	}
	return dbg.LineNo
}

// Run executes the program to completion and returns its output.
func (emu *Emulator) Run(regs cpu.Registers) (output []uint8, err error) {
	tape := &io.Tape{}
	err = emu.run(emu.newCpu(regs, tape))
	output = tape.Digits()
	return
}

// Verify executes the program, comparing each emitted digit with expected,
// and stops at the first digit that diverges. Divergence is reported in the
// verdict; err is only set for faults in the program itself.
func (emu *Emulator) Verify(regs cpu.Registers, expected []uint8) (verdict Verdict, output []uint8, err error) {
	if expected == nil {
		expected = []uint8{}
	}

	tape := &io.Tape{Expect: expected}
	err = emu.run(emu.newCpu(regs, tape))
	output = tape.Digits()

	switch {
	case errors.Is(err, io.ErrTapeMismatch):
		verdict = VERDICT_MISMATCH
		err = nil
	case errors.Is(err, io.ErrTapeOverrun):
		verdict = VERDICT_OVERRUN
		err = nil
	case err != nil:
		return
	case tape.Complete():
		verdict = VERDICT_MATCH
	default:
		verdict = VERDICT_SHORT
	}

	if emu.Verbose {
		log.Printf("emulator: verify %v: %v [%v]", regs, verdict, tape)
	}

	return
}

// Probe executes the program, stopping as soon as it emits more than
// limit digits. overrun is set if the run was stopped for that reason.
func (emu *Emulator) Probe(regs cpu.Registers, limit int) (output []uint8, overrun bool, err error) {
	tape := &io.Tape{Limit: limit}
	err = emu.run(emu.newCpu(regs, tape))
	output = tape.Digits()

	if errors.Is(err, io.ErrTapeFull) {
		overrun = true
		err = nil
	}

	return
}
