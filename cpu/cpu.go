package cpu

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/ezrec/tribit/io"
)

// Channel is an output channel interface.
type Channel io.Channel

// Cpu is the simulation context for a single run of the 3-bit computer.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Program *Program // Instruction tape being executed.

	Ip       int       // Current instruction pointer.
	Register Registers // Register bank.

	Ticks     int // Instructions executed since reset.
	TickLimit int // If non-zero, the maximum number of ticks.

	channel Channel // Output channel.
}

// NewCpu creates a new CPU for a program.
func NewCpu(prog *Program) (cpu *Cpu) {
	cpu = &Cpu{
		Program: prog,
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return fmt.Sprintf("IP: %4d | A: %10d | B: %10d | C: %10d",
		cpu.Ip,
		cpu.Register[REG_A],
		cpu.Register[REG_B],
		cpu.Register[REG_C])
}

// Reset the CPU state.
// - Loads the registers.
// - Sets IP to the start of the tape.
// - Zeros the tick counter.
// - Rewinds the output channel.
func (cpu *Cpu) Reset(regs Registers) {
	cpu.Register = regs
	cpu.Ip = 0
	cpu.Ticks = 0

	if cpu.channel != nil {
		cpu.channel.Rewind()
	}

	if cpu.Verbose {
		log.Printf("%-24v | %v", "START", cpu)
	}
}

// SetChannel sets the output channel.
func (cpu *Cpu) SetChannel(channel Channel) {
	cpu.channel = channel
}

// Halted returns true if the instruction pointer has left the tape.
func (cpu *Cpu) Halted() bool {
	return cpu.Ip < 0 || cpu.Ip >= cpu.Program.Len()-1
}

// FetchCode fetches the instruction at the instruction pointer.
// Returns ErrIpEmpty if the machine has halted.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Halted() {
		err = ErrIpEmpty
		return
	}

	code, _ = cpu.Program.Code(cpu.Ip)
	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	if cpu.TickLimit > 0 && cpu.Ticks >= cpu.TickLimit {
		err = ErrTickLimit
		return
	}

	err = cpu.Execute(code)
	return
}

// Run ticks until the machine halts.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted() {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
// Decode and arithmetic faults are joined with ErrOpcode; errors from the
// output channel are returned as-is.
func (cpu *Cpu) Execute(code Code) (err error) {
	reg := &cpu.Register
	next_ip := cpu.Ip + 2

	var val int64
	if code.Combo() {
		val, err = cpu.getCombo(CodeCombo(code.Operand))
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
			return
		}
	} else {
		val = int64(code.Operand)
	}

	cpu.Ticks++

	switch code.Op {
	case OP_ADV:
		reg[REG_A], err = divPow2(reg[REG_A], val)
	case OP_BXL:
		reg[REG_B] ^= val
	case OP_BST:
		reg[REG_B] = val & 7
	case OP_JNZ:
		if reg[REG_A] != 0 {
			next_ip = int(val)
		}
	case OP_BXC:
		reg[REG_B] ^= reg[REG_C]
	case OP_OUT:
		if cpu.channel == nil {
			err = errors.Join(ErrOpcode(code), ErrChannelNone)
			return
		}
		err = cpu.channel.Send(uint8(val & 7))
		if err != nil {
			return
		}
	case OP_BDV:
		reg[REG_B], err = divPow2(reg[REG_A], val)
	case OP_CDV:
		reg[REG_C], err = divPow2(reg[REG_A], val)
	default:
		err = ErrOpcodeInvalid
	}

	if err != nil {
		err = errors.Join(ErrOpcode(code), err)
		return
	}

	cpu.Ip = next_ip

	if cpu.Verbose {
		log.Printf("%-24v | %v", fmt.Sprintf("%v (%d)", code, val), cpu)
	}

	return
}

// getCombo resolves a combo operand against the register bank.
func (cpu *Cpu) getCombo(combo CodeCombo) (value int64, err error) {
	switch combo {
	case COMBO_0, COMBO_1, COMBO_2, COMBO_3:
		value = int64(combo)
	case COMBO_A:
		value = cpu.Register[REG_A]
	case COMBO_B:
		value = cpu.Register[REG_B]
	case COMBO_C:
		value = cpu.Register[REG_C]
	case COMBO_RESERVED:
		err = ErrComboReserved
	default:
		err = ErrOperandRange
	}

	return
}

// divPow2 divides n by 2^shift, truncating toward zero.
func divPow2(n int64, shift int64) (value int64, err error) {
	switch {
	case shift < 0:
		err = ErrShiftRange
	case shift >= 63:
		// |n| < 2^63 except for MinInt64, which is exactly -2^63.
		if shift == 63 && n == math.MinInt64 {
			value = -1
		}
	default:
		value = n / (int64(1) << shift)
	}

	return
}
