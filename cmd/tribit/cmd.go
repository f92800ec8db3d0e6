package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/tribit/config"
	"github.com/ezrec/tribit/cpu"
	"github.com/ezrec/tribit/emulator"
	tribitio "github.com/ezrec/tribit/io"
	"github.com/ezrec/tribit/loader"
	"github.com/ezrec/tribit/search"
)

// options are the flags shared by all subcommands.
type options struct {
	config    string
	verbose   bool
	workers   int
	maxDepth  int
	tickLimit int
}

// settings merges the configuration file with flags set on the command line.
func (opt *options) settings(cmd *cobra.Command) (cfg config.Config, err error) {
	cfg = config.Default()
	if len(opt.config) != 0 {
		cfg, err = config.Load(opt.config)
		if err != nil {
			err = fmt.Errorf("%v: %w", opt.config, err)
			return
		}
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = opt.verbose
	}
	if flags.Changed("workers") {
		cfg.Workers = opt.workers
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = opt.maxDepth
	}
	if flags.Changed("tick-limit") {
		cfg.TickLimit = opt.tickLimit
	}

	err = cfg.Validate()
	return
}

// openInput opens a named file, or stdin for "-".
func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// loadMachine reads a machine description.
func loadMachine(name string) (machine *loader.Machine, err error) {
	inf, err := openInput(name)
	if err != nil {
		return
	}
	defer inf.Close()

	machine, err = loader.Load(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
	}
	return
}

func newEmulator(cfg config.Config, prog *cpu.Program) *emulator.Emulator {
	emu := emulator.NewEmulator(prog)
	emu.Verbose = cfg.Verbose
	emu.TickLimit = cfg.TickLimit
	return emu
}

func runOnce(cfg config.Config, machine *loader.Machine) (string, error) {
	output, err := newEmulator(cfg, machine.Program).Run(machine.Registers)
	if err != nil {
		return "", err
	}
	return tribitio.FormatDigits(output), nil
}

func searchOnce(ctx context.Context, cfg config.Config, machine *loader.Machine) (value int64, err error) {
	emu := newEmulator(cfg, machine.Program)
	value, err = search.Search(ctx, emu, search.Options{
		Workers:   cfg.Workers,
		MaxDepth:  cfg.MaxDepth,
		TickLimit: cfg.TickLimit,
		Verbose:   cfg.Verbose,
	})
	return
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opt := &options{}

	root := &cobra.Command{
		Use:           "tribit",
		Short:         "3-bit computer emulator and self-reproduction search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pflags := root.PersistentFlags()
	pflags.StringVarP(&opt.config, "config", "c", "", "TOML configuration file")
	pflags.BoolVarP(&opt.verbose, "verbose", "v", false, "Trace each instruction")
	pflags.IntVarP(&opt.workers, "workers", "j", 1, "Concurrent search workers")
	pflags.IntVar(&opt.maxDepth, "max-depth", 0, "Maximum octal digits of A (0: tape length)")
	pflags.IntVar(&opt.tickLimit, "tick-limit", 0, "Maximum instructions per run (0: unlimited)")

	root.AddCommand(&cobra.Command{
		Use:   "run [file]",
		Short: "Run the machine and print its output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := opt.settings(cmd)
			if err != nil {
				return
			}
			machine, err := loadMachine(inputName(args))
			if err != nil {
				return
			}
			output, err := runOnce(cfg, machine)
			if err != nil {
				return
			}
			fmt.Fprintln(stdout, output)
			return
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "search [file]",
		Short: "Find the smallest A that makes the program print itself",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := opt.settings(cmd)
			if err != nil {
				return
			}
			machine, err := loadMachine(inputName(args))
			if err != nil {
				return
			}
			value, err := searchOnce(cmd.Context(), cfg, machine)
			if err != nil {
				return
			}
			fmt.Fprintln(stdout, value)
			return
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "solve [file]",
		Short: "Run the machine, then search for the self-reproducing A",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := opt.settings(cmd)
			if err != nil {
				return
			}
			machine, err := loadMachine(inputName(args))
			if err != nil {
				return
			}
			output, err := runOnce(cfg, machine)
			if err != nil {
				return
			}
			fmt.Fprintf(stdout, "First half: %v\n", output)

			value, err := searchOnce(cmd.Context(), cfg, machine)
			if errors.Is(err, search.ErrNotFound) {
				fmt.Fprintf(stdout, "Second half: %v\n", err)
				return nil
			}
			if err != nil {
				return
			}
			fmt.Fprintf(stdout, "Second half: %v\n", value)
			return
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "asm [file]",
		Short: "Assemble mnemonics into a comma separated tape",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := opt.settings(cmd)
			if err != nil {
				return
			}
			name := inputName(args)
			inf, err := openInput(name)
			if err != nil {
				return
			}
			defer inf.Close()

			asm := &cpu.Assembler{Verbose: cfg.Verbose}
			prog, err := asm.Parse(inf)
			if err != nil {
				err = fmt.Errorf("%v: %w", name, err)
				return
			}
			fmt.Fprintf(stdout, "Program: %v\n", prog)
			return
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "disasm [file]",
		Short: "Disassemble the program of a machine description",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			machine, err := loadMachine(inputName(args))
			if err != nil {
				return
			}
			fmt.Fprintln(stdout, strings.Join(machine.Program.Disassemble(), "\n"))
			return
		},
	})

	return root
}

func inputName(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
