// Package search reconstructs register A values that make a program print
// its own tape.
//
// The search assumes the program belongs to the divide-and-emit class: a loop
// that emits a digit derived from the low bits of A, shifts A right by three
// bits, and jumps back while A is non-zero. For such programs each additional
// low-order octal digit of A adds one digit to the front of the output and
// leaves the rest of the output unchanged, so A can be built one octal digit
// at a time, most significant first, keeping only the prefixes whose output
// is a suffix of the tape. Programs outside this class may have solutions the
// search does not find.
package search

import (
	"context"
	"errors"
	"log"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/tribit/cpu"
	"github.com/ezrec/tribit/emulator"
	"github.com/ezrec/tribit/translate"
)

var f = translate.From

const (
	CHUNK_BITS         = 3       // Bits of A fixed per search step.
	CHUNK_COUNT        = 8       // Values of a single chunk.
	CHUNK_DEPTH_LIMIT  = 21      // Chunks that fit in a non-negative int64.
	DEFAULT_TICK_LIMIT = 1 << 16 // Ticks per trial when no limit is given.
)

var (
	ErrNotFound = errors.New(f("no value of A reproduces the program"))
)

// Options controls the search.
type Options struct {
	Workers   int  // Candidates expanded concurrently. Defaults to 1.
	MaxDepth  int  // Maximum chunks in a candidate. Defaults to the tape length.
	TickLimit int  // Ticks per trial. Defaults to the emulator's, or DEFAULT_TICK_LIMIT.
	Verbose   bool // If set, logs each accepted candidate.
}

// expansion is the result of extending one candidate by one chunk.
type expansion struct {
	children  []Candidate
	solutions []int64
}

// Search returns the smallest non-negative A that makes the program print its
// own tape, with B and C starting at zero.
func Search(ctx context.Context, emu *emulator.Emulator, opts Options) (value int64, err error) {
	solutions, err := Solutions(ctx, emu, opts)
	if err != nil {
		return
	}

	value = solutions[0]
	return
}

// Solutions returns, in ascending order, every A value found that makes the
// program print its own tape. Returns ErrNotFound if there are none.
func Solutions(ctx context.Context, emu *emulator.Emulator, opts Options) (solutions []int64, err error) {
	target := emu.Program.Tape()

	probe := *emu
	probe.Verbose = false
	if opts.TickLimit > 0 {
		probe.TickLimit = opts.TickLimit
	} else if probe.TickLimit == 0 {
		probe.TickLimit = DEFAULT_TICK_LIMIT
	}

	workers := max(opts.Workers, 1)

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = len(target)
	}
	maxDepth = max(min(maxDepth, CHUNK_DEPTH_LIMIT), 1)

	work := &Worklist{}
	work.Push(Candidate{})

	for !work.Empty() {
		if err = ctx.Err(); err != nil {
			return
		}

		batch := work.PopN(workers)
		results := make([]expansion, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for n, cand := range batch {
			g.Go(func() (err error) {
				results[n], err = expand(gctx, &probe, target, cand, maxDepth)
				return
			})
		}
		err = g.Wait()
		if err != nil {
			return
		}

		for _, result := range results {
			solutions = append(solutions, result.solutions...)
			for _, child := range result.children {
				if opts.Verbose {
					log.Printf("search: depth %d: accept %#o", child.Depth, child.Value)
				}
				work.Push(child)
			}
		}
	}

	slices.Sort(solutions)
	solutions = slices.Compact(solutions)

	if len(solutions) == 0 {
		err = ErrNotFound
		return
	}

	if opts.Verbose {
		log.Printf("search: %d solutions, minimum %d", len(solutions), solutions[0])
	}

	return
}

// expand tries all chunks below a candidate.
func expand(ctx context.Context, emu *emulator.Emulator, target []uint8, cand Candidate, maxDepth int) (exp expansion, err error) {
	if cand.Depth >= maxDepth || cand.Value > math.MaxInt64>>CHUNK_BITS {
		return
	}

	prefix := cand.Value << CHUNK_BITS
	for chunk := range int64(CHUNK_COUNT) {
		if err = ctx.Err(); err != nil {
			return
		}

		value := prefix | chunk

		var output []uint8
		var overrun bool
		output, overrun, err = emu.Probe(cpu.Registers{value, 0, 0}, len(target))
		if errors.Is(err, cpu.ErrTickLimit) {
			// Runaway loop; no extension can fix it.
			err = nil
			continue
		}
		if err != nil {
			return
		}

		switch {
		case overrun:
			// More low bits only add output.
		case slices.Equal(output, target):
			exp.solutions = append(exp.solutions, value)
		case value != 0 && len(output) > 0 && hasSuffix(target, output):
			exp.children = append(exp.children, Candidate{Value: value, Depth: cand.Depth + 1})
		}
	}

	return
}

// hasSuffix returns true if s ends with suffix.
func hasSuffix(s, suffix []uint8) bool {
	return len(s) >= len(suffix) && slices.Equal(s[len(s)-len(suffix):], suffix)
}
