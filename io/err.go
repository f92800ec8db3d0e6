package io

import (
	"errors"

	"github.com/ezrec/tribit/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrTapeFull     = errors.New(f("tape full"))
	ErrTapeOverrun  = errors.New(f("output longer than expected"))
	ErrTapeMismatch = errors.New(f("output differs from expected"))
	ErrTapeDigit    = errors.New(f("digit out of range"))
)

// ErrMismatch reports where the output diverged from the expected sequence.
type ErrMismatch struct {
	Index    int
	Expected uint8
	Actual   uint8
}

func (err ErrMismatch) Error() string {
	return f("output[%d] = %d, expected %d", err.Index, err.Actual, err.Expected)
}

func (err ErrMismatch) Unwrap() error {
	return ErrTapeMismatch
}
