package io

import (
	"io"
	"slices"
	"strings"
)

// Tape records the digits emitted by a run.
//
// If Expect is non-nil, every digit is checked against the expected sequence
// at the same position and Send fails on the first divergence. If Limit is
// non-zero, Send fails once more than Limit digits would be recorded. If
// Writer is set, digits are echoed to it comma separated.
type Tape struct {
	Writer io.Writer
	Expect []uint8
	Limit  int

	digits []uint8
}

// Rewind discards the recorded digits.
func (tc *Tape) Rewind() {
	tc.digits = tc.digits[:0]
}

// Send records a digit.
func (tc *Tape) Send(digit uint8) (err error) {
	if digit > 7 {
		return ErrTapeDigit
	}

	index := len(tc.digits)

	if tc.Limit > 0 && index >= tc.Limit {
		return ErrTapeFull
	}

	if tc.Expect != nil {
		if index >= len(tc.Expect) {
			return ErrTapeOverrun
		}
		if tc.Expect[index] != digit {
			return ErrMismatch{Index: index, Expected: tc.Expect[index], Actual: digit}
		}
	}

	tc.digits = append(tc.digits, digit)

	if tc.Writer != nil {
		out := []byte{'0' + digit}
		if index > 0 {
			out = []byte{',', '0' + digit}
		}
		_, err = tc.Writer.Write(out)
	}

	return
}

// Digits returns a copy of the recorded digits.
func (tc *Tape) Digits() []uint8 {
	return slices.Clone(tc.digits)
}

// Len returns the number of recorded digits.
func (tc *Tape) Len() int {
	return len(tc.digits)
}

// Complete returns true if the recorded digits equal Expect.
func (tc *Tape) Complete() bool {
	return tc.Expect != nil && slices.Equal(tc.digits, tc.Expect)
}

// String returns the recorded digits comma separated.
func (tc *Tape) String() string {
	return FormatDigits(tc.digits)
}

// FormatDigits joins digits with commas.
func FormatDigits(digits []uint8) string {
	var sb strings.Builder
	for n, digit := range digits {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('0' + digit)
	}
	return sb.String()
}
