// Package io provides output channel implementations for the 3-bit computer.
// A channel receives one octal digit per OUT instruction; the Tape channel
// records digits, optionally echoes them to a writer, and can compare them
// against an expected sequence to stop a run at the first divergence.
package io

// Channel defines the interface for output channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single digit to the channel.
	Send(digit uint8) error
}
