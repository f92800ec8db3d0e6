// Package internal holds helpers shared by the tribit packages.
package internal

import (
	"iter"
)

// Concat2 yields every pair of each sequence in turn.
// Collecting the result into a map lets later sequences override earlier ones.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}
