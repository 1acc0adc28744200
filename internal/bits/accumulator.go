// Package bits holds small helpers shared by the bxCAN and FDCAN filter
// back-ends: a generic replicate-on-first slot accumulator and the CIDR
// prefix arithmetic used to decompose an inclusive integer range into a
// minimal set of aligned power-of-two blocks.
package bits

import "golang.org/x/exp/constraints"

// Accumulator buffers up to N pending values before a back-end emits them
// as one hardware bank or filter element. The first value written is
// replicated into every slot so that a partially filled accumulator,
// flushed early by end(), still yields a bank or element that matches only
// the values actually added — the unused slots are benign duplicates of
// the first value rather than wildcards.
type Accumulator[T any] struct {
	slots []T
	n     int
}

// NewAccumulator returns an accumulator with room for capacity pending values.
func NewAccumulator[T any](capacity int) *Accumulator[T] {
	return &Accumulator[T]{slots: make([]T, capacity)}
}

// Add stores v in the next free slot. On the first Add after a Reset, every
// slot is set to v. Add reports whether the accumulator is now full and
// should be flushed by the caller.
func (a *Accumulator[T]) Add(v T) (full bool) {
	a.slots[a.n] = v
	a.n++
	if a.n == 1 {
		for i := 1; i < len(a.slots); i++ {
			a.slots[i] = v
		}
	}
	return a.n == len(a.slots)
}

// Full reports whether the accumulator already holds its capacity.
func (a *Accumulator[T]) Full() bool { return a.n == len(a.slots) }

// Pending reports whether the accumulator holds at least one value.
func (a *Accumulator[T]) Pending() bool { return a.n > 0 }

// Slots returns the backing slots, valid up to len(Slots()) regardless of
// how many values were actually added — unused slots hold replicas of the
// first value.
func (a *Accumulator[T]) Slots() []T { return a.slots }

// Reset empties the accumulator, ready for the next episode.
func (a *Accumulator[T]) Reset() { a.n = 0 }

// Swap returns (b, a) if a > b, and (a, b) otherwise — used to normalize
// range endpoints that arrive out of order.
func Swap[T constraints.Unsigned](a, b T) (T, T) {
	if a > b {
		return b, a
	}
	return a, b
}
