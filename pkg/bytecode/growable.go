package bytecode

import "fmt"

// minCapacity is the capacity of the first allocation of a Seq.
const minCapacity = 8

// growCapacity returns the next capacity for a sequence that is full.
func growCapacity(capacity int) int {
	if capacity < minCapacity {
		return minCapacity
	}
	return capacity * 2
}

// Seq is a growable, append-only sequence. Code bytes, line runs and
// constant values all live in one.
//
// Capacity is tracked explicitly rather than left to append so that growth
// follows a fixed doubling schedule: 0, 8, 16, 32, ...
// The zero value is an empty sequence ready for use.
type Seq[T any] struct {
	items []T
	count int
}

// Append stores v at the end of the sequence, reallocating first when the
// sequence is full.
func (s *Seq[T]) Append(v T) {
	if s.count == len(s.items) {
		grown := make([]T, growCapacity(len(s.items)))
		copy(grown, s.items[:s.count])
		s.items = grown
	}
	s.items[s.count] = v
	s.count++
}

// At returns the element at index i.
func (s *Seq[T]) At(i int) (T, error) {
	if i < 0 || i >= s.count {
		var zero T
		return zero, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, s.count)
	}
	return s.items[i], nil
}

// Last returns a pointer to the most recently appended element, or nil when
// the sequence is empty. The pointer is invalidated by the next Append.
func (s *Seq[T]) Last() *T {
	if s.count == 0 {
		return nil
	}
	return &s.items[s.count-1]
}

// Len returns the number of elements appended so far.
func (s *Seq[T]) Len() int {
	return s.count
}

// Cap returns the current backing capacity.
func (s *Seq[T]) Cap() int {
	return len(s.items)
}

// Items returns the appended elements. Callers must not modify the result.
func (s *Seq[T]) Items() []T {
	return s.items[:s.count:s.count]
}

// Release drops the backing storage and resets the sequence to empty.
func (s *Seq[T]) Release() {
	s.items = nil
	s.count = 0
}
