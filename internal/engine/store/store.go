package store

// Store is a growable contiguous buffer of element slots.
// Live elements occupy [0, Len()); the remaining slots hold the zero value.
type Store[E any] struct {
	buf    []E
	size   int
	policy GrowthPolicy
}

// New allocates a store with the given initial capacity.
func New[E any](capacity int, policy GrowthPolicy) (*Store[E], error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	if capacity > policy.max() {
		return nil, ErrCapacityExhausted
	}
	return &Store[E]{
		buf:    make([]E, capacity),
		policy: policy,
	}, nil
}

// Len returns the number of live elements.
func (s *Store[E]) Len() int {
	return s.size
}

// Cap returns the number of allocated slots.
func (s *Store[E]) Cap() int {
	return len(s.buf)
}

// Policy returns the growth policy.
func (s *Store[E]) Policy() GrowthPolicy {
	return s.policy
}

// At returns the element in slot i.
func (s *Store[E]) At(i int) E {
	return s.buf[i]
}

// Swap stores v in slot i and returns the previous value.
func (s *Store[E]) Swap(i int, v E) E {
	prev := s.buf[i]
	s.buf[i] = v
	return prev
}

// Grow makes room for at least required elements.
func (s *Store[E]) Grow(required int) error {
	if required <= len(s.buf) {
		return nil
	}
	next, err := s.policy.Next(len(s.buf), required)
	if err != nil {
		return err
	}
	buf := make([]E, next)
	copy(buf, s.buf[:s.size])
	s.buf = buf
	return nil
}

// Insert places vs at slot i, moving [i, Len()) right by len(vs).
// It performs at most one growth and one bulk move.
func (s *Store[E]) Insert(i int, vs ...E) error {
	n := len(vs)
	if n == 0 {
		return nil
	}
	if s.size > s.policy.max()-n {
		return ErrCapacityExhausted
	}
	if err := s.Grow(s.size + n); err != nil {
		return err
	}
	copy(s.buf[i+n:s.size+n], s.buf[i:s.size])
	copy(s.buf[i:i+n], vs)
	s.size += n
	return nil
}

// RemoveRange drops [from, to), moving the suffix left in one bulk move and
// zeroing the vacated trailing slots.
func (s *Store[E]) RemoveRange(from, to int) {
	n := to - from
	if n <= 0 {
		return
	}
	copy(s.buf[from:], s.buf[to:s.size])
	clear(s.buf[s.size-n : s.size])
	s.size -= n
}

// Clear drops every live element. Capacity is kept.
func (s *Store[E]) Clear() {
	clear(s.buf[:s.size])
	s.size = 0
}

// Snapshot returns an independent copy of [from, to).
func (s *Store[E]) Snapshot(from, to int) []E {
	out := make([]E, to-from)
	copy(out, s.buf[from:to])
	return out
}

// CopyInto copies [from, to) into dst and returns the number of elements copied.
func (s *Store[E]) CopyInto(dst []E, from, to int) int {
	return copy(dst, s.buf[from:to])
}
