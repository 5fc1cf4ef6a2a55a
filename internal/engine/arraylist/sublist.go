package arraylist

import (
	"iter"
	"slices"
)

// SubList is a live window onto [offset, offset+size) of a root List.
//
// Reads and writes go through to the root. Mutations made through a window
// update its own size and generation snapshot and those of every ancestor
// window, so the chain stays consistent. Any other structural change to the
// root makes the window fail with ErrConcurrentModification.
type SubList[E any] struct {
	root     *List[E]
	parent   *SubList[E]
	offset   int // absolute index into root
	size     int
	expected uint64
}

func (s *SubList[E]) validate() error {
	if s.expected != s.root.gen || s.offset+s.size > s.root.store.Len() {
		return ErrConcurrentModification
	}
	return nil
}

// propagate applies a size delta to the window and its ancestors and adopts
// the root's current generation.
func (s *SubList[E]) propagate(delta int) {
	for w := s; w != nil; w = w.parent {
		w.size += delta
		w.expected = w.root.gen
	}
}

// Len returns the number of elements in the window.
func (s *SubList[E]) Len() (int, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	return s.size, nil
}

// IsEmpty reports whether the window holds no elements.
func (s *SubList[E]) IsEmpty() (bool, error) {
	n, err := s.Len()
	return n == 0, err
}

// Get returns the element at local index i.
func (s *SubList[E]) Get(i int) (E, error) {
	var zero E
	if err := s.validate(); err != nil {
		return zero, err
	}
	if err := checkElement("sublist get", i, s.size); err != nil {
		return zero, err
	}
	return s.root.store.At(s.offset + i), nil
}

// Set replaces the element at local index i and returns the previous value.
func (s *SubList[E]) Set(i int, v E) (E, error) {
	var zero E
	if err := s.validate(); err != nil {
		return zero, err
	}
	if err := checkElement("sublist set", i, s.size); err != nil {
		return zero, err
	}
	prev, err := s.root.Set(s.offset+i, v)
	if err != nil {
		return zero, err
	}
	s.propagate(0)
	return prev, nil
}

// Add appends v at the end of the window.
func (s *SubList[E]) Add(v E) error {
	return s.Insert(s.size, v)
}

// Insert places v at local index i.
func (s *SubList[E]) Insert(i int, v E) error {
	if err := s.validate(); err != nil {
		return err
	}
	if err := checkPosition("sublist insert", i, s.size); err != nil {
		return err
	}
	if err := s.root.Insert(s.offset+i, v); err != nil {
		return err
	}
	s.propagate(1)
	return nil
}

// RemoveAt removes and returns the element at local index i.
func (s *SubList[E]) RemoveAt(i int) (E, error) {
	var zero E
	if err := s.validate(); err != nil {
		return zero, err
	}
	if err := checkElement("sublist remove", i, s.size); err != nil {
		return zero, err
	}
	v, err := s.root.RemoveAt(s.offset + i)
	if err != nil {
		return zero, err
	}
	s.propagate(-1)
	return v, nil
}

// Remove removes the first element of the window equal to v.
func (s *SubList[E]) Remove(v E) (bool, error) {
	i, err := s.IndexOf(v)
	if err != nil || i == NotFound {
		return false, err
	}
	if _, err := s.RemoveAt(i); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveRange removes local [from, to) with a single shift.
func (s *SubList[E]) RemoveRange(from, to int) error {
	if err := s.validate(); err != nil {
		return err
	}
	if err := checkRange("sublist remove range", from, to, s.size); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	s.root.removeRange(s.offset+from, s.offset+to)
	s.propagate(from - to)
	return nil
}

// IndexOf returns the local index of the first element equal to v, or NotFound.
func (s *SubList[E]) IndexOf(v E) (int, error) {
	if err := s.validate(); err != nil {
		return NotFound, err
	}
	i := s.root.indexIn(v, s.offset, s.offset+s.size)
	if i == NotFound {
		return NotFound, nil
	}
	return i - s.offset, nil
}

// LastIndexOf returns the local index of the last element equal to v, or NotFound.
func (s *SubList[E]) LastIndexOf(v E) (int, error) {
	if err := s.validate(); err != nil {
		return NotFound, err
	}
	i := s.root.lastIndexIn(v, s.offset, s.offset+s.size)
	if i == NotFound {
		return NotFound, nil
	}
	return i - s.offset, nil
}

// Contains reports whether the window holds an element equal to v.
func (s *SubList[E]) Contains(v E) (bool, error) {
	i, err := s.IndexOf(v)
	return i != NotFound, err
}

// ContainsAll reports whether the window holds every value.
func (s *SubList[E]) ContainsAll(values iter.Seq[E]) (bool, error) {
	return containsAll[E](s, values)
}

// AddAll appends values at the end of the window.
func (s *SubList[E]) AddAll(values iter.Seq[E]) (bool, error) {
	return s.InsertAll(s.size, values)
}

// InsertAll inserts values at local index i with a single shift of the root.
func (s *SubList[E]) InsertAll(i int, values iter.Seq[E]) (bool, error) {
	if err := s.validate(); err != nil {
		return false, err
	}
	if err := checkPosition("sublist insert all", i, s.size); err != nil {
		return false, err
	}
	vs := slices.Collect(values)
	changed, err := s.root.insertSlice(s.offset+i, vs)
	if err != nil || !changed {
		return false, err
	}
	s.propagate(len(vs))
	return true, nil
}

// RemoveAll removes from the window every occurrence of every value.
func (s *SubList[E]) RemoveAll(values iter.Seq[E]) (bool, error) {
	return removeAll[E](s, values)
}

// RetainAll removes from the window every element not present in values.
func (s *SubList[E]) RetainAll(values iter.Seq[E]) (bool, error) {
	return retainAll[E](s, values)
}

// Clear removes the window's elements from the root. Elements outside the
// window are untouched.
func (s *SubList[E]) Clear() error {
	return s.RemoveRange(0, s.size)
}

// ToSlice returns a copy of the window's elements.
func (s *SubList[E]) ToSlice() ([]E, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s.root.store.Snapshot(s.offset, s.offset+s.size), nil
}

// CopyTo copies the window into dst when it is large enough and returns
// dst[:size]; otherwise it returns a new slice.
func (s *SubList[E]) CopyTo(dst []E) ([]E, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if len(dst) < s.size {
		return s.root.store.Snapshot(s.offset, s.offset+s.size), nil
	}
	s.root.store.CopyInto(dst, s.offset, s.offset+s.size)
	return dst[:s.size], nil
}

// Iterator returns a forward cursor over the window.
func (s *SubList[E]) Iterator() (*Iterator[E], error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &Iterator[E]{c: newCursor[E](s, 0)}, nil
}

// ListIterator returns a bidirectional cursor over the window.
func (s *SubList[E]) ListIterator() (*ListIterator[E], error) {
	return s.ListIteratorAt(0)
}

// ListIteratorAt returns a bidirectional cursor positioned before local index i.
func (s *SubList[E]) ListIteratorAt(i int) (*ListIterator[E], error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := checkPosition("sublist list iterator", i, s.size); err != nil {
		return nil, err
	}
	return &ListIterator[E]{c: newCursor[E](s, i)}, nil
}

// SubList returns a window of this window covering local [from, to).
func (s *SubList[E]) SubList(from, to int) (*SubList[E], error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := checkRange("sublist", from, to, s.size); err != nil {
		return nil, err
	}
	return &SubList[E]{
		root:     s.root,
		parent:   s,
		offset:   s.offset + from,
		size:     to - from,
		expected: s.expected,
	}, nil
}

// Values returns an iterator over the window's elements. It panics with
// ErrConcurrentModification if the window is stale when ranging starts or
// becomes stale while ranging.
func (s *SubList[E]) Values() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, v := range s.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// All returns an iterator over local index/element pairs. See Values.
func (s *SubList[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		gen := s.root.gen
		for i := 0; ; i++ {
			if err := s.validate(); err != nil {
				panic(err)
			}
			if s.root.gen != gen {
				panic(ErrConcurrentModification)
			}
			if i >= s.size {
				return
			}
			if !yield(i, s.root.store.At(s.offset+i)) {
				return
			}
		}
	}
}

// String formats the window as [a, b, c].
func (s *SubList[E]) String() string {
	if err := s.validate(); err != nil {
		return "[" + err.Error() + "]"
	}
	return format(s.root.store, s.offset, s.offset+s.size)
}

// host implementation

func (s *SubList[E]) length() int        { return s.size }
func (s *SubList[E]) generation() uint64 { return s.root.gen }
func (s *SubList[E]) equals(a, b E) bool { return s.root.equal(a, b) }
func (s *SubList[E]) lookup(v E) (int, error) {
	return s.IndexOf(v)
}
