package arraylist

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/katemewow/arraylist/internal/engine/store"
)

// List is a resizable, index-addressable sequence backed by a contiguous buffer.
//
// Every structural change (insert, remove, bulk insert or remove, clear, set)
// advances the list's generation. Iterators and sublists remember the
// generation they were created at and fail with ErrConcurrentModification
// once it moves without them.
//
// A List is not safe for concurrent use.
type List[E any] struct {
	store *store.Store[E]
	gen   uint64
	equal func(a, b E) bool
}

// New creates an empty list with DefaultCapacity slots.
func New[E any](opts ...Option) *List[E] {
	l, err := NewWithCapacity[E](DefaultCapacity, opts...)
	if err != nil {
		// Only reachable with a max capacity below DefaultCapacity.
		l, _ = NewWithCapacity[E](0, opts...)
	}
	return l
}

// NewWithCapacity creates an empty list with room for capacity elements.
// A capacity of zero is legal; a negative one returns ErrInvalidCapacity.
func NewWithCapacity[E any](capacity int, opts ...Option) (*List[E], error) {
	s := newSettings(opts)
	st, err := store.New[E](capacity, s.policy)
	if err != nil {
		return nil, fmt.Errorf("new list with capacity %d: %w", capacity, err)
	}
	return &List[E]{
		store: st,
		equal: equalityFor[E](s),
	}, nil
}

// Of creates a list holding values in order.
func Of[E any](values ...E) *List[E] {
	// Exact capacity and no max: neither call can fail.
	l, err := NewWithCapacity[E](len(values))
	if err != nil {
		panic(err)
	}
	if err := l.store.Insert(0, values...); err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of elements.
func (l *List[E]) Len() int {
	return l.store.Len()
}

// IsEmpty reports whether the list holds no elements.
func (l *List[E]) IsEmpty() bool {
	return l.store.Len() == 0
}

// Cap returns the number of allocated slots.
func (l *List[E]) Cap() int {
	return l.store.Cap()
}

// Generation returns the structural modification counter.
func (l *List[E]) Generation() uint64 {
	return l.gen
}

// EnsureCapacity grows the buffer so that n elements fit without reallocation.
func (l *List[E]) EnsureCapacity(n int) error {
	return l.store.Grow(n)
}

// Get returns the element at index i.
func (l *List[E]) Get(i int) (E, error) {
	if err := checkElement("get", i, l.store.Len()); err != nil {
		var zero E
		return zero, err
	}
	return l.store.At(i), nil
}

// Set replaces the element at index i and returns the previous value.
func (l *List[E]) Set(i int, v E) (E, error) {
	if err := checkElement("set", i, l.store.Len()); err != nil {
		var zero E
		return zero, err
	}
	l.gen++
	return l.store.Swap(i, v), nil
}

// Add appends v.
func (l *List[E]) Add(v E) error {
	return l.Insert(l.store.Len(), v)
}

// Insert places v at index i, shifting [i, Len()) right by one.
func (l *List[E]) Insert(i int, v E) error {
	if err := checkPosition("insert", i, l.store.Len()); err != nil {
		return err
	}
	if err := l.store.Insert(i, v); err != nil {
		return fmt.Errorf("insert at %d: %w", i, err)
	}
	l.gen++
	return nil
}

// RemoveAt removes the element at index i and returns it.
func (l *List[E]) RemoveAt(i int) (E, error) {
	if err := checkElement("remove", i, l.store.Len()); err != nil {
		var zero E
		return zero, err
	}
	v := l.store.At(i)
	l.store.RemoveRange(i, i+1)
	l.gen++
	return v, nil
}

// Remove removes the first element equal to v and reports whether one was found.
func (l *List[E]) Remove(v E) bool {
	i := l.IndexOf(v)
	if i == NotFound {
		return false
	}
	l.store.RemoveRange(i, i+1)
	l.gen++
	return true
}

// RemoveRange removes [from, to) with a single shift.
func (l *List[E]) RemoveRange(from, to int) error {
	if err := checkRange("remove range", from, to, l.store.Len()); err != nil {
		return err
	}
	l.removeRange(from, to)
	return nil
}

func (l *List[E]) removeRange(from, to int) {
	if from == to {
		return
	}
	l.store.RemoveRange(from, to)
	l.gen++
}

// IndexOf returns the index of the first element equal to v, or NotFound.
func (l *List[E]) IndexOf(v E) int {
	return l.indexIn(v, 0, l.store.Len())
}

// LastIndexOf returns the index of the last element equal to v, or NotFound.
func (l *List[E]) LastIndexOf(v E) int {
	return l.lastIndexIn(v, 0, l.store.Len())
}

func (l *List[E]) indexIn(v E, from, to int) int {
	for i := from; i < to; i++ {
		if l.equal(l.store.At(i), v) {
			return i
		}
	}
	return NotFound
}

func (l *List[E]) lastIndexIn(v E, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if l.equal(l.store.At(i), v) {
			return i
		}
	}
	return NotFound
}

// Contains reports whether an element equal to v is present.
func (l *List[E]) Contains(v E) bool {
	return l.IndexOf(v) != NotFound
}

// ContainsAll reports whether every value is present.
func (l *List[E]) ContainsAll(values iter.Seq[E]) bool {
	for v := range values {
		if !l.Contains(v) {
			return false
		}
	}
	return true
}

// AddAll appends values in iteration order.
// It reports false without touching the list when values is empty.
func (l *List[E]) AddAll(values iter.Seq[E]) (bool, error) {
	return l.InsertAll(l.store.Len(), values)
}

// InsertAll inserts values at index i in iteration order with a single
// growth check and a single shift. The generation advances once.
func (l *List[E]) InsertAll(i int, values iter.Seq[E]) (bool, error) {
	if err := checkPosition("insert all", i, l.store.Len()); err != nil {
		return false, err
	}
	return l.insertSlice(i, slices.Collect(values))
}

func (l *List[E]) insertSlice(i int, vs []E) (bool, error) {
	if len(vs) == 0 {
		return false, nil
	}
	if err := l.store.Insert(i, vs...); err != nil {
		return false, fmt.Errorf("insert %d elements at %d: %w", len(vs), i, err)
	}
	l.gen++
	return true, nil
}

// RemoveAll removes every occurrence of every value and reports whether the
// list changed.
func (l *List[E]) RemoveAll(values iter.Seq[E]) bool {
	changed, _ := removeAll[E](l, values)
	return changed
}

// RetainAll removes every element not present in values and reports whether
// the list changed.
func (l *List[E]) RetainAll(values iter.Seq[E]) bool {
	changed, _ := retainAll[E](l, values)
	return changed
}

// Clear removes all elements. Capacity is kept.
func (l *List[E]) Clear() {
	l.store.Clear()
	l.gen++
}

// ToSlice returns a copy of the elements that does not share the buffer.
func (l *List[E]) ToSlice() []E {
	return l.store.Snapshot(0, l.store.Len())
}

// CopyTo copies the elements into dst when it is large enough and returns
// dst[:Len()]; otherwise it returns a new slice.
func (l *List[E]) CopyTo(dst []E) []E {
	n := l.store.Len()
	if len(dst) < n {
		return l.ToSlice()
	}
	l.store.CopyInto(dst, 0, n)
	return dst[:n]
}

// Iterator returns a forward cursor positioned before the first element.
func (l *List[E]) Iterator() *Iterator[E] {
	return &Iterator[E]{c: newCursor[E](l, 0)}
}

// ListIterator returns a bidirectional cursor positioned before the first element.
func (l *List[E]) ListIterator() *ListIterator[E] {
	return &ListIterator[E]{c: newCursor[E](l, 0)}
}

// ListIteratorAt returns a bidirectional cursor positioned before index i.
func (l *List[E]) ListIteratorAt(i int) (*ListIterator[E], error) {
	if err := checkPosition("list iterator", i, l.store.Len()); err != nil {
		return nil, err
	}
	return &ListIterator[E]{c: newCursor[E](l, i)}, nil
}

// SubList returns a live view of [from, to).
func (l *List[E]) SubList(from, to int) (*SubList[E], error) {
	if err := checkRange("sublist", from, to, l.store.Len()); err != nil {
		return nil, err
	}
	return &SubList[E]{
		root:     l,
		offset:   from,
		size:     to - from,
		expected: l.gen,
	}, nil
}

// Values returns an iterator over the elements for use with range.
// It panics with ErrConcurrentModification if the list is structurally
// modified while ranging.
func (l *List[E]) Values() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, v := range l.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// All returns an iterator over index/element pairs. See Values.
func (l *List[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		gen := l.gen
		for i := 0; ; i++ {
			if l.gen != gen {
				panic(ErrConcurrentModification)
			}
			if i >= l.store.Len() {
				return
			}
			if !yield(i, l.store.At(i)) {
				return
			}
		}
	}
}

// String formats the list as [a, b, c].
func (l *List[E]) String() string {
	return format(l.store, 0, l.store.Len())
}

func format[E any](st *store.Store[E], from, to int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := from; i < to; i++ {
		if i > from {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, st.At(i))
	}
	b.WriteByte(']')
	return b.String()
}

// host implementation

func (l *List[E]) length() int             { return l.store.Len() }
func (l *List[E]) generation() uint64      { return l.gen }
func (l *List[E]) validate() error         { return nil }
func (l *List[E]) equals(a, b E) bool      { return l.equal(a, b) }
func (l *List[E]) lookup(v E) (int, error) { return l.IndexOf(v), nil }
