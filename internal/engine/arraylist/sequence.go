package arraylist

import (
	"fmt"
	"iter"
	"slices"
)

// Sequence is the index-addressable, mutable capability set shared by a
// List and its SubList views.
type Sequence[E any] interface {
	fmt.Stringer

	Get(i int) (E, error)
	Set(i int, v E) (E, error)
	Add(v E) error
	Insert(i int, v E) error
	RemoveAt(i int) (E, error)
	RemoveRange(from, to int) error
	AddAll(values iter.Seq[E]) (bool, error)
	InsertAll(i int, values iter.Seq[E]) (bool, error)
	ListIteratorAt(i int) (*ListIterator[E], error)
	SubList(from, to int) (*SubList[E], error)
	Values() iter.Seq[E]
	All() iter.Seq2[int, E]
}

var (
	_ Sequence[int] = (*List[int])(nil)
	_ Sequence[int] = (*SubList[int])(nil)
)

// host is what cursors and the bulk helpers need from a list or a view.
// Indices are local to the host.
type host[E any] interface {
	Get(i int) (E, error)
	Set(i int, v E) (E, error)
	Insert(i int, v E) error
	RemoveAt(i int) (E, error)

	length() int
	generation() uint64
	validate() error
	equals(a, b E) bool
	lookup(v E) (int, error)
}

func containsIn[E any](values []E, v E, equal func(a, b E) bool) bool {
	for _, x := range values {
		if equal(x, v) {
			return true
		}
	}
	return false
}

// removeAll removes each value by repeated remove-first-match until none is left.
func removeAll[E any](h host[E], values iter.Seq[E]) (bool, error) {
	if err := h.validate(); err != nil {
		return false, err
	}
	changed := false
	for _, v := range slices.Collect(values) {
		for {
			i, err := h.lookup(v)
			if err != nil {
				return changed, err
			}
			if i == NotFound {
				break
			}
			if _, err := h.RemoveAt(i); err != nil {
				return changed, err
			}
			changed = true
		}
	}
	return changed, nil
}

// retainAll removes elements missing from values. After a removal the same
// index is probed again since the suffix moved left.
func retainAll[E any](h host[E], values iter.Seq[E]) (bool, error) {
	if err := h.validate(); err != nil {
		return false, err
	}
	keep := slices.Collect(values)
	changed := false
	for i := 0; i < h.length(); i++ {
		v, err := h.Get(i)
		if err != nil {
			return changed, err
		}
		if containsIn(keep, v, h.equals) {
			continue
		}
		if _, err := h.RemoveAt(i); err != nil {
			return changed, err
		}
		i--
		changed = true
	}
	return changed, nil
}

// containsAll reports whether every value is found in h.
func containsAll[E any](h host[E], values iter.Seq[E]) (bool, error) {
	if err := h.validate(); err != nil {
		return false, err
	}
	for v := range values {
		i, err := h.lookup(v)
		if err != nil {
			return false, err
		}
		if i == NotFound {
			return false, nil
		}
	}
	return true, nil
}
