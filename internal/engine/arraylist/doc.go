// Package arraylist provides a resizable, index-addressable sequence with
// fail-fast iterators and live sub-range views.
//
// A List owns a contiguous backing store (see package store) that grows by a
// factor of 1.5 when an insertion runs out of room. Inserts and removals at
// arbitrary positions shift the affected suffix with one bulk move.
//
// # Generations
//
// Every structural change advances the list's generation counter. Cursors
// (Iterator, ListIterator) and windows (SubList) record the generation they
// were created at and compare it on each access. A mismatch means the list
// changed underneath them, and the call fails with ErrConcurrentModification.
// Detection is lazy: the failure surfaces at the next access, not when the
// interfering change happens.
//
// Changes made through a cursor or a window keep that cursor or window
// valid. Every other live view is invalidated.
//
//	l := arraylist.Of(0, 1, 2, 3, 4, 5)
//	w, _ := l.SubList(1, 4)  // [1, 2, 3]
//	_ = w.Insert(1, 99)      // w = [1, 99, 2, 3], l = [0, 1, 99, 2, 3, 4, 5]
//
//	it := l.Iterator()
//	_ = l.Add(6)
//	_, err := it.Next()      // err == ErrConcurrentModification
//
// # Windows
//
// A SubList maps local indices onto the root. Windows can be nested; a
// window created from another window composes the offsets. Mutations through
// a window update the size of every ancestor window. Clear on a window
// removes only the window's range.
//
// # Bulk operations
//
// AddAll, InsertAll, RemoveAll, RetainAll and ContainsAll take an
// iter.Seq, so slices.Values, another List's Values, or any range function
// can feed them. RemoveAll and RetainAll scan the given values linearly for
// each element, which is O(n*m).
//
// # Errors
//
//   - ErrIndexOutOfRange: index outside the legal interval (wrapped in *IndexError)
//   - ErrInvalidRange: sublist or range bounds with from > to
//   - ErrInvalidCapacity: negative initial capacity
//   - ErrCapacityExhausted: growth beyond the maximum capacity
//   - ErrConcurrentModification: stale cursor or window
//   - ErrNoSuchElement: cursor moved past either end
//   - ErrIllegalState: cursor Remove or Set with no current element
//
// A List is meant for use by a single goroutine; there is no locking.
package arraylist
