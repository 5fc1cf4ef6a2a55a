// Package store provides the contiguous backing buffer used by the array list.
//
// A Store owns a slice whose length is the store's capacity and tracks how
// many leading slots hold live elements. It knows how to grow, how to shift a
// suffix of the buffer in a single bulk move, and how to reset vacated slots
// so that removed references can be collected.
//
// The store performs no index validation of its own. Callers (the list and
// its views) validate indices once and then call into the store, so every
// bounds rule lives in a single place.
//
// Growth:
//
// When an insertion needs more slots than the buffer has, the new capacity is
// max(floor(capacity*factor), required), clamped to the policy maximum. A
// request beyond the maximum fails with ErrCapacityExhausted. Because the
// factor is multiplicative, appends cost amortized O(1).
//
//	s, _ := store.New[int](0, store.DefaultPolicy())
//	_ = s.Insert(s.Len(), 1, 2, 3)
//	s.RemoveRange(0, 1) // [2 3]
package store
