package arraylist

import (
	"errors"
	"fmt"

	"github.com/katemewow/arraylist/internal/engine/store"
)

// Errors returned by list, view, and cursor operations.
var (
	// ErrIndexOutOfRange indicates an index outside the legal interval of an operation.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidRange indicates a range whose start is past its end.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidCapacity indicates a negative initial capacity.
	ErrInvalidCapacity = store.ErrInvalidCapacity

	// ErrCapacityExhausted indicates growth beyond the maximum capacity.
	ErrCapacityExhausted = store.ErrCapacityExhausted

	// ErrConcurrentModification indicates a view or cursor observed a
	// structural change it did not make itself.
	ErrConcurrentModification = errors.New("concurrent structural modification")

	// ErrNoSuchElement indicates a cursor moved past either end.
	ErrNoSuchElement = errors.New("no such element")

	// ErrIllegalState indicates a cursor Remove or Set with no element to act on.
	ErrIllegalState = errors.New("no current element")
)

// NotFound is returned by IndexOf and LastIndexOf when nothing matches.
const NotFound = -1

// IndexError describes a rejected index.
// Legal values lie in [Low, High]; High is inclusive so the same type covers
// element indices (High = size-1) and insertion positions (High = size).
type IndexError struct {
	Op    string
	Index int
	Low   int
	High  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index out of range: %d not in [%d, %d]", e.Op, e.Index, e.Low, e.High)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// checkElement validates i as an index of an existing element.
func checkElement(op string, i, size int) error {
	if i < 0 || i >= size {
		return &IndexError{Op: op, Index: i, Low: 0, High: size - 1}
	}
	return nil
}

// checkPosition validates i as an insertion position.
func checkPosition(op string, i, size int) error {
	if i < 0 || i > size {
		return &IndexError{Op: op, Index: i, Low: 0, High: size}
	}
	return nil
}

// checkRange validates [from, to) against size.
func checkRange(op string, from, to, size int) error {
	if err := checkPosition(op, from, size); err != nil {
		return err
	}
	if err := checkPosition(op, to, size); err != nil {
		return err
	}
	if from > to {
		return fmt.Errorf("%s: from %d > to %d: %w", op, from, to, ErrInvalidRange)
	}
	return nil
}
