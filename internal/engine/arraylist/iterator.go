package arraylist

// cursor is the state shared by Iterator and ListIterator.
// pos sits between elements: pos == i means before element i.
type cursor[E any] struct {
	h        host[E]
	pos      int
	last     int // index returned by the latest next/previous, -1 if none
	expected uint64
}

func newCursor[E any](h host[E], pos int) cursor[E] {
	return cursor[E]{
		h:        h,
		pos:      pos,
		last:     -1,
		expected: h.generation(),
	}
}

func (c *cursor[E]) check() error {
	if c.expected != c.h.generation() {
		return ErrConcurrentModification
	}
	return c.h.validate()
}

func (c *cursor[E]) sync() {
	c.expected = c.h.generation()
}

// resync adopts the host's current generation after a foreign change. The
// position is clamped to the new length and the last returned element is
// forgotten.
func (c *cursor[E]) resync() error {
	if err := c.h.validate(); err != nil {
		return err
	}
	c.pos = min(c.pos, c.h.length())
	c.last = -1
	c.sync()
	return nil
}

func (c *cursor[E]) hasNext() bool {
	return c.pos < c.h.length()
}

func (c *cursor[E]) hasPrevious() bool {
	return c.pos > 0
}

func (c *cursor[E]) next() (E, error) {
	var zero E
	if err := c.check(); err != nil {
		return zero, err
	}
	if !c.hasNext() {
		return zero, ErrNoSuchElement
	}
	v, err := c.h.Get(c.pos)
	if err != nil {
		return zero, err
	}
	c.last = c.pos
	c.pos++
	return v, nil
}

func (c *cursor[E]) previous() (E, error) {
	var zero E
	if err := c.check(); err != nil {
		return zero, err
	}
	if !c.hasPrevious() {
		return zero, ErrNoSuchElement
	}
	v, err := c.h.Get(c.pos - 1)
	if err != nil {
		return zero, err
	}
	c.pos--
	c.last = c.pos
	return v, nil
}

func (c *cursor[E]) remove() error {
	if err := c.check(); err != nil {
		return err
	}
	if c.last < 0 {
		return ErrIllegalState
	}
	if _, err := c.h.RemoveAt(c.last); err != nil {
		return err
	}
	if c.last < c.pos {
		c.pos--
	}
	c.last = -1
	c.sync()
	return nil
}

func (c *cursor[E]) set(v E) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.last < 0 {
		return ErrIllegalState
	}
	if _, err := c.h.Set(c.last, v); err != nil {
		return err
	}
	c.sync()
	return nil
}

func (c *cursor[E]) add(v E) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := c.h.Insert(c.pos, v); err != nil {
		return err
	}
	c.pos++
	c.last = -1
	c.sync()
	return nil
}

// Iterator walks a list or sublist forward.
// Structural changes not made through the iterator itself make every later
// call fail with ErrConcurrentModification.
type Iterator[E any] struct {
	c cursor[E]
}

// HasNext reports whether Next would return an element.
func (it *Iterator[E]) HasNext() bool {
	return it.c.hasNext()
}

// Next returns the next element and advances.
func (it *Iterator[E]) Next() (E, error) {
	return it.c.next()
}

// Remove removes the element returned by the latest Next.
func (it *Iterator[E]) Remove() error {
	return it.c.remove()
}

// Resync makes the iterator usable again after a structural change it did
// not make. Iteration continues from the same index, clamped to the new
// length. A stale window cannot be resynced.
func (it *Iterator[E]) Resync() error {
	return it.c.resync()
}

// ListIterator is a bidirectional cursor that can also modify its host.
type ListIterator[E any] struct {
	c cursor[E]
}

// HasNext reports whether Next would return an element.
func (it *ListIterator[E]) HasNext() bool {
	return it.c.hasNext()
}

// Next returns the element after the cursor and advances.
func (it *ListIterator[E]) Next() (E, error) {
	return it.c.next()
}

// HasPrevious reports whether Previous would return an element.
func (it *ListIterator[E]) HasPrevious() bool {
	return it.c.hasPrevious()
}

// Previous returns the element before the cursor and moves back.
func (it *ListIterator[E]) Previous() (E, error) {
	return it.c.previous()
}

// NextIndex returns the index Next would return.
func (it *ListIterator[E]) NextIndex() int {
	return it.c.pos
}

// PreviousIndex returns the index Previous would return, -1 at the start.
func (it *ListIterator[E]) PreviousIndex() int {
	return it.c.pos - 1
}

// Remove removes the element returned by the latest Next or Previous.
func (it *ListIterator[E]) Remove() error {
	return it.c.remove()
}

// Set replaces the element returned by the latest Next or Previous.
func (it *ListIterator[E]) Set(v E) error {
	return it.c.set(v)
}

// Resync is Iterator.Resync for a bidirectional cursor.
func (it *ListIterator[E]) Resync() error {
	return it.c.resync()
}

// Add inserts v before the cursor; a following Next is unaffected.
func (it *ListIterator[E]) Add(v E) error {
	return it.c.add(v)
}
