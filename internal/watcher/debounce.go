package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is used when a non-positive delay is given.
const DefaultDebounce = 100 * time.Millisecond

// Debouncer coalesces bursts of events into one.
//
// Every Add restarts the delay. When the delay elapses without another Add,
// the merged event is sent on C. C holds at most one event; if the previous
// event has not been received yet, the new one is merged into it.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending *Event
	timer   *time.Timer
	stopped bool

	sendMu sync.Mutex
	out    chan Event
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		delay: delay,
		out:   make(chan Event, 1),
	}
}

// Add records an event, merging it with any pending one.
func (d *Debouncer) Add(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.pending != nil {
		d.pending.Op |= ev.Op
		d.pending.Timestamp = ev.Timestamp
		d.timer.Reset(d.delay)
		return
	}

	p := ev
	d.pending = &p
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
	} else {
		d.timer.Reset(d.delay)
	}
}

// C returns the channel debounced events are delivered on.
func (d *Debouncer) C() <-chan Event {
	return d.out
}

// Pending reports whether an event is waiting for its delay to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush delivers the pending event immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

// Stop cancels the pending event. Later Adds are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.pending == nil || d.stopped {
		d.mu.Unlock()
		return
	}
	ev := *d.pending
	d.pending = nil
	d.mu.Unlock()

	d.sendMu.Lock()
	defer d.sendMu.Unlock()
	for {
		select {
		case d.out <- ev:
			return
		default:
		}
		select {
		case queued := <-d.out:
			ev.Op |= queued.Op
		default:
		}
	}
}
