package audit

import "fmt"

// IDAllocator hands out finding identifiers for one run: a single
// counter seeded from a configurable start, never reset or wrapped
// mid-run. The run has exactly one logical thread of control, so no
// locking is needed.
type IDAllocator struct {
	next int
}

// NewIDAllocator returns an allocator whose first identifier is start.
func NewIDAllocator(start int) *IDAllocator {
	return &IDAllocator{next: start}
}

// Next returns the next identifier as a 5-digit zero-padded decimal
// string and advances the counter.
func (a *IDAllocator) Next() string {
	id := fmt.Sprintf("%05d", a.next)
	a.next++
	return id
}
