package alloc

import (
	"fmt"
	"sync"
)

// CheckedAllocator records every live grant of the allocator it wraps and
// panics when Free breaks the contract: a slice freed twice, a slice the
// allocator never granted, or a slice whose length differs from the grant.
//
// It is meant for tests and debug builds; the bookkeeping costs a map
// operation per call. Zero-length slices are not tracked.
type CheckedAllocator struct {
	a     Allocator
	mu    sync.Mutex
	live  map[uintptr]int      // base address -> granted length
	freed map[uintptr]struct{} // addresses freed and not re-granted
}

// Checked wraps a with contract checking.
func Checked(a Allocator) *CheckedAllocator {
	if a == nil {
		panic("alloc: Checked: nil allocator")
	}
	return &CheckedAllocator{
		a:     a,
		live:  make(map[uintptr]int),
		freed: make(map[uintptr]struct{}),
	}
}

// Alloc delegates to the wrapped allocator and records the grant.
func (c *CheckedAllocator) Alloc(size int) ([]byte, error) {
	b, err := c.a.Alloc(size)
	if err != nil {
		return nil, err
	}
	c.record(b)
	return b, nil
}

// AllocZero delegates to the wrapped allocator and records the grant.
func (c *CheckedAllocator) AllocZero(count, elemSize int) ([]byte, error) {
	b, err := c.a.AllocZero(count, elemSize)
	if err != nil {
		return nil, err
	}
	c.record(b)
	return b, nil
}

func (c *CheckedAllocator) record(b []byte) {
	if len(b) == 0 {
		return
	}
	p := addr(b)
	c.mu.Lock()
	c.live[p] = len(b)
	delete(c.freed, p)
	c.mu.Unlock()
}

// Free validates b against the live set before delegating.
func (c *CheckedAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	p := addr(b)

	c.mu.Lock()
	n, ok := c.live[p]
	switch {
	case !ok:
		_, twice := c.freed[p]
		c.mu.Unlock()
		if twice {
			panic(fmt.Errorf("%w: %s: %d bytes at %#x", ErrDoubleFree, c.a.Name(), len(b), p))
		}
		panic(fmt.Errorf("%w: %s: %d bytes at %#x", ErrForeignFree, c.a.Name(), len(b), p))
	case n != len(b):
		c.mu.Unlock()
		panic(fmt.Errorf("%w: %s: freed %d bytes, granted %d", ErrSizeMismatch, c.a.Name(), len(b), n))
	}
	delete(c.live, p)
	c.freed[p] = struct{}{}
	c.mu.Unlock()

	c.a.Free(b)
}

// Used delegates to the wrapped allocator.
func (c *CheckedAllocator) Used() int { return c.a.Used() }

// Clear resets the wrapped allocator and forgets every grant.
func (c *CheckedAllocator) Clear() {
	c.mu.Lock()
	clear(c.live)
	clear(c.freed)
	c.mu.Unlock()
	c.a.Clear()
}

// ThreadSafe reports the wrapped allocator's answer; the bookkeeping
// itself is always locked.
func (c *CheckedAllocator) ThreadSafe() bool { return c.a.ThreadSafe() }

// Name returns the wrapped allocator's name.
func (c *CheckedAllocator) Name() string { return c.a.Name() }

// Live returns the number of outstanding non-empty grants.
func (c *CheckedAllocator) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}

// Unwrap returns the wrapped allocator.
func (c *CheckedAllocator) Unwrap() Allocator { return c.a }

var _ Allocator = (*CheckedAllocator)(nil)
