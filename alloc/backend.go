package alloc

import (
	"fmt"

	"github.com/joshuapare/memkit/vmem"
)

// Backend is the general-purpose memory source a Tracking allocator
// delegates to. Implementations must be safe for concurrent use.
type Backend interface {
	// Acquire returns n bytes of zeroed memory.
	Acquire(n int) ([]byte, error)

	// Release returns memory obtained from Acquire.
	Release(b []byte) error
}

// GoHeap acquires memory from the Go runtime. Release is a no-op; the
// garbage collector reclaims the slice once it is unreachable.
type GoHeap struct{}

// Acquire allocates with make. A size the runtime rejects outright (the
// makeslice length panic) is reported as ErrHeapExhausted.
//
// Any other heap exhaustion is a fatal runtime throw that no recover can
// catch, so the OOM handler never runs for it. Set Options.Limit on the
// Tracking allocator to turn an over-budget request into an observable
// OOM event before the runtime is asked for the memory.
func (GoHeap) Acquire(n int) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = fmt.Errorf("%w: %v", ErrHeapExhausted, r)
		}
	}()
	return make([]byte, n), nil
}

// Release does nothing.
func (GoHeap) Release([]byte) error { return nil }

// PageBackend gives every grant its own page-rounded vmem reservation.
// It suits large, long-lived buffers that should not count against the Go
// heap or be scanned by the garbage collector.
type PageBackend struct{}

// Acquire reserves whole pages and returns the first n bytes. The slice's
// capacity covers the full reservation so Release can unmap it.
func (PageBackend) Acquire(n int) ([]byte, error) {
	b, err := vmem.Reserve(n)
	if err != nil {
		return nil, err
	}
	return b[:n], nil
}

// Release unmaps the reservation behind b.
func (PageBackend) Release(b []byte) error {
	return vmem.Release(b)
}

var (
	_ Backend = GoHeap{}
	_ Backend = PageBackend{}
)
