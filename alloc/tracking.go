package alloc

import (
	"github.com/joshuapare/memkit/internal/logger"
)

// Tracking delegates grants to a Backend and keeps atomic accounting of the
// bytes in use and the bytes ever allocated. It is safe for concurrent use
// without external locking.
//
// Free decrements the in-use counter by len(b): passing back a resliced
// view corrupts accounting (it is clamped so it never goes negative). The
// OOM callback is fixed at construction; concurrent use is safe, concurrent
// reconfiguration is not offered.
type Tracking struct {
	backend Backend
	onOOM   OOMFunc
	name    string
	m       meter
}

// NewTracking creates a Tracking allocator. A negative Limit panics.
func NewTracking(opts Options) *Tracking {
	if opts.Limit < 0 {
		panic("alloc: NewTracking: negative limit")
	}
	be := opts.Backend
	if be == nil {
		be = GoHeap{}
	}
	t := &Tracking{
		backend: be,
		onOOM:   opts.OnOOM,
		name:    opts.nameOr("tracking"),
	}
	t.m.limit = opts.Limit
	return t
}

// Alloc grants size bytes from the backend. Counters are updated before the
// call returns; a refused grant leaves them untouched.
func (t *Tracking) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return []byte{}, nil
	}

	n := int64(size)
	if !t.m.reserve(n) {
		t.m.failures.Add(1)
		return nil, t.fail(size, nil)
	}
	b, err := t.backend.Acquire(size)
	if err != nil {
		t.m.rollback(n)
		return nil, t.fail(size, err)
	}
	t.m.commit(n)
	return b, nil
}

// AllocZero grants count*elemSize zeroed bytes.
func (t *Tracking) AllocZero(count, elemSize int) ([]byte, error) {
	return allocZero(t, count, elemSize, t.fail)
}

// Free returns b to the backend and subtracts len(b) from the in-use count.
func (t *Tracking) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	if err := t.backend.Release(b); err != nil {
		logger.Warn("alloc: backend release failed", "allocator", t.name, "size", len(b), "error", err)
	}
	t.m.release(int64(len(b)))
}

// Used reports the bytes currently allocated.
func (t *Tracking) Used() int { return int(t.m.inUse.Load()) }

// TotalAllocated reports the bytes ever granted since construction or the
// last Clear.
func (t *Tracking) TotalAllocated() int64 { return t.m.total.Load() }

// Stats returns a snapshot of all counters.
func (t *Tracking) Stats() Stats { return t.m.stats() }

// Clear resets the counters. Outstanding allocations are not freed; it is
// the caller's job to drop them.
func (t *Tracking) Clear() { t.m.reset() }

// ThreadSafe reports true.
func (t *Tracking) ThreadSafe() bool { return true }

// Name returns "tracking" unless overridden.
func (t *Tracking) Name() string { return t.name }

func (t *Tracking) fail(size int, cause error) error {
	return notifyOOM(t.onOOM, OOMEvent{
		Allocator: t.name,
		Size:      size,
		Used:      int(t.m.inUse.Load()),
		Capacity:  int(t.m.limit),
		Err:       cause,
	})
}

var _ Allocator = (*Tracking)(nil)
