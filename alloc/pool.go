package alloc

import (
	"sync"
)

// Pool is a thread-safe strategy that recycles buffers through per-class
// sync.Pool buckets. Requests are rounded up to the nearest size class;
// requests larger than the biggest class are served straight from the Go
// heap and dropped on Free.
//
// Pooled memory is reused, so Alloc does not return zeroed bytes; use
// AllocZero when that matters. Used reports requested bytes, not class
// capacity.
type Pool struct {
	table *sizeClassTable
	pools []sync.Pool
	heap  GoHeap
	onOOM OOMFunc
	name  string
	m     meter
}

// NewPool creates a Pool with the given class layout. A zero config selects
// DefaultPoolConfig. Options.Limit caps in-use bytes; Options.Backend is
// ignored.
func NewPool(config PoolConfig, opts Options) *Pool {
	if config == (PoolConfig{}) {
		config = DefaultPoolConfig
	}
	if opts.Limit < 0 {
		panic("alloc: NewPool: negative limit")
	}
	table := newSizeClassTable(config)
	p := &Pool{
		table: table,
		pools: make([]sync.Pool, table.numClasses),
		onOOM: opts.OnOOM,
		name:  opts.nameOr("pool"),
	}
	p.m.limit = opts.Limit
	return p
}

// Alloc returns a buffer of len size from the matching class.
func (p *Pool) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return []byte{}, nil
	}

	n := int64(size)
	if !p.m.reserve(n) {
		p.m.failures.Add(1)
		return nil, p.fail(size, nil)
	}

	cls := p.table.classFor(size)
	if cls < p.table.numClasses {
		if v := p.pools[cls].Get(); v != nil {
			p.m.commit(n)
			return v.([]byte)[:size], nil
		}
		b, err := p.heap.Acquire(p.table.boundaries[cls])
		if err != nil {
			p.m.rollback(n)
			return nil, p.fail(size, err)
		}
		p.m.commit(n)
		return b[:size], nil
	}

	// Too big for the predeclared classes.
	b, err := p.heap.Acquire(size)
	if err != nil {
		p.m.rollback(n)
		return nil, p.fail(size, err)
	}
	p.m.commit(n)
	return b, nil
}

// AllocZero returns count*elemSize zeroed bytes.
func (p *Pool) AllocZero(count, elemSize int) ([]byte, error) {
	return allocZero(p, count, elemSize, p.fail)
}

// Free returns b to its class bucket. Buffers whose capacity matches no
// class (oversized grants) are left to the garbage collector.
func (p *Pool) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	p.m.release(int64(len(b)))
	if cls := p.table.exactClass(cap(b)); cls >= 0 {
		p.pools[cls].Put(b[:cap(b)]) //nolint:staticcheck // slices are pooled by value
	}
}

// Used reports the requested bytes currently outstanding.
func (p *Pool) Used() int { return int(p.m.inUse.Load()) }

// Stats returns a snapshot of all counters.
func (p *Pool) Stats() Stats { return p.m.stats() }

// Clear resets the counters. Pooled buffers stay cached.
func (p *Pool) Clear() { p.m.reset() }

// ThreadSafe reports true.
func (p *Pool) ThreadSafe() bool { return true }

// Name returns "pool" unless overridden.
func (p *Pool) Name() string { return p.name }

// Classes returns the capacity of every pooled class in ascending order.
func (p *Pool) Classes() []int {
	return append([]int(nil), p.table.boundaries...)
}

func (p *Pool) fail(size int, cause error) error {
	return notifyOOM(p.onOOM, OOMEvent{
		Allocator: p.name,
		Size:      size,
		Used:      int(p.m.inUse.Load()),
		Capacity:  int(p.m.limit),
		Err:       cause,
	})
}

var _ Allocator = (*Pool)(nil)
