package alloc

import "sync/atomic"

// Stats is a snapshot of an accounting strategy's counters.
type Stats struct {
	InUse          int64 // bytes currently allocated
	TotalAllocated int64 // bytes ever granted since construction or Clear
	Allocs         int64 // successful grants
	Frees          int64 // non-empty frees
	Failures       int64 // grants refused by the limit or the backend
	Limit          int64 // configured ceiling, 0 if unlimited
}

// meter holds the atomic counters shared by Tracking and Pool. Every
// mutation is a single atomic read-modify-write, so concurrent grants and
// frees never lose updates.
type meter struct {
	limit    int64
	inUse    atomic.Int64
	total    atomic.Int64
	allocs   atomic.Int64
	frees    atomic.Int64
	failures atomic.Int64
}

// reserve claims n in-use bytes, refusing when the limit would be exceeded.
func (m *meter) reserve(n int64) bool {
	if m.limit == 0 {
		m.inUse.Add(n)
		return true
	}
	for {
		cur := m.inUse.Load()
		if cur+n > m.limit || cur+n < cur {
			return false
		}
		if m.inUse.CompareAndSwap(cur, cur+n) {
			return true
		}
	}
}

// commit records a successful grant of n reserved bytes.
func (m *meter) commit(n int64) {
	m.total.Add(n)
	m.allocs.Add(1)
}

// rollback undoes a reserve whose grant failed.
func (m *meter) rollback(n int64) {
	subClamp(&m.inUse, n)
	m.failures.Add(1)
}

func (m *meter) release(n int64) {
	subClamp(&m.inUse, n)
	m.frees.Add(1)
}

func (m *meter) reset() {
	m.inUse.Store(0)
	m.total.Store(0)
	m.allocs.Store(0)
	m.frees.Store(0)
	m.failures.Store(0)
}

func (m *meter) stats() Stats {
	return Stats{
		InUse:          m.inUse.Load(),
		TotalAllocated: m.total.Load(),
		Allocs:         m.allocs.Load(),
		Frees:          m.frees.Load(),
		Failures:       m.failures.Load(),
		Limit:          m.limit,
	}
}
