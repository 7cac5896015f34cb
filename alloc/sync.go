package alloc

import "sync"

// syncAllocator serializes every call to an allocator that is not safe for
// concurrent use.
type syncAllocator struct {
	mu sync.Mutex
	a  Allocator
}

// Synchronized returns an Allocator safe for concurrent use. Strategies
// that already report ThreadSafe are returned unchanged.
//
// Slices from a wrapped Bump are still invalidated by Clear; the lock only
// protects the allocator's own state.
func Synchronized(a Allocator) Allocator {
	if a == nil {
		panic("alloc: Synchronized: nil allocator")
	}
	if a.ThreadSafe() {
		return a
	}
	return &syncAllocator{a: a}
}

func (s *syncAllocator) Alloc(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Alloc(size)
}

func (s *syncAllocator) AllocZero(count, elemSize int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocZero(count, elemSize)
}

func (s *syncAllocator) Free(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Free(b)
}

func (s *syncAllocator) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Used()
}

func (s *syncAllocator) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Clear()
}

func (s *syncAllocator) ThreadSafe() bool { return true }

func (s *syncAllocator) Name() string { return s.a.Name() }

// Unwrap returns the wrapped allocator.
func (s *syncAllocator) Unwrap() Allocator { return s.a }

var _ Allocator = (*syncAllocator)(nil)
