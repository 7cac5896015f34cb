package alloc

import (
	"github.com/joshuapare/memkit/internal/buf"
)

// Bump is an arena allocator over a caller-supplied buffer. It serves
// requests by advancing a cursor, so allocation is O(1) and allocation
// order determines address order.
//
// Key characteristics:
//   - Sizes are rounded up to Alignment before the cursor moves
//   - Free is a no-op; Clear is the only way to reclaim memory and it
//     invalidates every slice issued so far
//   - Every returned slice has cap == len, so append cannot spill into a
//     neighbouring allocation
//   - The backing buffer is borrowed: Bump never frees it, and it must
//     outlive the Bump
//
// Bump is not safe for concurrent use. Wrap it with Synchronized or keep one
// arena per goroutine.
type Bump struct {
	buf   []byte
	off   int // next free byte, 0 <= off <= len(buf)
	peak  int // high-water mark of off, survives Clear
	onOOM OOMFunc
	name  string
}

// NewBump creates a Bump over buf. A nil or empty buf is a programming error
// and panics. For predictable alignment buf should start on an 8-byte
// boundary, which holds for any make([]byte, n) with n >= 16 and for
// vmem pages.
func NewBump(buf []byte, opts Options) *Bump {
	if buf == nil {
		panic("alloc: NewBump: nil backing buffer")
	}
	if len(buf) == 0 {
		panic("alloc: NewBump: backing buffer has zero capacity")
	}
	return &Bump{
		buf:   buf,
		onOOM: opts.OnOOM,
		name:  opts.nameOr("bump"),
	}
}

// Alloc returns size bytes from the arena.
func (b *Bump) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return []byte{}, nil
	}

	aligned, ok := buf.AlignUp(size, Alignment)
	if !ok {
		return nil, b.fail(size, ErrSizeOverflow)
	}
	end, err := buf.CheckRange(len(b.buf), b.off, aligned)
	if err != nil {
		return nil, b.fail(size, nil)
	}

	start := b.off
	b.off = end
	if end > b.peak {
		b.peak = end
	}
	return b.buf[start : start+size : start+size], nil
}

// AllocZero returns count*elemSize zeroed bytes. Memory handed out before a
// Clear is reused, so the bytes are cleared explicitly.
func (b *Bump) AllocZero(count, elemSize int) ([]byte, error) {
	return allocZero(b, count, elemSize, b.fail)
}

// Free is a no-op: individual allocations are never reclaimed.
func (b *Bump) Free([]byte) {}

// Used reports the cursor position, including alignment padding.
func (b *Bump) Used() int { return b.off }

// Clear rewinds the cursor. Every slice previously returned is invalid
// afterwards.
func (b *Bump) Clear() { b.off = 0 }

// ThreadSafe reports false.
func (b *Bump) ThreadSafe() bool { return false }

// Name returns "bump" unless overridden.
func (b *Bump) Name() string { return b.name }

// Cap returns the capacity of the backing buffer.
func (b *Bump) Cap() int { return len(b.buf) }

// Remaining returns the bytes left before the arena is exhausted.
func (b *Bump) Remaining() int { return len(b.buf) - b.off }

// Peak returns the highest cursor position reached since construction.
func (b *Bump) Peak() int { return b.peak }

// Owns reports whether p lies within the arena's backing buffer.
func (b *Bump) Owns(p []byte) bool {
	if cap(p) == 0 || len(b.buf) == 0 {
		return false
	}
	base := addr(b.buf)
	start := addr(p)
	return start >= base && start+uintptr(len(p)) <= base+uintptr(len(b.buf))
}

func (b *Bump) fail(size int, cause error) error {
	return notifyOOM(b.onOOM, OOMEvent{
		Allocator: b.name,
		Size:      size,
		Used:      b.off,
		Capacity:  len(b.buf),
		Err:       cause,
	})
}

// Compile-time interface check
var _ Allocator = (*Bump)(nil)
