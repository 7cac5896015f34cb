package alloc

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/memkit/internal/buf"
)

// zeroSize computes count*elemSize for AllocZero. Negative operands are a
// caller error; an overflowing product is reported as ErrSizeOverflow so
// the strategy can route it through the OOM protocol.
func zeroSize(count, elemSize int) (int, error) {
	if count < 0 || elemSize < 0 {
		return 0, ErrInvalidSize
	}
	n, ok := buf.MulOverflowSafe(count, elemSize)
	if !ok {
		return 0, ErrSizeOverflow
	}
	return n, nil
}

// allocZero implements AllocZero on top of a strategy's Alloc.
func allocZero(a Allocator, count, elemSize int, fail func(size int, cause error) error) ([]byte, error) {
	n, err := zeroSize(count, elemSize)
	if err == ErrSizeOverflow {
		// The product does not fit in int; report the request saturated.
		return nil, fail(math.MaxInt, fmt.Errorf("%w: %d x %d", ErrSizeOverflow, count, elemSize))
	}
	if err != nil {
		return nil, err
	}
	b, err := a.Alloc(n)
	if err != nil {
		return nil, err
	}
	clear(b)
	return b, nil
}

// subClamp atomically subtracts n from v without letting it go negative.
// A wrong free size corrupts accounting but never underflows it.
func subClamp(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		next := max(cur-n, 0)
		if v.CompareAndSwap(cur, next) {
			return
		}
	}
}

// addr returns the base address of b for identity checks.
func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Dup copies data into memory obtained from a.
func Dup(a Allocator, data []byte) ([]byte, error) {
	b, err := a.Alloc(len(data))
	if err != nil {
		return nil, err
	}
	copy(b, data)
	return b, nil
}

// DupString copies s into memory obtained from a.
func DupString(a Allocator, s string) ([]byte, error) {
	b, err := a.Alloc(len(s))
	if err != nil {
		return nil, err
	}
	copy(b, s)
	return b, nil
}
