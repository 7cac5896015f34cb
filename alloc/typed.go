package alloc

import (
	"unsafe"

	"github.com/joshuapare/memkit/internal/buf"
)

// Scalar is the set of pointer-free element types that may live in
// allocator memory. Types containing pointers must not be stored there:
// the garbage collector does not scan Bump arenas or vmem pages.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr |
		~float32 | ~float64
}

// Make returns a []T of length n backed by memory from a. The contents are
// unspecified; use MakeZero for zeroed elements. Dispatch is resolved at
// compile time for concrete A.
func Make[T Scalar, A Allocator](a A, n int) ([]T, error) {
	size, err := elemBytes[T](n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []T{}, nil
	}
	b, err := a.Alloc(size)
	if err != nil {
		return nil, err
	}
	return view[T](b, n), nil
}

// MakeZero is Make with zeroed elements.
func MakeZero[T Scalar, A Allocator](a A, n int) ([]T, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if n == 0 {
		return []T{}, nil
	}
	var zero T
	b, err := a.AllocZero(n, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	return view[T](b, n), nil
}

// Release frees a slice obtained from Make or MakeZero on the same a. s must
// have its original length.
func Release[T Scalar, A Allocator](a A, s []T) {
	if len(s) == 0 {
		return
	}
	var zero T
	sz := int(unsafe.Sizeof(zero))
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), cap(s)*sz)
	a.Free(b[:len(s)*sz])
}

func elemBytes[T Scalar](n int) (int, error) {
	if n < 0 {
		return 0, ErrInvalidSize
	}
	var zero T
	size, ok := buf.MulOverflowSafe(n, int(unsafe.Sizeof(zero)))
	if !ok {
		return 0, ErrSizeOverflow
	}
	return size, nil
}

// view reinterprets b as n elements of T, keeping as much of b's capacity
// as whole elements cover so Release can hand the full grant back.
func view[T Scalar](b []byte, n int) []T {
	var zero T
	sz := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), cap(b)/sz)[:n]
}
