package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the strategy could not satisfy the request.
	// The OOM handler has already run by the time a caller sees it.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidSize indicates a negative allocation size.
	ErrInvalidSize = errors.New("alloc: negative size")

	// ErrSizeOverflow indicates count*elemSize (or alignment) overflowed int.
	ErrSizeOverflow = errors.New("alloc: size overflow")

	// ErrHeapExhausted indicates the Go heap refused a grant.
	ErrHeapExhausted = errors.New("alloc: heap exhausted")

	// ErrDoubleFree indicates a Checked allocator saw the same slice freed twice.
	ErrDoubleFree = errors.New("alloc: double free")

	// ErrForeignFree indicates a Checked allocator was handed a slice it never granted.
	ErrForeignFree = errors.New("alloc: free of foreign memory")

	// ErrSizeMismatch indicates a freed slice's length differs from the grant.
	ErrSizeMismatch = errors.New("alloc: free size mismatch")
)
