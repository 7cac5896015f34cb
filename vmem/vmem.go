package vmem

import (
	"sync"

	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/logger"
)

// pageSize cannot change for the life of the process.
var pageSize = sync.OnceValue(osPageSize)

// PageSize returns the operating system page size in bytes.
func PageSize() int {
	return pageSize()
}

// RoundUp rounds n up to a whole number of pages. ok is false on overflow.
func RoundUp(n int) (int, bool) {
	return buf.AlignUp(n, PageSize())
}

// Reserve reserves and commits at least n bytes of zeroed, read/write
// memory. The returned slice has len == cap == n rounded up to PageSize.
// It must be handed back to Release unmodified (reslicing the front of it
// makes Release fail).
func Reserve(n int) ([]byte, error) {
	if n <= 0 {
		return nil, &Error{Op: "reserve", Size: n, Code: CodeInvalidSize}
	}
	size, ok := RoundUp(n)
	if !ok {
		return nil, &Error{Op: "reserve", Size: n, Code: CodeInvalidSize}
	}

	b, err := osReserve(size)
	if err != nil {
		verr := newError("reserve", size, err, CodeNoMemory)
		logger.Warn("vmem: reserve failed", "size", size, "error", verr)
		return nil, verr
	}

	logger.Debug("vmem: reserve", "size", size, "requested", n)
	return b, nil
}

// Release returns a slice obtained from Reserve to the operating system.
// A nil or zero-capacity slice yields CodeNullAddress and never panics.
// The length of b may have been shortened; its capacity decides how much
// is released.
func Release(b []byte) error {
	if cap(b) == 0 {
		return &Error{Op: "release", Code: CodeNullAddress}
	}
	full := b[:cap(b)]
	if err := osRelease(full); err != nil {
		verr := newError("release", len(full), err, CodeDoubleRelease)
		logger.Warn("vmem: release failed", "size", len(full), "error", verr)
		return verr
	}

	logger.Debug("vmem: release", "size", len(full))
	return nil
}

// Region is an owned reservation. It is released exactly once; a second
// Release reports CodeDoubleRelease instead of touching the OS.
//
// Region is not safe for concurrent use.
type Region struct {
	data     []byte
	size     int
	released bool
}

// Map reserves a Region of at least n bytes.
func Map(n int) (*Region, error) {
	b, err := Reserve(n)
	if err != nil {
		return nil, err
	}
	return &Region{data: b, size: len(b)}, nil
}

// Bytes returns the mapped memory, or nil once released.
func (r *Region) Bytes() []byte {
	if r == nil {
		return nil
	}
	return r.data
}

// Len returns the mapped length in bytes (a multiple of PageSize). It keeps
// reporting the original length after Release.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}
	return r.size
}

// Released reports whether Release has succeeded.
func (r *Region) Released() bool {
	return r != nil && r.released
}

// Release unmaps the region.
func (r *Region) Release() error {
	if r == nil {
		return &Error{Op: "release", Code: CodeNullAddress}
	}
	if r.released {
		return &Error{Op: "release", Size: r.size, Code: CodeDoubleRelease}
	}
	if err := Release(r.data); err != nil {
		return err
	}
	r.data = nil
	r.released = true
	return nil
}
