package alloc

// Alignment is the granularity every strategy rounds request sizes up to.
// It matches the strictest alignment of any Go scalar type.
const Alignment = 8

// Allocator is the capability contract every allocation strategy satisfies.
// Containers and algorithms must depend on this interface only, never on a
// concrete strategy.
//
// Implementations:
//   - Bump: arena over a borrowed buffer, O(1) allocation, bulk reset only
//   - PageArena: Bump seeded from a vmem.Region it owns
//   - Tracking: Backend-delegating allocator with atomic accounting
//   - Pool: size-class buckets over sync.Pool
//   - Synchronized, Checked: wrappers adding locking or contract checks
type Allocator interface {
	// Alloc returns a slice with len(b) == size. On exhaustion the OOM
	// handler runs first, then Alloc returns nil and an error wrapping
	// ErrOutOfMemory. Alloc(0) returns an empty, non-nil slice.
	Alloc(size int) ([]byte, error)

	// AllocZero allocates count*elemSize zeroed bytes. An overflowing
	// product fails with ErrSizeOverflow instead of under-allocating.
	AllocZero(count, elemSize int) ([]byte, error)

	// Free releases b, which must be a slice returned by this instance with
	// its original length. Freeing nil is a no-op. Freeing anything else is
	// undefined.
	Free(b []byte)

	// Used reports the bytes this strategy currently considers in use.
	Used() int

	// Clear resets the strategy to its initial empty state in O(1).
	Clear()

	// ThreadSafe reports whether concurrent use without external locking is safe.
	ThreadSafe() bool

	// Name returns a stable identifier for diagnostics.
	Name() string
}

// Options configures a strategy instance. The zero value is valid.
type Options struct {
	// OnOOM is called when this instance cannot satisfy a request. When nil
	// the process-wide handler (see SetOOMHandler) is used. It must be set
	// before the allocator is shared between goroutines.
	OnOOM OOMFunc

	// Name overrides the strategy's default Name().
	Name string

	// Backend supplies memory to Tracking. Defaults to GoHeap.
	Backend Backend

	// Limit caps Tracking's in-use bytes; 0 means unlimited.
	Limit int64
}

func (o Options) nameOr(def string) string {
	if o.Name != "" {
		return o.Name
	}
	return def
}
