// Package alloc provides interchangeable memory-allocation strategies behind
// a single capability contract.
//
// # Overview
//
// Containers and algorithms depend on the Allocator interface only. The
// strategy is chosen by whoever constructs the container, so the same code
// can run on a throwaway arena in one place and on an accounted heap in
// another.
//
// # Allocator Interface
//
//   - Alloc(size): Grant size bytes
//   - AllocZero(count, elemSize): Grant count*elemSize zeroed bytes, failing on overflow
//   - Free(b): Return a grant (a no-op for arenas)
//   - Used(): Bytes the strategy considers in use
//   - Clear(): Reset to the initial empty state
//   - ThreadSafe(), Name(): Static properties
//
// # Implementations
//
// Bump: Arena over a borrowed buffer
//
//   - O(1) allocation by cursor advance, 8-byte rounding
//   - Free is a no-op; Clear reclaims everything at once
//   - Not safe for concurrent use
//
// PageArena: Bump over pages reserved with vmem, released by Close
//
// Tracking: Delegates to a Backend (GoHeap or PageBackend)
//
//   - Atomic in-use and lifetime byte counters
//   - Optional Limit turning over-budget requests into OOM events
//   - Safe for concurrent use
//
// Pool: Size-class buckets over sync.Pool, configured by PoolConfig
//
// Synchronized and Checked wrap any strategy to add a lock or contract
// verification.
//
// # Usage Example
//
//	arena := make([]byte, 64<<10)
//	a := alloc.NewBump(arena, alloc.Options{})
//
//	b, err := a.Alloc(128)
//	if err != nil {
//	    return err
//	}
//	copy(b, payload)
//
//	// Drop every allocation at once
//	a.Clear()
//
// Typed views use the generic helpers:
//
//	ids, err := alloc.MakeZero[uint32](a, 256)
//	defer alloc.Release(a, ids)
//
// # Out of Memory
//
// When a strategy cannot satisfy a request it first notifies an OOMFunc,
// synchronously and on the failing goroutine, and then returns an error
// wrapping ErrOutOfMemory. The instance callback (Options.OnOOM) wins;
// otherwise the process-wide handler installed with SetOOMHandler runs.
// DefaultOOMHandler logs to stderr and exits with status 2, so a program
// that wants to recover must install its own handler:
//
//	alloc.SetOOMHandler(func(ev alloc.OOMEvent) {
//	    metrics.oom.Add(1)
//	})
//
// # Thread Safety
//
// Tracking and Pool may be shared between goroutines. Bump may not; wrap it
// with Synchronized or give each goroutine its own arena.
package alloc
