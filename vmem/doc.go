// Package vmem reserves and releases whole pages of virtual memory from the
// operating system.
//
// # Overview
//
// vmem is the leaf of the memkit allocator stack. It knows nothing about
// allocation strategies; it only hands out page-granular regions that are
// reserved and committed in a single step, and takes them back.
//
//   - Reserve(n): map at least n bytes (rounded up to PageSize) read/write
//   - Release(b): unmap a slice previously returned by Reserve
//   - PageSize(): the OS page granularity, queried once and cached
//   - Map(n) / (*Region).Release(): an owned handle that detects double release
//
// # Platforms
//
// Two backends are selected at build time:
//
//	unix     mmap(MAP_PRIVATE|MAP_ANON) / munmap via golang.org/x/sys/unix
//	windows  VirtualAlloc(MEM_RESERVE|MEM_COMMIT) / VirtualFree(MEM_RELEASE)
//
// js and wasip1 fall back to the Go heap so that callers still build
// there. plan9 is not supported.
//
// # Errors
//
// Every failure is a *Error carrying a Code. Code wraps the native failure
// value: errno on unix, GetLastError on windows. Portable code never
// inspects the number; it compares against the named constants:
//
//	if errors.Is(err, vmem.CodeNullAddress) {
//	    // Release(nil)
//	}
//
// and renders it with err.Error().
//
// Memory returned by Reserve lives outside the Go heap. Never store Go
// pointers in it: the garbage collector does not scan it.
package vmem
