//go:build unix

package vmem

import (
	"golang.org/x/sys/unix"
)

func osPageSize() int {
	return unix.Getpagesize()
}

// osReserve maps anonymous private memory. The kernel zero-fills it and
// commits pages lazily, which is as close to reserve+commit as unix gets.
func osReserve(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

// osRelease unmaps b. x/sys tracks live mappings, so unknown or already
// unmapped slices come back as EINVAL rather than silently succeeding.
func osRelease(b []byte) error {
	return unix.Munmap(b)
}
