//go:build unix

package vmem

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	// CodeNullAddress is reported when Release is given a nil or empty slice.
	CodeNullAddress = Code(unix.EFAULT)

	// CodeDoubleRelease is reported when a region is released twice.
	// munmap reports the same EINVAL for unknown mappings.
	CodeDoubleRelease = Code(unix.EINVAL)

	// CodeInvalidSize is reported for non-positive or overflowing sizes.
	CodeInvalidSize = Code(unix.EINVAL)

	// CodeNoMemory is reported when the OS refuses the reservation.
	CodeNoMemory = Code(unix.ENOMEM)
)

func (c Code) message() string {
	errno := syscall.Errno(c)
	if name := unix.ErrnoName(errno); name != "" {
		return fmt.Sprintf("%s (%s)", errno.Error(), name)
	}
	return errno.Error()
}
