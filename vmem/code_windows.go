//go:build windows

package vmem

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	// CodeNullAddress is reported when Release is given a nil or empty slice.
	CodeNullAddress = Code(windows.ERROR_INVALID_ADDRESS)

	// CodeDoubleRelease is reported when a region is released twice.
	CodeDoubleRelease = Code(windows.ERROR_INVALID_BLOCK)

	// CodeInvalidSize is reported for non-positive or overflowing sizes.
	CodeInvalidSize = Code(windows.ERROR_INVALID_PARAMETER)

	// CodeNoMemory is reported when the OS refuses the reservation.
	CodeNoMemory = Code(windows.ERROR_NOT_ENOUGH_MEMORY)
)

func (c Code) message() string {
	// syscall.Errno formats through FormatMessage on windows.
	return fmt.Sprintf("%s (0x%x)", syscall.Errno(c).Error(), uintptr(c))
}
