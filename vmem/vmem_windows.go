//go:build windows

package vmem

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func osPageSize() int {
	return os.Getpagesize()
}

func osReserve(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, windows.ERROR_NOT_ENOUGH_MEMORY
	}
	// addr is OS memory outside the Go heap, so the uintptr conversion is
	// safe; go vet's unsafeptr warning here is expected.
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

// osRelease frees the whole reservation. MEM_RELEASE requires size 0 and
// the base address returned by VirtualAlloc.
func osRelease(b []byte) error {
	return windows.VirtualFree(uintptr(unsafe.Pointer(unsafe.SliceData(b))), 0, windows.MEM_RELEASE)
}
