//go:build !unix && !windows && !plan9

package vmem

import "os"

func osPageSize() int {
	return os.Getpagesize()
}

// osReserve falls back to the Go heap when no virtual memory API exists.
func osReserve(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func osRelease([]byte) error {
	return nil
}
