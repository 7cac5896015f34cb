//go:build !unix && !windows && !plan9

package vmem

import "strconv"

// Targets without a virtual memory API use the common errno numbering so
// codes render the same way they do on unix.
const (
	// CodeNullAddress is reported when Release is given a nil or empty slice.
	CodeNullAddress Code = 14

	// CodeDoubleRelease is reported when a region is released twice.
	CodeDoubleRelease Code = 22

	// CodeInvalidSize is reported for non-positive or overflowing sizes.
	CodeInvalidSize Code = 22

	// CodeNoMemory is reported when the heap refuses the reservation.
	CodeNoMemory Code = 12
)

var codeText = map[Code]string{
	CodeNullAddress: "bad address",
	CodeInvalidSize: "invalid argument",
	CodeNoMemory:    "cannot allocate memory",
}

func (c Code) message() string {
	if s, ok := codeText[c]; ok {
		return s
	}
	return "errno " + strconv.FormatUint(uint64(c), 10)
}
