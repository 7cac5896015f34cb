package vmem

import (
	"errors"
	"fmt"
	"syscall"
)

// Code is an operating system failure code: errno on unix, the
// GetLastError value on windows. It is only ever compared for equality
// against the named constants or rendered with Error.
type Code uintptr

// CodeNone is the zero Code and means "no failure".
const CodeNone Code = 0

// Error renders the code as human-readable text.
func (c Code) Error() string {
	if c == CodeNone {
		return "success"
	}
	return c.message()
}

// Is reports whether target names the same native failure. It lets
// errors.Is match both Code constants and raw syscall.Errno values.
func (c Code) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return c == t
	case syscall.Errno:
		return c == Code(t)
	}
	return false
}

// Error is a failed backend operation.
type Error struct {
	Op   string // "reserve" or "release"
	Size int    // requested or released length in bytes
	Code Code
}

func (e *Error) Error() string {
	if e.Code == CodeNullAddress && e.Op == "release" {
		return fmt.Sprintf("vmem: %s: null address on deallocation (%s)", e.Op, e.Code.Error())
	}
	return fmt.Sprintf("vmem: %s %d bytes: %s", e.Op, e.Size, e.Code.Error())
}

// Unwrap exposes the Code so errors.Is works against the constants.
func (e *Error) Unwrap() error { return e.Code }

// CodeOf extracts the Code carried by err. Errors that carry no native
// code yield CodeNone.
func CodeOf(err error) Code {
	if err == nil {
		return CodeNone
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return Code(errno)
	}
	return CodeNone
}

// newError normalizes a native error into *Error. Anything without an
// errno falls back to fallback.
func newError(op string, size int, err error, fallback Code) *Error {
	code := CodeOf(err)
	if code == CodeNone {
		code = fallback
	}
	return &Error{Op: op, Size: size, Code: code}
}
