package alloc

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/joshuapare/memkit/internal/logger"
)

// OOMEvent describes a request a strategy could not satisfy. It is the
// context handed to an OOMFunc.
type OOMEvent struct {
	Allocator string // Name() of the failing strategy
	Size      int    // requested bytes
	Used      int    // bytes in use when the request failed
	Capacity  int    // fixed capacity, or 0 for unbounded strategies
	Err       error  // underlying cause, if any
}

// OOMFunc is notified synchronously, on the failing goroutine, before the
// failing allocation call returns. If it returns, the allocation still
// reports failure to its caller.
type OOMFunc func(ev OOMEvent)

// oomExitCode is the process status used by DefaultOOMHandler.
const oomExitCode = 2

// exit terminates the process; tests replace it.
var exit = os.Exit

// oomHandler holds the process-wide handler; nil means DefaultOOMHandler.
var oomHandler atomic.Pointer[OOMFunc]

// DefaultOOMHandler writes a diagnostic to stderr and terminates the
// process. Allocation failure is unrecoverable unless a caller opts into
// custom handling.
func DefaultOOMHandler(ev OOMEvent) {
	l := slog.New(slog.NewTextHandler(os.Stderr, nil))
	l.Error("alloc: out of memory, terminating",
		"allocator", ev.Allocator,
		"size", ev.Size,
		"used", ev.Used,
		"capacity", ev.Capacity,
		"error", ev.Err,
	)
	exit(oomExitCode)
}

// PanicOOMHandler panics with an error wrapping ErrOutOfMemory. Useful
// where a deferred recover can unwind a whole unit of work.
func PanicOOMHandler(ev OOMEvent) {
	panic(oomError(ev))
}

// SetOOMHandler installs fn as the process-wide handler and returns the
// previous one. A nil fn restores DefaultOOMHandler. Call it during
// startup; swapping handlers while allocators fail concurrently is
// allowed but which handler observes a given failure is unspecified.
func SetOOMHandler(fn OOMFunc) OOMFunc {
	var p *OOMFunc
	if fn != nil {
		p = &fn
	}
	prev := oomHandler.Swap(p)
	if prev == nil {
		return DefaultOOMHandler
	}
	return *prev
}

// OOMHandler returns the current process-wide handler.
func OOMHandler() OOMFunc {
	if p := oomHandler.Load(); p != nil {
		return *p
	}
	return DefaultOOMHandler
}

// notifyOOM dispatches ev to the instance callback, falling back to the
// process-wide handler, and returns the error the allocation reports.
func notifyOOM(local OOMFunc, ev OOMEvent) error {
	logger.Warn("alloc: out of memory",
		"allocator", ev.Allocator,
		"size", ev.Size,
		"used", ev.Used,
		"capacity", ev.Capacity,
		"error", ev.Err,
	)
	if local != nil {
		local(ev)
	} else {
		OOMHandler()(ev)
	}
	return oomError(ev)
}

func oomError(ev OOMEvent) error {
	if ev.Err != nil {
		return fmt.Errorf("%w: %s: %d bytes: %w", ErrOutOfMemory, ev.Allocator, ev.Size, ev.Err)
	}
	return fmt.Errorf("%w: %s: %d bytes", ErrOutOfMemory, ev.Allocator, ev.Size)
}
