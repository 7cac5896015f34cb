//go:build plan9

package vmem

// plan9 has no syscall.Errno to carry a Code; fail the build with a clear
// message instead of undefined-symbol noise.
var _ = vmem_is_not_supported_on_plan9
