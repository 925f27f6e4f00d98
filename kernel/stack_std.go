//go:build !tinygo

package kernel

import "runtime/debug"

// panicInfo is called from the deferred recover, so the stack still shows
// the panicking entry.
func panicInfo(h Handle, name string, v any) PanicInfo {
	return PanicInfo{Handle: h, Name: name, Value: v, Stack: debug.Stack()}
}
