//go:build tinygo

package kernel

// TinyGo has no runtime/debug stack dump.
func panicInfo(h Handle, name string, v any) PanicInfo {
	return PanicInfo{Handle: h, Name: name, Value: v}
}
