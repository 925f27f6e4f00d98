package kernel

// PanicInfo contains details about a panic recovered from a thread entry.
type PanicInfo struct {
	Handle Handle
	Name   string
	Value  any
	Stack  []byte
}

// PanicHandler is invoked on the dispatch goroutine after the panicking
// thread has been terminated. It must not panic.
type PanicHandler func(PanicInfo)
