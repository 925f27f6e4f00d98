package kernel

// SuspendGate is a reentrant suspend counter.
//
// While the depth is above zero the dispatcher starts no new invocation of
// any thread except the owner: the thread that raised the depth from zero
// inside its own invocation. A gate raised from outside any invocation has
// no owner. An invocation already running is never aborted.
//
// SuspendGate does no locking; the Kernel guards it.
type SuspendGate struct {
	depth int
	owner Handle
}

// NewSuspendGate returns an open gate.
func NewSuspendGate() *SuspendGate {
	return &SuspendGate{owner: InvalidHandle}
}

// Suspend raises the depth. owner is recorded only on the 0 -> 1 transition.
func (g *SuspendGate) Suspend(owner Handle) {
	if g.depth == 0 {
		g.owner = owner
	}
	g.depth++
}

// Resume lowers the depth. Resuming an open gate returns ErrInvalidState and
// leaves the depth at zero.
func (g *SuspendGate) Resume() error {
	if g.depth == 0 {
		return ErrInvalidState
	}
	g.depth--
	if g.depth == 0 {
		g.owner = InvalidHandle
	}
	return nil
}

// Depth returns the current nesting depth.
func (g *SuspendGate) Depth() int { return g.depth }

// Suspended reports whether the gate is held.
func (g *SuspendGate) Suspended() bool { return g.depth > 0 }

// Owner returns the owning thread, if any.
func (g *SuspendGate) Owner() (Handle, bool) {
	if g.depth == 0 || g.owner == InvalidHandle {
		return InvalidHandle, false
	}
	return g.owner, true
}

// Permits reports whether h may start an invocation now.
func (g *SuspendGate) Permits(h Handle) bool {
	return g.depth == 0 || (g.owner != InvalidHandle && g.owner == h)
}

// release drops every level held by h. It is used when the owner stops
// being dispatchable and can no longer balance its own suspends.
func (g *SuspendGate) release(h Handle) bool {
	if g.depth == 0 || g.owner == InvalidHandle || g.owner != h {
		return false
	}
	g.depth = 0
	g.owner = InvalidHandle
	return true
}

func (g *SuspendGate) reset() {
	g.depth = 0
	g.owner = InvalidHandle
}
