package kernel

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

type lifecycle uint8

const (
	lifecycleNew lifecycle = iota
	lifecycleReady
	lifecycleRunning
	lifecycleStepping
)

func (l lifecycle) String() string {
	switch l {
	case lifecycleNew:
		return "new"
	case lifecycleReady:
		return "ready"
	case lifecycleRunning:
		return "running"
	case lifecycleStepping:
		return "stepping"
	default:
		return "unknown"
	}
}

// Stats counts dispatcher activity since the last Initialize.
type Stats struct {
	Passes      uint64
	Invocations uint64
	// Deferred counts pass attempts that stopped at a thread the suspend
	// gate would not let start.
	Deferred uint64
	Panics   uint64
}

// Kernel is a cooperative round-robin dispatcher over a fixed-capacity
// thread table.
//
// There is one execution context: the goroutine that calls Start (or Pass).
// Every thread entry runs there, in registration order, one invocation per
// pass. A pass completes only when every Active entry has returned, so an
// entry that never returns starves all others. The kernel does not detect
// that case.
//
// Terminate, RequestStop, SuspendAll and ResumeAll may be called from other
// goroutines as well, for example from a tick-context callback.
type Kernel struct {
	mu sync.Mutex

	capacity int
	table    *ThreadTable
	gate     *SuspendGate
	clock    *Clock
	log      log.FieldLogger
	onPanic  PanicHandler

	state   lifecycle
	running atomic.Bool

	// cursor is the next table index of the pass in progress; passLen is the
	// table length when that pass began. Threads registered mid-pass join
	// the next one.
	cursor  int
	passLen int
	current Handle

	stats Stats
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithCapacity sets the thread table capacity.
func WithCapacity(n int) Option {
	return func(k *Kernel) { k.capacity = n }
}

// WithClock makes the kernel use an existing clock instead of its own.
func WithClock(c *Clock) Option {
	return func(k *Kernel) { k.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(l log.FieldLogger) Option {
	return func(k *Kernel) { k.log = l }
}

// WithPanicHandler installs a handler for panics recovered from entries.
func WithPanicHandler(fn PanicHandler) Option {
	return func(k *Kernel) { k.onPanic = fn }
}

// New creates a kernel instance. It must be initialized before threads can
// be registered.
func New(opts ...Option) *Kernel {
	k := &Kernel{capacity: DefaultCapacity, current: InvalidHandle}
	for _, opt := range opts {
		opt(k)
	}
	if k.capacity <= 0 {
		k.capacity = DefaultCapacity
	}
	if k.clock == nil {
		k.clock = NewClock()
	}
	if k.log == nil {
		k.log = log.StandardLogger()
	}
	k.table = NewThreadTable(k.capacity)
	k.gate = NewSuspendGate()
	return k
}

func stateError(op string) error {
	return &ThreadError{Op: op, Handle: InvalidHandle, Err: ErrInvalidState}
}

// Initialize empties the thread table and resets the dispatcher state. The
// clock is left untouched.
func (k *Kernel) Initialize() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.state == lifecycleRunning || k.state == lifecycleStepping {
		return stateError("initialize")
	}

	k.table.reset()
	k.gate.reset()
	k.running.Store(false)
	k.cursor = 0
	k.passLen = 0
	k.current = InvalidHandle
	k.stats = Stats{}
	k.state = lifecycleReady

	k.log.WithFields(log.Fields{
		"capacity": k.table.Cap(),
		"tick":     k.clock.Now(),
	}).Info("[kernel] initialized")
	return nil
}

// Teardown drops every thread and returns the kernel to its uninitialized
// state. It fails while the dispatcher is running.
func (k *Kernel) Teardown() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.state == lifecycleRunning || k.state == lifecycleStepping {
		return stateError("teardown")
	}
	k.table.reset()
	k.gate.reset()
	k.cursor = 0
	k.passLen = 0
	k.state = lifecycleNew

	k.log.Info("[kernel] torn down")
	return nil
}

// RegisterThread appends a thread to the table and returns its handle.
//
// attr may be nil. attr.Priority is recorded but does not affect dispatch
// order. Registering from inside an entry is allowed; the new thread joins
// the next pass.
func (k *Kernel) RegisterThread(entry Entry, arg any, attr *ThreadAttr) (Handle, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.state == lifecycleNew {
		return InvalidHandle, stateError("register")
	}

	h, err := k.table.Register(entry, arg, attr)
	if err != nil {
		k.log.WithFields(log.Fields{
			"len":   k.table.Len(),
			"error": err,
		}).Warn("[kernel] register failed")
		return InvalidHandle, err
	}

	d := k.table.threads[h]
	k.log.WithFields(log.Fields{
		"thread":   int(h),
		"name":     d.Name,
		"stack":    d.StackSize,
		"priority": d.Priority,
	}).Debug("[kernel] thread registered")
	return h, nil
}

// Terminate marks a thread Inactive. It is observed no later than the next
// pass and never interrupts an invocation in progress. A suspend gate owned
// by the thread is released.
func (k *Kernel) Terminate(h Handle) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.state == lifecycleNew {
		return stateError("terminate")
	}
	if err := k.table.Terminate(h); err != nil {
		return err
	}
	if k.gate.release(h) {
		k.log.WithField("thread", int(h)).Warn("[kernel] terminated thread held the suspend gate; released")
	}
	k.log.WithField("thread", int(h)).Debug("[kernel] thread terminated")
	return nil
}

// IsActive reports whether h names an Active thread.
func (k *Kernel) IsActive(h Handle) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state != lifecycleNew && k.table.IsActive(h)
}

// Descriptor returns a copy of the table entry for h.
func (k *Kernel) Descriptor(h Handle) (Descriptor, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.table.Descriptor(h)
}

// ThreadCount returns the number of registered threads.
func (k *Kernel) ThreadCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.table.Len()
}

// Current returns the thread whose invocation is in progress.
func (k *Kernel) Current() (Handle, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current, k.current != InvalidHandle
}

// Stats returns a snapshot of the dispatcher counters.
func (k *Kernel) Stats() Stats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.stats
}

// Clock returns the kernel's tick counter.
func (k *Kernel) Clock() *Clock { return k.clock }

// Delay blocks for at least ticks tick increments. See Clock.Delay.
func (k *Kernel) Delay(ticks uint32) { k.clock.Delay(ticks) }

// Yield gives up one tick. See Clock.Yield.
func (k *Kernel) Yield() { k.clock.Yield() }

// SuspendAll raises the suspend gate. A call made while an invocation is in
// progress is attributed to that thread, which becomes the gate owner.
func (k *Kernel) SuspendAll() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.gate.Suspend(k.current)
}

// ResumeAll lowers the suspend gate. It returns ErrInvalidState when the
// gate is not held.
func (k *Kernel) ResumeAll() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.gate.Resume(); err != nil {
		k.log.Warn("[kernel] unbalanced resume")
		return &ThreadError{Op: "resume", Handle: InvalidHandle, Err: err}
	}
	return nil
}

// Suspended reports whether the suspend gate is held.
func (k *Kernel) Suspended() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.gate.Suspended()
}

// Start runs the dispatch loop on the calling goroutine: a pass over the
// table, then one tick of housekeeping, until RequestStop is observed.
func (k *Kernel) Start() error {
	k.mu.Lock()
	if k.state != lifecycleReady {
		st := k.state
		k.mu.Unlock()
		k.log.WithField("state", st).Warn("[kernel] start refused")
		return stateError("start")
	}
	k.state = lifecycleRunning
	k.running.Store(true)
	k.mu.Unlock()

	k.log.WithField("tick", k.clock.Now()).Info("[kernel] dispatcher started")

	for k.running.Load() {
		k.pass()
		if !k.running.Load() {
			break
		}
		k.clock.waitFor(1, k.stopRequested)
	}

	k.mu.Lock()
	k.state = lifecycleReady
	stats := k.stats
	k.mu.Unlock()

	k.log.WithFields(log.Fields{
		"passes":      stats.Passes,
		"invocations": stats.Invocations,
	}).Info("[kernel] dispatcher stopped")
	return nil
}

// RequestStop asks Start to return. It takes effect once the invocation in
// progress, if any, returns.
func (k *Kernel) RequestStop() {
	k.running.Store(false)
	k.clock.wake()
}

// Running reports whether the dispatch loop is active and not asked to stop.
func (k *Kernel) Running() bool {
	return k.running.Load()
}

// Pass runs the dispatcher without the loop: it continues the pass in
// progress (or begins one) and returns true once the pass reached its end.
// It returns false early when the suspend gate defers the next thread; the
// following call resumes at that thread.
func (k *Kernel) Pass() (bool, error) {
	k.mu.Lock()
	if k.state != lifecycleReady {
		k.mu.Unlock()
		return false, stateError("pass")
	}
	k.state = lifecycleStepping
	k.mu.Unlock()

	done := k.pass()

	k.mu.Lock()
	k.state = lifecycleReady
	k.mu.Unlock()
	return done, nil
}

func (k *Kernel) stopRequested() bool {
	return !k.running.Load()
}

func (k *Kernel) pass() bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cursor == 0 {
		k.passLen = k.table.Len()
	}
	for k.cursor < k.passLen {
		if k.state == lifecycleRunning && !k.running.Load() {
			return false
		}

		h := Handle(k.cursor)
		if !k.table.threads[h].Active {
			k.cursor++
			continue
		}
		if !k.gate.Permits(h) {
			k.stats.Deferred++
			if owner, ok := k.gate.Owner(); ok && k.table.IsActive(owner) {
				k.invokeLocked(owner)
			}
			return false
		}

		k.cursor++
		k.invokeLocked(h)
	}

	k.cursor = 0
	k.stats.Passes++
	return true
}

// invokeLocked runs one entry with k.mu released.
func (k *Kernel) invokeLocked(h Handle) {
	d := k.table.threads[h]
	k.current = h
	k.stats.Invocations++
	k.mu.Unlock()

	info, panicked := invoke(h, d)

	k.mu.Lock()
	k.current = InvalidHandle
	if panicked {
		k.recoverLocked(info)
	}
}

func invoke(h Handle, d Descriptor) (info PanicInfo, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			info = panicInfo(h, d.Name, r)
			panicked = true
		}
	}()
	d.Entry(d.Arg)
	return info, false
}

func (k *Kernel) recoverLocked(info PanicInfo) {
	k.table.threads[info.Handle].Active = false
	k.gate.release(info.Handle)
	k.stats.Panics++

	k.log.WithFields(log.Fields{
		"thread": int(info.Handle),
		"name":   info.Name,
		"panic":  info.Value,
	}).Error("[kernel] thread panicked; terminated")

	if fn := k.onPanic; fn != nil {
		k.mu.Unlock()
		fn(info)
		k.mu.Lock()
	}
}
