package kernel

// DefaultCapacity is the thread table size used when no capacity is configured.
const DefaultCapacity = 8

// DefaultStackSize is the stack hint recorded when ThreadAttr leaves it zero.
const DefaultStackSize = 512

// Entry is a thread entry point. It is invoked once per dispatch pass and
// must do a bounded unit of work before returning.
type Entry func(arg any)

// Handle is the stable index of a thread in its table.
type Handle int

// InvalidHandle is returned alongside registration errors.
const InvalidHandle Handle = -1

// Priority is accepted at registration and recorded on the descriptor.
//
// It is reserved: dispatch order is always registration order and no
// priority value changes it.
type Priority int8

const (
	PriorityNone        Priority = 0
	PriorityIdle        Priority = 1
	PriorityLow         Priority = 8
	PriorityBelowNormal Priority = 16
	PriorityNormal      Priority = 24
	PriorityAboveNormal Priority = 32
	PriorityHigh        Priority = 40
	PriorityRealtime    Priority = 48
)

func (p Priority) String() string {
	switch p {
	case PriorityNone:
		return "none"
	case PriorityIdle:
		return "idle"
	case PriorityLow:
		return "low"
	case PriorityBelowNormal:
		return "below-normal"
	case PriorityNormal:
		return "normal"
	case PriorityAboveNormal:
		return "above-normal"
	case PriorityHigh:
		return "high"
	case PriorityRealtime:
		return "realtime"
	default:
		return "custom"
	}
}

// ThreadAttr carries optional registration hints. A nil *ThreadAttr selects
// the defaults.
type ThreadAttr struct {
	Name string
	// StackSize is informational; no per-thread stack is allocated.
	StackSize uint32
	Priority  Priority
}

// Descriptor is one thread table entry.
type Descriptor struct {
	Entry     Entry
	Arg       any
	Name      string
	StackSize uint32
	Priority  Priority
	Active    bool
}

// ThreadTable is an append-only registry with a fixed capacity.
//
// Entries are never removed or reused; Terminate only clears Active.
// ThreadTable does no locking of its own.
type ThreadTable struct {
	threads  []Descriptor
	capacity int
}

// NewThreadTable returns an empty table. A non-positive capacity selects
// DefaultCapacity.
func NewThreadTable(capacity int) *ThreadTable {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ThreadTable{
		threads:  make([]Descriptor, 0, capacity),
		capacity: capacity,
	}
}

// Register appends an Active descriptor and returns its handle.
func (t *ThreadTable) Register(entry Entry, arg any, attr *ThreadAttr) (Handle, error) {
	if entry == nil {
		return InvalidHandle, &ThreadError{Op: "register", Handle: InvalidHandle, Err: ErrInvalidArgument}
	}
	if len(t.threads) >= t.capacity {
		return InvalidHandle, &ThreadError{Op: "register", Handle: InvalidHandle, Err: ErrRegistrationFull}
	}

	d := Descriptor{
		Entry:     entry,
		Arg:       arg,
		StackSize: DefaultStackSize,
		Priority:  PriorityNormal,
		Active:    true,
	}
	if attr != nil {
		d.Name = attr.Name
		if attr.StackSize != 0 {
			d.StackSize = attr.StackSize
		}
		if attr.Priority != PriorityNone {
			d.Priority = attr.Priority
		}
	}

	h := Handle(len(t.threads))
	t.threads = append(t.threads, d)
	return h, nil
}

// Terminate marks the thread Inactive. Terminating an Inactive thread is not
// an error.
func (t *ThreadTable) Terminate(h Handle) error {
	if !t.valid(h) {
		return &ThreadError{Op: "terminate", Handle: h, Err: ErrInvalidArgument}
	}
	t.threads[h].Active = false
	return nil
}

// IsActive reports whether h names an Active thread.
func (t *ThreadTable) IsActive(h Handle) bool {
	return t.valid(h) && t.threads[h].Active
}

// Descriptor returns a copy of the entry for h.
func (t *ThreadTable) Descriptor(h Handle) (Descriptor, bool) {
	if !t.valid(h) {
		return Descriptor{}, false
	}
	return t.threads[h], true
}

// Len returns the number of registered threads, active or not.
func (t *ThreadTable) Len() int { return len(t.threads) }

// Cap returns the table capacity.
func (t *ThreadTable) Cap() int { return t.capacity }

func (t *ThreadTable) valid(h Handle) bool {
	return h >= 0 && int(h) < len(t.threads)
}

func (t *ThreadTable) reset() {
	clear(t.threads)
	t.threads = t.threads[:0]
}
