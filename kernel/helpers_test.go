package kernel

import (
	"io"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() log.FieldLogger {
	l := log.New()
	l.Out = io.Discard
	return l
}

func newKernel(t *testing.T, opts ...Option) *Kernel {
	t.Helper()
	k := New(append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, k.Initialize())
	return k
}

// recorder collects invocation names in order.
type recorder struct {
	mu  sync.Mutex
	seq []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	r.seq = append(r.seq, name)
	r.mu.Unlock()
}

func (r *recorder) entry(name string) Entry {
	return func(any) { r.add(name) }
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seq...)
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.seq {
		if s == name {
			n++
		}
	}
	return n
}

// startTicker plays the periodic tick interrupt for c until the test ends.
func startTicker(t *testing.T, c *Clock) {
	t.Helper()
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tk := time.NewTicker(100 * time.Microsecond)
		defer tk.Stop()
		for {
			select {
			case <-done:
				return
			case <-tk.C:
				c.Tick()
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		wg.Wait()
	})
}

// runStart runs k.Start on its own goroutine and returns a channel that
// receives its result.
func runStart(k *Kernel) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- k.Start() }()
	return ch
}

func waitStart(t *testing.T, ch <-chan error) {
	t.Helper()
	select {
	case err := <-ch:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Start to return")
	}
}
