package ct2

import (
	"sync"

	"ct2go/pkg/types"
)

// guard serializes a model's lifecycle against its in-flight calls. Close
// waits for running batches to drain before the underlying handle is
// released, and calls started after Close fail with a closed error.
type guard struct {
	what string

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool

	cbMu sync.Mutex
}

func (g *guard) enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed(g.what)
	}
	g.wg.Add(1)
	return nil
}

func (g *guard) leave() { g.wg.Done() }

// shutdown marks the guard closed, waits for in-flight calls and then runs
// release exactly once.
func (g *guard) shutdown(release func()) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()
	release()
}

// wrapCallback serializes callback invocations unless the caller opted in
// to concurrent delivery. The engine may fire the callback from several
// worker threads at once.
func (g *guard) wrapCallback(cb types.StepCallback, unsafeConcurrent bool) types.StepCallback {
	if cb == nil || unsafeConcurrent {
		return cb
	}
	return func(step types.GenerationStepResult) bool {
		g.cbMu.Lock()
		defer g.cbMu.Unlock()
		return cb(step)
	}
}
