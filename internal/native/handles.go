package native

import "sync/atomic"

// liveHandles counts native objects currently owned by Go wrappers. It is
// incremented on every successful construction and decremented on release,
// in both the cgo build and the simulator.
var liveHandles atomic.Int64

// LiveHandles returns the number of native objects not yet released.
// Teardown tests use it to prove handles are freed exactly once.
func LiveHandles() int64 { return liveHandles.Load() }
