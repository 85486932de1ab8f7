package httpapi

import "context"

// serverBaseCtx covers the daemon's lifetime. The daemon cancels it when
// shutdown starts so long-running batch calls stop decoding even if their
// client connections stay open.
var serverBaseCtx = context.Background()

// SetBaseContext installs the lifetime context consulted by every handler.
// Passing nil restores the Background default.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context canceled as soon as either parent is done,
// tying one engine call to both the request and the daemon lifetime. The
// cancel func releases the watcher goroutine and must always be called.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	joined, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		select {
		case <-a.Done():
		case <-b.Done():
		case <-joined.Done():
		}
	}()
	return joined, cancel
}
