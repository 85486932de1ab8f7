package engine

// modelNotFoundError signals a requested model id absent from the registry.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// wrongKindError signals a request routed to a model of the wrong runner
// kind (e.g. translate against a generator) for 400 mapping.
type wrongKindError struct {
	id   string
	kind string
	want string
}

func (e wrongKindError) Error() string {
	return "model " + e.id + " is a " + e.kind + ", not a " + e.want
}

// ErrWrongKind constructs a wrongKindError.
func ErrWrongKind(id, kind, want string) error { return wrongKindError{id: id, kind: kind, want: want} }

// IsWrongKind reports whether the error indicates a runner kind mismatch.
func IsWrongKind(err error) bool {
	_, ok := err.(wrongKindError)
	return ok
}

// shuttingDownError signals a request that arrived after Close began.
type shuttingDownError struct{}

func (shuttingDownError) Error() string { return "engine manager is shutting down" }

// ErrShuttingDown constructs a shuttingDownError.
func ErrShuttingDown() error { return shuttingDownError{} }

// IsShuttingDown reports whether the error indicates daemon shutdown.
func IsShuttingDown(err error) bool {
	_, ok := err.(shuttingDownError)
	return ok
}
