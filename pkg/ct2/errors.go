package ct2

// modelLoadError signals a failed model construction (bad path, missing or
// corrupt converted model, unusable device) so callers can map it to 500/503.
type modelLoadError struct {
	path string
	err  error
}

func (e modelLoadError) Error() string { return "model load failed: " + e.path + ": " + e.err.Error() }
func (e modelLoadError) Unwrap() error { return e.err }

// ErrModelLoad constructs a modelLoadError.
func ErrModelLoad(path string, err error) error { return modelLoadError{path: path, err: err} }

// IsModelLoad reports whether err indicates a failed model construction.
func IsModelLoad(err error) bool {
	_, ok := err.(modelLoadError)
	return ok
}

// conversionError signals invalid input detected before the engine is
// invoked (mismatched batch shapes, bad tensors) for 400 mapping.
type conversionError struct{ msg string }

func (e conversionError) Error() string { return "invalid input: " + e.msg }

// ErrConversion constructs a conversionError.
func ErrConversion(msg string) error { return conversionError{msg: msg} }

// IsConversion reports whether err indicates invalid input.
func IsConversion(err error) bool {
	_, ok := err.(conversionError)
	return ok
}

// runtimeError carries an engine diagnostic raised during a batch call.
// The engine's message is preserved verbatim.
type runtimeError struct{ err error }

func (e runtimeError) Error() string { return "engine: " + e.err.Error() }
func (e runtimeError) Unwrap() error { return e.err }

// ErrRuntime constructs a runtimeError.
func ErrRuntime(err error) error { return runtimeError{err: err} }

// IsRuntime reports whether err carries an engine diagnostic.
func IsRuntime(err error) bool {
	_, ok := err.(runtimeError)
	return ok
}

// closedError signals a call on a model that has already been closed.
type closedError struct{ what string }

func (e closedError) Error() string { return e.what + " is closed" }

// ErrClosed constructs a closedError.
func ErrClosed(what string) error { return closedError{what: what} }

// IsClosed reports whether err indicates a call on a closed model.
func IsClosed(err error) bool {
	_, ok := err.(closedError)
	return ok
}
