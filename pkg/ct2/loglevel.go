package ct2

import (
	"ct2go/internal/native"
	"ct2go/pkg/types"
)

// SetEngineLogLevel sets the engine's global log verbosity. It applies
// process-wide, across every open runner.
func SetEngineLogLevel(level types.LogLevel) { native.SetLogLevel(level) }

// EngineLogLevel returns the engine's current global log verbosity.
func EngineLogLevel() types.LogLevel { return native.GetLogLevel() }
