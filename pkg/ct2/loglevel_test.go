package ct2

import (
	"testing"

	"ct2go/pkg/types"
)

func TestEngineLogLevelRoundTrips(t *testing.T) {
	prev := EngineLogLevel()
	defer SetEngineLogLevel(prev)

	for _, lvl := range []types.LogLevel{types.LogOff, types.LogError, types.LogInfo, types.LogTrace} {
		SetEngineLogLevel(lvl)
		if got := EngineLogLevel(); got != lvl {
			t.Fatalf("got level %v, want %v", got, lvl)
		}
	}
}
