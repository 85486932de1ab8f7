//go:build ct2

package native

import (
	"testing"

	"ct2go/pkg/types"
)

// The runtime's cgo pointer checker panics when a payload handed to C holds
// a pointer into unpinned Go memory, so passing each marshalled shape
// through a native call is the assertion.
func TestMarshalledPayloadsHoldNoGoPointers(t *testing.T) {
	cfg := types.DefaultConfig() // DeviceIndices [0] exercises the index array

	opts := types.DefaultTranslationOptions()
	opts.SuppressSequences = [][]string{{"x", "y"}, {}}
	opts.EndToken = types.EndTokenIDs{3, 7}
	vetTranslationPayload([][]string{{"Hello", "world"}, {}, {"!"}}, cfg, opts)

	opts.EndToken = types.EndTokenMultiple{"</s>", "<stop>"}
	vetTranslationPayload(nil, cfg, opts)

	wopts := types.DefaultWhisperOptions() // SuppressTokens [-1]
	vetWhisperPayload(wopts, [][]int{{1, 2, 3}, {}})
}
