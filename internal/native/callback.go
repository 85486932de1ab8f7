//go:build ct2

package native

/*
#include "ct2go.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"ct2go/pkg/types"
)

// ct2goStep is the single trampoline the shim invokes for every generation
// step, from engine worker threads. callback_data carries a cgo.Handle to
// the per-call Go closure; the handle stays valid for the whole native call
// and is deleted by the caller once the call returns.
//
//export ct2goStep
func ct2goStep(step *C.ct2_step_result, data unsafe.Pointer) C.bool {
	cb := cgo.Handle(uintptr(data)).Value().(types.StepCallback)

	res := types.GenerationStepResult{
		Step:         int(step.step),
		BatchID:      int(step.batch_id),
		TokenID:      int(step.token_id),
		HypothesisID: int(step.hypothesis_id),
		Token:        C.GoString(step.token),
		IsLast:       bool(step.is_last),
	}
	if bool(step.has_log_prob) {
		lp := float32(step.log_prob)
		res.LogProb = &lp
	}
	return C.bool(cb(res))
}

// callbackHandle pins a step callback for the duration of one native call.
// A nil callback yields a null native handler together with a zero
// user-data pointer; the shim probes the function pointer, never the data.
type callbackHandle struct {
	h   cgo.Handle
	set bool
}

func newCallbackHandle(cb types.StepCallback) callbackHandle {
	if cb == nil {
		return callbackHandle{}
	}
	return callbackHandle{h: cgo.NewHandle(cb), set: true}
}

func (c callbackHandle) fn() C.ct2_step_callback {
	if !c.set {
		return nil
	}
	return stepCallbackPtr()
}

func (c callbackHandle) data() unsafe.Pointer {
	if !c.set {
		return nil
	}
	return unsafe.Pointer(uintptr(c.h)) //nolint:govet // cgo.Handle is a uintptr; this round-trip is safe
}

func (c callbackHandle) release() {
	if c.set {
		c.h.Delete()
	}
}
