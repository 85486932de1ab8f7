//go:build ct2

package native

// The preamble of callback.go cannot define functions because it exports
// ct2goStep; the function-pointer getter lives here instead.

/*
#include "ct2go.h"

extern bool ct2goStep(ct2_step_result* step, void* data);

static ct2_step_callback ct2go_step_callback(void) {
	return (ct2_step_callback)ct2goStep;
}
*/
import "C"

func stepCallbackPtr() C.ct2_step_callback {
	return C.ct2go_step_callback()
}
