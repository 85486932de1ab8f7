//go:build ct2

package native

/*
#include <stdlib.h>
#include "ct2go.h"
*/
import "C"

import "unsafe"

// ModelMemory is the raw handle to the engine's in-memory model reader: a
// named set of (filename, bytes) pairs standing in for a model directory.
type ModelMemory struct {
	ptr *C.ct2_model_memory
}

// NewModelMemory creates an empty in-memory registry under the given name.
func NewModelMemory(modelName string) (*ModelMemory, error) {
	cName := C.CString(modelName)
	defer C.free(unsafe.Pointer(cName))

	var cerr *C.char
	ptr := C.ct2_model_memory_new(cName, &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &ModelMemory{ptr: ptr}, nil
}

// RegisterFile adds one file's contents. The bytes are copied natively.
func (m *ModelMemory) RegisterFile(filename string, content []byte) {
	cName := C.CString(filename)
	defer C.free(unsafe.Pointer(cName))

	var dataPtr *C.uint8_t
	if len(content) > 0 {
		dataPtr = (*C.uint8_t)(unsafe.Pointer(&content[0]))
	}
	C.ct2_model_memory_register_file(m.ptr, cName, dataPtr, C.size_t(len(content)))
}

// ModelID returns the engine-assigned identifier for this registry.
func (m *ModelMemory) ModelID() string {
	s := C.ct2_model_memory_get_model_id(m.ptr)
	defer C.ct2_string_free(s)
	return C.GoString(s)
}

// Release frees the native registry.
func (m *ModelMemory) Release() {
	if m.ptr == nil {
		return
	}
	C.ct2_model_memory_free(m.ptr)
	m.ptr = nil
	liveHandles.Add(-1)
}
