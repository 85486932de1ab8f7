//go:build ct2

package native

/*
#include "ct2go.h"
*/
import "C"

import (
	"unsafe"

	"ct2go/pkg/types"
)

// StorageView is the raw handle to a native tensor buffer. Construction
// copies the host buffer into engine-owned memory, so the Go slice may be
// collected freely afterwards.
type StorageView struct {
	ptr *C.ct2_storage_view
}

// NewStorageViewFloat32 builds a float32 tensor with the given shape.
func NewStorageViewFloat32(shape []int, data []float32, device types.Device) (*StorageView, error) {
	cshape := cSizeList(shape)
	var (
		shapePtr *C.size_t
		dataPtr  *C.float
	)
	if len(cshape) > 0 {
		shapePtr = &cshape[0]
	}
	if len(data) > 0 {
		dataPtr = (*C.float)(unsafe.Pointer(&data[0]))
	}
	var cerr *C.char
	ptr := C.ct2_storage_view_new_float32(shapePtr, C.size_t(len(shape)), dataPtr, C.size_t(len(data)), C.int32_t(device), &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &StorageView{ptr: ptr}, nil
}

// NewStorageViewInt8 builds an int8 tensor with the given shape.
func NewStorageViewInt8(shape []int, data []int8, device types.Device) (*StorageView, error) {
	cshape := cSizeList(shape)
	var (
		shapePtr *C.size_t
		dataPtr  *C.int8_t
	)
	if len(cshape) > 0 {
		shapePtr = &cshape[0]
	}
	if len(data) > 0 {
		dataPtr = (*C.int8_t)(unsafe.Pointer(&data[0]))
	}
	var cerr *C.char
	ptr := C.ct2_storage_view_new_int8(shapePtr, C.size_t(len(shape)), dataPtr, C.size_t(len(data)), C.int32_t(device), &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &StorageView{ptr: ptr}, nil
}

// NewStorageViewInt16 builds an int16 tensor with the given shape.
func NewStorageViewInt16(shape []int, data []int16, device types.Device) (*StorageView, error) {
	cshape := cSizeList(shape)
	var (
		shapePtr *C.size_t
		dataPtr  *C.int16_t
	)
	if len(cshape) > 0 {
		shapePtr = &cshape[0]
	}
	if len(data) > 0 {
		dataPtr = (*C.int16_t)(unsafe.Pointer(&data[0]))
	}
	var cerr *C.char
	ptr := C.ct2_storage_view_new_int16(shapePtr, C.size_t(len(shape)), dataPtr, C.size_t(len(data)), C.int32_t(device), &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &StorageView{ptr: ptr}, nil
}

// Size returns the total number of elements.
func (v *StorageView) Size() int64 { return int64(C.ct2_storage_view_size(v.ptr)) }

// Rank returns the number of dimensions.
func (v *StorageView) Rank() int { return int(C.ct2_storage_view_rank(v.ptr)) }

// Device returns where the buffer is allocated.
func (v *StorageView) Device() types.Device {
	return types.Device(C.ct2_storage_view_device(v.ptr))
}

// Release frees the native buffer.
func (v *StorageView) Release() {
	if v.ptr == nil {
		return
	}
	C.ct2_storage_view_free(v.ptr)
	v.ptr = nil
	liveHandles.Add(-1)
}

// wrapStorageView adopts an engine-allocated view (whisper encode output).
func wrapStorageView(ptr *C.ct2_storage_view) *StorageView {
	liveHandles.Add(1)
	return &StorageView{ptr: ptr}
}
