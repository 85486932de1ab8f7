//go:build !ct2

package native

import (
	"fmt"

	"ct2go/pkg/types"
)

// StorageView is the simulator's dense tensor handle. Buffers are copied
// on construction, same as the native build.
type StorageView struct {
	shape  []int
	size   int64
	device types.Device
	closed bool
}

func shapeSize(shape []int) int64 {
	size := int64(1)
	for _, d := range shape {
		size *= int64(d)
	}
	return size
}

func newSimStorageView(shape []int, dataLen int, device types.Device) (*StorageView, error) {
	want := shapeSize(shape)
	if want != int64(dataLen) {
		return nil, fmt.Errorf("shape %v expects %d values but the buffer holds %d", shape, want, dataLen)
	}
	liveHandles.Add(1)
	return &StorageView{
		shape:  append([]int(nil), shape...),
		size:   want,
		device: device,
	}, nil
}

// NewStorageViewFloat32 builds a float32 tensor from a copied buffer.
func NewStorageViewFloat32(shape []int, data []float32, device types.Device) (*StorageView, error) {
	return newSimStorageView(shape, len(data), device)
}

// NewStorageViewInt8 builds an int8 tensor from a copied buffer.
func NewStorageViewInt8(shape []int, data []int8, device types.Device) (*StorageView, error) {
	return newSimStorageView(shape, len(data), device)
}

// NewStorageViewInt16 builds an int16 tensor from a copied buffer.
func NewStorageViewInt16(shape []int, data []int16, device types.Device) (*StorageView, error) {
	return newSimStorageView(shape, len(data), device)
}

// Size reports the total number of elements.
func (v *StorageView) Size() int64 { return v.size }

// Rank reports the number of dimensions.
func (v *StorageView) Rank() int { return len(v.shape) }

// Device reports where the tensor lives.
func (v *StorageView) Device() types.Device { return v.device }

// Release frees the tensor. Safe to call more than once.
func (v *StorageView) Release() {
	if v.closed {
		return
	}
	v.closed = true
	liveHandles.Add(-1)
}

// dim returns the size of dimension i, or 1 when out of range.
func (v *StorageView) dim(i int) int {
	if i < 0 || i >= len(v.shape) {
		return 1
	}
	return v.shape[i]
}
