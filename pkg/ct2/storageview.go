package ct2

import (
	"fmt"

	"ct2go/internal/native"
	"ct2go/pkg/types"
)

// StorageView is a dense tensor owned by the engine. The construction
// buffer is copied, so the caller's slice can be reused immediately.
type StorageView struct {
	g   guard
	raw *native.StorageView
}

func checkShape(shape []int, n int) error {
	want := 1
	for _, d := range shape {
		if d < 0 {
			return ErrConversion(fmt.Sprintf("negative dimension in shape %v", shape))
		}
		want *= d
	}
	if want != n {
		return ErrConversion(fmt.Sprintf("shape %v expects %d values but the buffer holds %d", shape, want, n))
	}
	return nil
}

// NewStorageViewFloat32 builds a float32 tensor of the given shape.
func NewStorageViewFloat32(shape []int, data []float32, device types.Device) (*StorageView, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	raw, err := native.NewStorageViewFloat32(shape, data, device)
	if err != nil {
		return nil, ErrConversion(err.Error())
	}
	return &StorageView{g: guard{what: "storage view"}, raw: raw}, nil
}

// NewStorageViewInt8 builds an int8 tensor of the given shape.
func NewStorageViewInt8(shape []int, data []int8, device types.Device) (*StorageView, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	raw, err := native.NewStorageViewInt8(shape, data, device)
	if err != nil {
		return nil, ErrConversion(err.Error())
	}
	return &StorageView{g: guard{what: "storage view"}, raw: raw}, nil
}

// NewStorageViewInt16 builds an int16 tensor of the given shape.
func NewStorageViewInt16(shape []int, data []int16, device types.Device) (*StorageView, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	raw, err := native.NewStorageViewInt16(shape, data, device)
	if err != nil {
		return nil, ErrConversion(err.Error())
	}
	return &StorageView{g: guard{what: "storage view"}, raw: raw}, nil
}

func wrapStorageView(raw *native.StorageView) *StorageView {
	return &StorageView{g: guard{what: "storage view"}, raw: raw}
}

// Size reports the total number of elements.
func (v *StorageView) Size() int64 {
	if err := v.g.enter(); err != nil {
		return 0
	}
	defer v.g.leave()
	return v.raw.Size()
}

// Rank reports the number of dimensions.
func (v *StorageView) Rank() int {
	if err := v.g.enter(); err != nil {
		return 0
	}
	defer v.g.leave()
	return v.raw.Rank()
}

// Device reports where the tensor lives.
func (v *StorageView) Device() types.Device {
	if err := v.g.enter(); err != nil {
		return types.DeviceCPU
	}
	defer v.g.leave()
	return v.raw.Device()
}

// Close releases the tensor. Idempotent.
func (v *StorageView) Close() error {
	v.g.shutdown(v.raw.Release)
	return nil
}
