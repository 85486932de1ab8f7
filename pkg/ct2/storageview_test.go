package ct2

import (
	"testing"

	"ct2go/internal/native"
	"ct2go/pkg/types"
)

func TestNewStorageView_ShapeMismatch(t *testing.T) {
	_, err := NewStorageViewFloat32([]int{2, 3}, make([]float32, 5), types.DeviceCPU)
	if !IsConversion(err) {
		t.Fatalf("expected conversion error, got %v", err)
	}
	_, err = NewStorageViewInt8([]int{-1}, nil, types.DeviceCPU)
	if !IsConversion(err) {
		t.Fatalf("expected conversion error for negative dimension, got %v", err)
	}
}

func TestNewStorageView_BufferIsCopied(t *testing.T) {
	data := []float32{1, 2, 3, 4}
	sv, err := NewStorageViewFloat32([]int{2, 2}, data, types.DeviceCPU)
	if err != nil {
		t.Fatalf("storage view: %v", err)
	}
	defer sv.Close()

	// Mutating the caller's buffer must not disturb the tensor.
	data[0] = 99
	if sv.Size() != 4 || sv.Rank() != 2 {
		t.Fatalf("unexpected tensor: size %d rank %d", sv.Size(), sv.Rank())
	}
	if sv.Device() != types.DeviceCPU {
		t.Fatalf("unexpected device %v", sv.Device())
	}
}

func TestStorageView_CloseIdempotent(t *testing.T) {
	baseline := native.LiveHandles()
	sv, err := NewStorageViewInt16([]int{3}, make([]int16, 3), types.DeviceCPU)
	if err != nil {
		t.Fatalf("storage view: %v", err)
	}
	if err := sv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := sv.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if got := native.LiveHandles(); got != baseline {
		t.Fatalf("live handles leaked: baseline %d, now %d", baseline, got)
	}
	if sv.Size() != 0 {
		t.Fatalf("closed tensor should report size 0")
	}
}
