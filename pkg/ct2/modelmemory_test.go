package ct2

import (
	"context"
	"testing"

	"ct2go/pkg/types"
)

func TestModelMemory_OpenModel(t *testing.T) {
	mem, err := NewModelMemory("tiny-nmt")
	if err != nil {
		t.Fatalf("new model memory: %v", err)
	}
	defer mem.Close()
	if mem.ModelID() != "tiny-nmt" {
		t.Fatalf("unexpected model id %q", mem.ModelID())
	}
	if err := mem.RegisterFile("model.bin", []byte{0x1}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := mem.RegisterFile("config.json", []byte("{}")); err != nil {
		t.Fatalf("register: %v", err)
	}

	tr, err := OpenTranslatorFromMemory(mem, types.DefaultConfig())
	if err != nil {
		t.Fatalf("open from memory: %v", err)
	}
	defer tr.Close()

	results, err := tr.TranslateBatch(context.Background(), [][]string{{"hi"}}, nil, types.DefaultTranslationOptions(), nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestModelMemory_MissingModelFile(t *testing.T) {
	mem, err := NewModelMemory("empty")
	if err != nil {
		t.Fatalf("new model memory: %v", err)
	}
	defer mem.Close()

	if _, err := OpenGeneratorFromMemory(mem, types.DefaultConfig()); !IsModelLoad(err) {
		t.Fatalf("expected model load error, got %v", err)
	}
}

func TestModelMemory_ClosedRejectsUse(t *testing.T) {
	mem, err := NewModelMemory("gone")
	if err != nil {
		t.Fatalf("new model memory: %v", err)
	}
	if err := mem.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := mem.RegisterFile("model.bin", nil); !IsClosed(err) {
		t.Fatalf("expected closed error, got %v", err)
	}
	if _, err := OpenWhisperFromMemory(mem, types.DefaultConfig()); !IsClosed(err) {
		t.Fatalf("expected closed error, got %v", err)
	}
}
