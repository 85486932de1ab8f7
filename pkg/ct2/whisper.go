package ct2

import (
	"context"
	"fmt"

	"ct2go/internal/native"
	"ct2go/pkg/types"
)

// Whisper runs batched speech recognition over one loaded Whisper model.
// It owns the native handle exclusively.
type Whisper struct {
	g    guard
	raw  *native.Whisper
	path string
}

// OpenWhisper loads a converted Whisper model from disk.
func OpenWhisper(modelPath string, cfg types.Config) (*Whisper, error) {
	raw, err := native.OpenWhisper(modelPath, cfg)
	if err != nil {
		return nil, ErrModelLoad(modelPath, err)
	}
	return &Whisper{g: guard{what: "whisper"}, raw: raw, path: modelPath}, nil
}

// OpenWhisperFromMemory loads a converted Whisper model from an in-memory
// file set.
func OpenWhisperFromMemory(mem *ModelMemory, cfg types.Config) (*Whisper, error) {
	if err := mem.g.enter(); err != nil {
		return nil, err
	}
	raw, err := native.OpenWhisperFromMemory(mem.raw, cfg)
	mem.g.leave()
	if err != nil {
		return nil, ErrModelLoad(mem.ModelID(), err)
	}
	return &Whisper{g: guard{what: "whisper"}, raw: raw, path: mem.ModelID()}, nil
}

// ModelPath reports where the model was loaded from.
func (w *Whisper) ModelPath() string { return w.path }

func (w *Whisper) checkFeatures(features *StorageView) error {
	if features == nil || features.raw == nil {
		return ErrConversion("a features tensor is required")
	}
	if features.Rank() != 3 {
		return ErrConversion(fmt.Sprintf("features must be a rank 3 tensor, got rank %d", features.Rank()))
	}
	return nil
}

// Generate transcribes a batch of 30-second mel spectrogram windows. One
// prompt sequence is required per batch item. Results are returned in
// batch order.
func (w *Whisper) Generate(ctx context.Context, features *StorageView, prompts [][]string, opts types.WhisperOptions) ([]types.WhisperResult, error) {
	if err := w.checkFeatures(features); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := w.g.enter(); err != nil {
		return nil, err
	}
	defer w.g.leave()
	if err := features.g.enter(); err != nil {
		return nil, err
	}
	defer features.g.leave()

	results, err := w.raw.Generate(features.raw, prompts, opts)
	if err != nil {
		return nil, ErrRuntime(err)
	}
	return results, nil
}

// DetectLanguage returns, for each batch item, the model's language
// probabilities sorted most probable first.
func (w *Whisper) DetectLanguage(ctx context.Context, features *StorageView) ([][]types.LanguageProb, error) {
	if err := w.checkFeatures(features); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := w.g.enter(); err != nil {
		return nil, err
	}
	defer w.g.leave()
	if err := features.g.enter(); err != nil {
		return nil, err
	}
	defer features.g.leave()

	results, err := w.raw.DetectLanguage(features.raw)
	if err != nil {
		return nil, ErrRuntime(err)
	}
	return results, nil
}

// Align maps text token positions to audio time indices for each batch
// item.
func (w *Whisper) Align(ctx context.Context, features *StorageView, startSequence []int, textTokens [][]int, numFrames []int, medianFilterWidth int) ([]types.AlignmentResult, error) {
	if err := w.checkFeatures(features); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := w.g.enter(); err != nil {
		return nil, err
	}
	defer w.g.leave()
	if err := features.g.enter(); err != nil {
		return nil, err
	}
	defer features.g.leave()

	results, err := w.raw.Align(features.raw, startSequence, textTokens, numFrames, medianFilterWidth)
	if err != nil {
		return nil, ErrRuntime(err)
	}
	return results, nil
}

// Encode runs the model encoder over the features and returns the encoder
// output. The caller owns the returned tensor and must Close it.
func (w *Whisper) Encode(ctx context.Context, features *StorageView) (*StorageView, error) {
	if err := w.checkFeatures(features); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := w.g.enter(); err != nil {
		return nil, err
	}
	defer w.g.leave()
	if err := features.g.enter(); err != nil {
		return nil, err
	}
	defer features.g.leave()

	out, err := w.raw.Encode(features.raw)
	if err != nil {
		return nil, ErrRuntime(err)
	}
	return wrapStorageView(out), nil
}

// IsMultilingual reports whether the model supports multiple languages.
func (w *Whisper) IsMultilingual() bool {
	if err := w.g.enter(); err != nil {
		return false
	}
	defer w.g.leave()
	return w.raw.IsMultilingual()
}

// NMels reports the number of mel bins the model expects.
func (w *Whisper) NMels() int {
	if err := w.g.enter(); err != nil {
		return 0
	}
	defer w.g.leave()
	return w.raw.NMels()
}

// NumLanguages reports the number of languages the model supports.
func (w *Whisper) NumLanguages() int {
	if err := w.g.enter(); err != nil {
		return 0
	}
	defer w.g.leave()
	return w.raw.NumLanguages()
}

// QueuedBatches reports the number of batches waiting in the work queue.
func (w *Whisper) QueuedBatches() int {
	if err := w.g.enter(); err != nil {
		return 0
	}
	defer w.g.leave()
	return w.raw.QueuedBatches()
}

// ActiveBatches reports the number of batches currently being processed.
func (w *Whisper) ActiveBatches() int {
	if err := w.g.enter(); err != nil {
		return 0
	}
	defer w.g.leave()
	return w.raw.ActiveBatches()
}

// Replicas reports the number of model replicas serving this model.
func (w *Whisper) Replicas() int {
	if err := w.g.enter(); err != nil {
		return 0
	}
	defer w.g.leave()
	return w.raw.Replicas()
}

// Close waits for in-flight batches to drain and releases the model.
// Subsequent calls on the model fail; Close itself is idempotent.
func (w *Whisper) Close() error {
	w.g.shutdown(w.raw.Release)
	return nil
}
