package ct2

import (
	"context"
	"fmt"

	"ct2go/internal/native"
	"ct2go/pkg/types"
)

// Translator runs batched sequence-to-sequence translation over one loaded
// model. It owns the native handle exclusively.
type Translator struct {
	g    guard
	raw  *native.Translator
	path string
}

// OpenTranslator loads a converted translation model from disk.
func OpenTranslator(modelPath string, cfg types.Config) (*Translator, error) {
	raw, err := native.OpenTranslator(modelPath, cfg)
	if err != nil {
		return nil, ErrModelLoad(modelPath, err)
	}
	return &Translator{g: guard{what: "translator"}, raw: raw, path: modelPath}, nil
}

// OpenTranslatorFromMemory loads a converted translation model from an
// in-memory file set.
func OpenTranslatorFromMemory(mem *ModelMemory, cfg types.Config) (*Translator, error) {
	if err := mem.g.enter(); err != nil {
		return nil, err
	}
	raw, err := native.OpenTranslatorFromMemory(mem.raw, cfg)
	mem.g.leave()
	if err != nil {
		return nil, ErrModelLoad(mem.ModelID(), err)
	}
	return &Translator{g: guard{what: "translator"}, raw: raw, path: mem.ModelID()}, nil
}

// ModelPath reports where the model was loaded from.
func (t *Translator) ModelPath() string { return t.path }

func validateBatchCall(sourceLen, prefixLen, beamSize int, cb types.StepCallback) error {
	if prefixLen != 0 && prefixLen != sourceLen {
		return ErrConversion(fmt.Sprintf("got %d target prefixes for %d source sequences", prefixLen, sourceLen))
	}
	if cb != nil && beamSize > 1 {
		return ErrConversion(fmt.Sprintf("a step callback requires beam_size 1, got %d", beamSize))
	}
	return nil
}

// TranslateBatch translates a batch of tokenized source sequences. The
// optional targetPrefix constrains the start of each output; when given it
// must have one entry per source sequence. A non-nil callback is invoked
// once per generated token and may return true to stop that batch item.
// Results are returned in source order.
func (t *Translator) TranslateBatch(ctx context.Context, source, targetPrefix [][]string, opts types.TranslationOptions, cb types.StepCallback) ([]types.TranslationResult, error) {
	if err := validateBatchCall(len(source), len(targetPrefix), opts.BeamSize, cb); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.g.enter(); err != nil {
		return nil, err
	}
	defer t.g.leave()

	results, err := t.raw.TranslateBatch(source, targetPrefix, opts, t.g.wrapCallback(cb, opts.UnsafeConcurrentCallback))
	if err != nil {
		return nil, ErrRuntime(err)
	}
	return results, nil
}

// Translate is a single-sequence convenience over TranslateBatch.
func (t *Translator) Translate(ctx context.Context, source []string, opts types.TranslationOptions) (types.TranslationResult, error) {
	results, err := t.TranslateBatch(ctx, [][]string{source}, nil, opts, nil)
	if err != nil {
		return types.TranslationResult{}, err
	}
	return results[0], nil
}

// QueuedBatches reports the number of batches waiting in the work queue.
func (t *Translator) QueuedBatches() int {
	if err := t.g.enter(); err != nil {
		return 0
	}
	defer t.g.leave()
	return t.raw.QueuedBatches()
}

// ActiveBatches reports the number of batches currently being processed.
func (t *Translator) ActiveBatches() int {
	if err := t.g.enter(); err != nil {
		return 0
	}
	defer t.g.leave()
	return t.raw.ActiveBatches()
}

// Replicas reports the number of model replicas serving this translator.
func (t *Translator) Replicas() int {
	if err := t.g.enter(); err != nil {
		return 0
	}
	defer t.g.leave()
	return t.raw.Replicas()
}

// Close waits for in-flight batches to drain and releases the model.
// Subsequent calls on the translator fail; Close itself is idempotent.
func (t *Translator) Close() error {
	t.g.shutdown(t.raw.Release)
	return nil
}
