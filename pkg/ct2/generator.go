package ct2

import (
	"context"

	"ct2go/internal/native"
	"ct2go/pkg/types"
)

// Generator runs batched decoder-only text generation over one loaded
// model. It owns the native handle exclusively.
type Generator struct {
	g    guard
	raw  *native.Generator
	path string
}

// OpenGenerator loads a converted language model from disk.
func OpenGenerator(modelPath string, cfg types.Config) (*Generator, error) {
	raw, err := native.OpenGenerator(modelPath, cfg)
	if err != nil {
		return nil, ErrModelLoad(modelPath, err)
	}
	return &Generator{g: guard{what: "generator"}, raw: raw, path: modelPath}, nil
}

// OpenGeneratorFromMemory loads a converted language model from an
// in-memory file set.
func OpenGeneratorFromMemory(mem *ModelMemory, cfg types.Config) (*Generator, error) {
	if err := mem.g.enter(); err != nil {
		return nil, err
	}
	raw, err := native.OpenGeneratorFromMemory(mem.raw, cfg)
	mem.g.leave()
	if err != nil {
		return nil, ErrModelLoad(mem.ModelID(), err)
	}
	return &Generator{g: guard{what: "generator"}, raw: raw, path: mem.ModelID()}, nil
}

// ModelPath reports where the model was loaded from.
func (g *Generator) ModelPath() string { return g.path }

// GenerateBatch decodes continuations for a batch of tokenized start
// sequences. A non-nil callback is invoked once per generated token, in
// the engine's scheduling order, and may return true to stop that batch
// item early. Results are returned in input order.
func (g *Generator) GenerateBatch(ctx context.Context, startTokens [][]string, opts types.GenerationOptions, cb types.StepCallback) ([]types.GenerationResult, error) {
	if err := validateBatchCall(len(startTokens), 0, opts.BeamSize, cb); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.g.enter(); err != nil {
		return nil, err
	}
	defer g.g.leave()

	results, err := g.raw.GenerateBatch(startTokens, opts, g.g.wrapCallback(cb, opts.UnsafeConcurrentCallback))
	if err != nil {
		return nil, ErrRuntime(err)
	}
	return results, nil
}

// Generate is a single-sequence convenience over GenerateBatch.
func (g *Generator) Generate(ctx context.Context, startTokens []string, opts types.GenerationOptions) (types.GenerationResult, error) {
	results, err := g.GenerateBatch(ctx, [][]string{startTokens}, opts, nil)
	if err != nil {
		return types.GenerationResult{}, err
	}
	return results[0], nil
}

// QueuedBatches reports the number of batches waiting in the work queue.
func (g *Generator) QueuedBatches() int {
	if err := g.g.enter(); err != nil {
		return 0
	}
	defer g.g.leave()
	return g.raw.QueuedBatches()
}

// ActiveBatches reports the number of batches currently being processed.
func (g *Generator) ActiveBatches() int {
	if err := g.g.enter(); err != nil {
		return 0
	}
	defer g.g.leave()
	return g.raw.ActiveBatches()
}

// Replicas reports the number of model replicas serving this generator.
func (g *Generator) Replicas() int {
	if err := g.g.enter(); err != nil {
		return 0
	}
	defer g.g.leave()
	return g.raw.Replicas()
}

// Close waits for in-flight batches to drain and releases the model.
// Subsequent calls on the generator fail; Close itself is idempotent.
func (g *Generator) Close() error {
	g.g.shutdown(g.raw.Release)
	return nil
}
