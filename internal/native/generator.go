//go:build ct2

package native

/*
#include <stdlib.h>
#include "ct2go.h"
*/
import "C"

import (
	"unsafe"

	"ct2go/pkg/types"
)

// Generator is the raw handle to one ctranslate2::Generator replica pool.
type Generator struct {
	ptr *C.ct2_generator
}

// OpenGenerator loads a language model from a converted model directory.
func OpenGenerator(modelPath string, cfg types.Config) (*Generator, error) {
	cPath := C.CString(modelPath)
	defer C.free(unsafe.Pointer(cPath))

	cc := newCConfig(cfg)
	defer cc.free()
	var cerr *C.char
	ptr := C.ct2_generator_open(cPath, &cc.cfg, &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &Generator{ptr: ptr}, nil
}

// OpenGeneratorFromMemory loads a language model from an in-memory registry.
func OpenGeneratorFromMemory(mem *ModelMemory, cfg types.Config) (*Generator, error) {
	cc := newCConfig(cfg)
	defer cc.free()
	var cerr *C.char
	ptr := C.ct2_generator_open_memory(mem.ptr, &cc.cfg, &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &Generator{ptr: ptr}, nil
}

func cGenerationOptions(opts types.GenerationOptions, suppress *cTokenBatch, end *cEndToken, prompt *cStringList) C.ct2_generation_options {
	var c C.ct2_generation_options
	c.beam_size = C.size_t(opts.BeamSize)
	c.patience = C.float(opts.Patience)
	c.length_penalty = C.float(opts.LengthPenalty)
	c.repetition_penalty = C.float(opts.RepetitionPenalty)
	c.no_repeat_ngram_size = C.size_t(opts.NoRepeatNgramSize)
	c.disable_unk = C.bool(opts.DisableUnk)
	c.suppress_sequences = suppress.ptr()
	c.num_suppress_sequences = C.size_t(suppress.count)
	c.end_token = end.tok
	c.return_end_token = C.bool(opts.ReturnEndToken)
	c.max_length = C.size_t(opts.MaxLength)
	c.min_length = C.size_t(opts.MinLength)
	c.sampling_topk = C.size_t(opts.SamplingTopK)
	c.sampling_topp = C.float(opts.SamplingTopP)
	c.sampling_temperature = C.float(opts.SamplingTemperature)
	c.num_hypotheses = C.size_t(opts.NumHypotheses)
	c.return_scores = C.bool(opts.ReturnScores)
	c.return_alternatives = C.bool(opts.ReturnAlternatives)
	c.min_alternative_expansion_prob = C.float(opts.MinAlternativeExpansionProb)
	c.static_prompt = prompt.ptr()
	c.static_prompt_len = C.size_t(prompt.count)
	c.cache_static_prompt = C.bool(opts.CacheStaticPrompt)
	c.include_prompt_in_result = C.bool(opts.IncludePromptInResult)
	c.max_batch_size = C.size_t(opts.MaxBatchSize)
	c.batch_type = C.int32_t(opts.BatchType)
	return c
}

// GenerateBatch decodes continuations for a batch of start sequences.
func (g *Generator) GenerateBatch(startTokens [][]string, opts types.GenerationOptions, cb types.StepCallback) ([]types.GenerationResult, error) {
	start := newCTokenBatch(startTokens)
	defer start.free()
	suppress := newCTokenBatch(opts.SuppressSequences)
	defer suppress.free()
	end := newCEndToken(opts.EndToken)
	defer end.free()
	prompt := newCStringList(opts.StaticPrompt)
	defer prompt.free()

	copts := cGenerationOptions(opts, suppress, end, prompt)

	handle := newCallbackHandle(cb)
	defer handle.release()

	var (
		n    C.size_t
		cerr *C.char
	)
	res := C.ct2_generator_generate_batch(
		g.ptr,
		start.ptr(), C.size_t(len(startTokens)),
		&copts,
		handle.fn(), handle.data(),
		&n, &cerr,
	)
	if res == nil {
		return nil, takeErr(cerr)
	}
	defer C.ct2_generation_results_free(res, n)

	out := make([]types.GenerationResult, int(n))
	for i, r := range unsafe.Slice(res, int(n)) {
		out[i] = types.GenerationResult{
			Sequences:   goStringSeqs(r.sequences, r.num_sequences),
			SequenceIDs: goIDSeqs(r.sequence_ids, r.num_sequence_ids),
			Scores:      goFloats(r.scores, r.num_scores),
		}
	}
	return out, nil
}

// QueuedBatches reports the engine work queue depth at the time of the call.
func (g *Generator) QueuedBatches() int {
	return int(C.ct2_generator_num_queued_batches(g.ptr))
}

// ActiveBatches reports queued plus in-progress batches.
func (g *Generator) ActiveBatches() int {
	return int(C.ct2_generator_num_active_batches(g.ptr))
}

// Replicas reports the engine replica pool size.
func (g *Generator) Replicas() int {
	return int(C.ct2_generator_num_replicas(g.ptr))
}

// Release destroys the native instance.
func (g *Generator) Release() {
	if g.ptr == nil {
		return
	}
	C.ct2_generator_free(g.ptr)
	g.ptr = nil
	liveHandles.Add(-1)
}
