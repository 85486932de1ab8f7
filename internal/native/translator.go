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

// Translator is the raw handle to one ctranslate2::Translator replica pool.
// Release must be called exactly once; ownership and in-flight accounting
// live in the wrapper layer above.
type Translator struct {
	ptr *C.ct2_translator
}

// OpenTranslator loads a translation model from a converted model directory.
func OpenTranslator(modelPath string, cfg types.Config) (*Translator, error) {
	cPath := C.CString(modelPath)
	defer C.free(unsafe.Pointer(cPath))

	cc := newCConfig(cfg)
	defer cc.free()
	var cerr *C.char
	ptr := C.ct2_translator_open(cPath, &cc.cfg, &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &Translator{ptr: ptr}, nil
}

// OpenTranslatorFromMemory loads a translation model from an in-memory
// registry instead of the filesystem.
func OpenTranslatorFromMemory(mem *ModelMemory, cfg types.Config) (*Translator, error) {
	cc := newCConfig(cfg)
	defer cc.free()
	var cerr *C.char
	ptr := C.ct2_translator_open_memory(mem.ptr, &cc.cfg, &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &Translator{ptr: ptr}, nil
}

func cTranslationOptions(opts types.TranslationOptions, suppress *cTokenBatch, end *cEndToken) C.ct2_translation_options {
	var c C.ct2_translation_options
	c.beam_size = C.size_t(opts.BeamSize)
	c.patience = C.float(opts.Patience)
	c.length_penalty = C.float(opts.LengthPenalty)
	c.coverage_penalty = C.float(opts.CoveragePenalty)
	c.repetition_penalty = C.float(opts.RepetitionPenalty)
	c.no_repeat_ngram_size = C.size_t(opts.NoRepeatNgramSize)
	c.disable_unk = C.bool(opts.DisableUnk)
	c.suppress_sequences = suppress.ptr()
	c.num_suppress_sequences = C.size_t(suppress.count)
	c.prefix_bias_beta = C.float(opts.PrefixBiasBeta)
	c.end_token = end.tok
	c.return_end_token = C.bool(opts.ReturnEndToken)
	c.max_input_length = C.size_t(opts.MaxInputLength)
	c.max_decoding_length = C.size_t(opts.MaxDecodingLength)
	c.min_decoding_length = C.size_t(opts.MinDecodingLength)
	c.sampling_topk = C.size_t(opts.SamplingTopK)
	c.sampling_topp = C.float(opts.SamplingTopP)
	c.sampling_temperature = C.float(opts.SamplingTemperature)
	c.use_vmap = C.bool(opts.UseVMap)
	c.num_hypotheses = C.size_t(opts.NumHypotheses)
	c.return_scores = C.bool(opts.ReturnScores)
	c.return_attention = C.bool(opts.ReturnAttention)
	c.return_logits_vocab = C.bool(opts.ReturnLogitsVocab)
	c.return_alternatives = C.bool(opts.ReturnAlternatives)
	c.min_alternative_expansion_prob = C.float(opts.MinAlternativeExpansionProb)
	c.replace_unknowns = C.bool(opts.ReplaceUnknowns)
	c.max_batch_size = C.size_t(opts.MaxBatchSize)
	c.batch_type = C.int32_t(opts.BatchType)
	return c
}

// TranslateBatch runs one batch through the engine. targetPrefix may be
// empty; length validation against source happens in the wrapper layer.
// Results come back in input order regardless of internal scheduling.
func (t *Translator) TranslateBatch(source, targetPrefix [][]string, opts types.TranslationOptions, cb types.StepCallback) ([]types.TranslationResult, error) {
	src := newCTokenBatch(source)
	defer src.free()
	prefix := newCTokenBatch(targetPrefix)
	defer prefix.free()
	suppress := newCTokenBatch(opts.SuppressSequences)
	defer suppress.free()
	end := newCEndToken(opts.EndToken)
	defer end.free()

	copts := cTranslationOptions(opts, suppress, end)

	handle := newCallbackHandle(cb)
	defer handle.release()

	var (
		n    C.size_t
		cerr *C.char
	)
	res := C.ct2_translator_translate_batch(
		t.ptr,
		src.ptr(), C.size_t(len(source)),
		prefix.ptr(), C.size_t(len(targetPrefix)),
		&copts,
		handle.fn(), handle.data(),
		&n, &cerr,
	)
	if res == nil {
		return nil, takeErr(cerr)
	}
	defer C.ct2_translation_results_free(res, n)

	out := make([]types.TranslationResult, int(n))
	for i, r := range unsafe.Slice(res, int(n)) {
		out[i] = types.TranslationResult{
			Hypotheses: goStringSeqs(r.hypotheses, r.num_hypotheses),
			Scores:     goFloats(r.scores, r.num_scores),
			Attention:  goFloatSeqs(r.attention, r.num_attention),
		}
	}
	return out, nil
}

// QueuedBatches reports the engine work queue depth at the time of the call.
func (t *Translator) QueuedBatches() int {
	return int(C.ct2_translator_num_queued_batches(t.ptr))
}

// ActiveBatches reports queued plus in-progress batches.
func (t *Translator) ActiveBatches() int {
	return int(C.ct2_translator_num_active_batches(t.ptr))
}

// Replicas reports the engine replica pool size.
func (t *Translator) Replicas() int {
	return int(C.ct2_translator_num_replicas(t.ptr))
}

// Release destroys the native instance. The engine joins its worker
// threads here, so no call may be in flight.
func (t *Translator) Release() {
	if t.ptr == nil {
		return
	}
	C.ct2_translator_free(t.ptr)
	t.ptr = nil
	liveHandles.Add(-1)
}
