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

// Whisper is the raw handle to one ctranslate2::models::Whisper replica
// pool.
type Whisper struct {
	ptr *C.ct2_whisper
}

// OpenWhisper loads a speech model from a converted model directory.
func OpenWhisper(modelPath string, cfg types.Config) (*Whisper, error) {
	cPath := C.CString(modelPath)
	defer C.free(unsafe.Pointer(cPath))

	cc := newCConfig(cfg)
	defer cc.free()
	var cerr *C.char
	ptr := C.ct2_whisper_open(cPath, &cc.cfg, &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &Whisper{ptr: ptr}, nil
}

// OpenWhisperFromMemory loads a speech model from an in-memory registry.
func OpenWhisperFromMemory(mem *ModelMemory, cfg types.Config) (*Whisper, error) {
	cc := newCConfig(cfg)
	defer cc.free()
	var cerr *C.char
	ptr := C.ct2_whisper_open_memory(mem.ptr, &cc.cfg, &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	liveHandles.Add(1)
	return &Whisper{ptr: ptr}, nil
}

// The suppress token list is C-allocated because the options struct crosses
// the boundary by address; the caller frees it after the call.
func cWhisperOptions(opts types.WhisperOptions, suppress *C.int32_t, numSuppress int) C.ct2_whisper_options {
	var c C.ct2_whisper_options
	c.beam_size = C.size_t(opts.BeamSize)
	c.patience = C.float(opts.Patience)
	c.length_penalty = C.float(opts.LengthPenalty)
	c.repetition_penalty = C.float(opts.RepetitionPenalty)
	c.no_repeat_ngram_size = C.size_t(opts.NoRepeatNgramSize)
	c.max_length = C.size_t(opts.MaxLength)
	c.sampling_topk = C.size_t(opts.SamplingTopK)
	c.sampling_temperature = C.float(opts.SamplingTemperature)
	c.num_hypotheses = C.size_t(opts.NumHypotheses)
	c.return_scores = C.bool(opts.ReturnScores)
	c.return_logits_vocab = C.bool(opts.ReturnLogitsVocab)
	c.return_no_speech_prob = C.bool(opts.ReturnNoSpeechProb)
	c.max_initial_timestamp_index = C.size_t(opts.MaxInitialTimestampIndex)
	c.suppress_blank = C.bool(opts.SuppressBlank)
	c.suppress_tokens = suppress
	c.num_suppress_tokens = C.size_t(numSuppress)
	return c
}

// Generate transcribes the audio features, one result per batch item.
func (w *Whisper) Generate(features *StorageView, prompts [][]string, opts types.WhisperOptions) ([]types.WhisperResult, error) {
	cPrompts := newCTokenBatch(prompts)
	defer cPrompts.free()
	suppress := cInt32Array(opts.SuppressTokens)
	defer C.free(unsafe.Pointer(suppress))
	copts := cWhisperOptions(opts, suppress, len(opts.SuppressTokens))

	var (
		n    C.size_t
		cerr *C.char
	)
	res := C.ct2_whisper_generate(
		w.ptr, features.ptr,
		cPrompts.ptr(), C.size_t(len(prompts)),
		&copts,
		&n, &cerr,
	)
	if res == nil {
		return nil, takeErr(cerr)
	}
	defer C.ct2_whisper_results_free(res, n)

	out := make([]types.WhisperResult, int(n))
	for i, r := range unsafe.Slice(res, int(n)) {
		wr := types.WhisperResult{
			Sequences:   goStringSeqs(r.sequences, r.num_sequences),
			SequenceIDs: goIDSeqs(r.sequence_ids, r.num_sequence_ids),
			Scores:      goFloats(r.scores, r.num_scores),
		}
		if bool(r.has_no_speech_prob) {
			p := float32(r.no_speech_prob)
			wr.NoSpeechProb = &p
		}
		out[i] = wr
	}
	return out, nil
}

// DetectLanguage returns, per batch item, the candidate languages ordered
// from best to worst probability.
func (w *Whisper) DetectLanguage(features *StorageView) ([][]types.LanguageProb, error) {
	var (
		n    C.size_t
		cerr *C.char
	)
	res := C.ct2_whisper_detect_language(w.ptr, features.ptr, &n, &cerr)
	if res == nil {
		return nil, takeErr(cerr)
	}
	defer C.ct2_detection_results_free(res, n)

	out := make([][]types.LanguageProb, int(n))
	for i, r := range unsafe.Slice(res, int(n)) {
		pairs := make([]types.LanguageProb, int(r.num_pairs))
		if r.num_pairs > 0 {
			for j, p := range unsafe.Slice(r.pairs, int(r.num_pairs)) {
				pairs[j] = types.LanguageProb{
					Language:    C.GoString(p.language),
					Probability: float32(p.probability),
				}
			}
		}
		out[i] = pairs
	}
	return out, nil
}

// Align maps text tokens to audio frames for each batch item.
func (w *Whisper) Align(features *StorageView, startSequence []int, textTokens [][]int, numFrames []int, medianFilterWidth int) ([]types.AlignmentResult, error) {
	cStart := cSizeList(startSequence)
	cFrames := cSizeList(numFrames)

	// The seq array itself is a direct call argument, but the id buffers it
	// points at must be C memory.
	tokenSeqs := make([]C.ct2_id_seq, len(textTokens))
	for i, toks := range textTokens {
		tokenSeqs[i].ids = cSizeArray(toks)
		tokenSeqs[i].len = C.size_t(len(toks))
	}
	defer func() {
		for i := range tokenSeqs {
			C.free(unsafe.Pointer(tokenSeqs[i].ids))
		}
	}()

	var (
		startPtr, framesPtr *C.size_t
		seqPtr              *C.ct2_id_seq
	)
	if len(cStart) > 0 {
		startPtr = &cStart[0]
	}
	if len(cFrames) > 0 {
		framesPtr = &cFrames[0]
	}
	if len(tokenSeqs) > 0 {
		seqPtr = &tokenSeqs[0]
	}

	var (
		n    C.size_t
		cerr *C.char
	)
	res := C.ct2_whisper_align(
		w.ptr, features.ptr,
		startPtr, C.size_t(len(startSequence)),
		seqPtr, C.size_t(len(textTokens)),
		framesPtr, C.size_t(len(numFrames)),
		C.size_t(medianFilterWidth),
		&n, &cerr,
	)
	if res == nil {
		return nil, takeErr(cerr)
	}
	defer C.ct2_alignment_results_free(res, n)

	out := make([]types.AlignmentResult, int(n))
	for i, r := range unsafe.Slice(res, int(n)) {
		ar := types.AlignmentResult{
			TextIndices:    make([]int, int(r.num_alignments)),
			TimeIndices:    make([]int, int(r.num_alignments)),
			TextTokenProbs: goFloats(r.text_token_probs, r.num_text_token_probs),
		}
		if r.num_alignments > 0 {
			for j, v := range unsafe.Slice(r.text_indices, int(r.num_alignments)) {
				ar.TextIndices[j] = int(v)
			}
			for j, v := range unsafe.Slice(r.time_indices, int(r.num_alignments)) {
				ar.TimeIndices[j] = int(v)
			}
		}
		out[i] = ar
	}
	return out, nil
}

// Encode runs the encoder over the features and returns the engine-owned
// encoder output as a new storage view.
func (w *Whisper) Encode(features *StorageView) (*StorageView, error) {
	var cerr *C.char
	ptr := C.ct2_whisper_encode(w.ptr, features.ptr, &cerr)
	if ptr == nil {
		return nil, takeErr(cerr)
	}
	return wrapStorageView(ptr), nil
}

// IsMultilingual reports whether the model supports several languages.
func (w *Whisper) IsMultilingual() bool { return bool(C.ct2_whisper_is_multilingual(w.ptr)) }

// NMels returns the expected mel spectrogram dimension.
func (w *Whisper) NMels() int { return int(C.ct2_whisper_n_mels(w.ptr)) }

// NumLanguages returns the number of supported languages.
func (w *Whisper) NumLanguages() int { return int(C.ct2_whisper_num_languages(w.ptr)) }

// QueuedBatches reports the engine work queue depth at the time of the call.
func (w *Whisper) QueuedBatches() int { return int(C.ct2_whisper_num_queued_batches(w.ptr)) }

// ActiveBatches reports queued plus in-progress batches.
func (w *Whisper) ActiveBatches() int { return int(C.ct2_whisper_num_active_batches(w.ptr)) }

// Replicas reports the engine replica pool size.
func (w *Whisper) Replicas() int { return int(C.ct2_whisper_num_replicas(w.ptr)) }

// Release destroys the native instance.
func (w *Whisper) Release() {
	if w.ptr == nil {
		return
	}
	C.ct2_whisper_free(w.ptr)
	w.ptr = nil
	liveHandles.Add(-1)
}
