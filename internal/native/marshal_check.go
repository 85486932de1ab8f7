//go:build ct2

package native

// No-op native calls used to push freshly marshalled payloads through the
// runtime's cgo pointer checker. A payload holding a pointer into Go memory
// panics here the same way it would inside a real engine call.

/*
#include <stdlib.h>
#include "ct2go.h"

static void ct2go_vet_seqs(const ct2_token_seq* seqs, size_t n) {
	(void)seqs;
	(void)n;
}
static void ct2go_vet_config(const ct2_config* cfg) { (void)cfg; }
static void ct2go_vet_translation_options(const ct2_translation_options* o) { (void)o; }
static void ct2go_vet_whisper_options(const ct2_whisper_options* o) { (void)o; }
static void ct2go_vet_id_seqs(const ct2_id_seq* seqs, size_t n) {
	(void)seqs;
	(void)n;
}
*/
import "C"

import (
	"unsafe"

	"ct2go/pkg/types"
)

func vetTranslationPayload(batch [][]string, cfg types.Config, opts types.TranslationOptions) {
	b := newCTokenBatch(batch)
	defer b.free()
	cc := newCConfig(cfg)
	defer cc.free()
	suppress := newCTokenBatch(opts.SuppressSequences)
	defer suppress.free()
	end := newCEndToken(opts.EndToken)
	defer end.free()
	copts := cTranslationOptions(opts, suppress, end)

	C.ct2go_vet_seqs(b.ptr(), C.size_t(b.count))
	C.ct2go_vet_config(&cc.cfg)
	C.ct2go_vet_translation_options(&copts)
}

func vetWhisperPayload(opts types.WhisperOptions, textTokens [][]int) {
	suppress := cInt32Array(opts.SuppressTokens)
	defer C.free(unsafe.Pointer(suppress))
	copts := cWhisperOptions(opts, suppress, len(opts.SuppressTokens))

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

	C.ct2go_vet_whisper_options(&copts)
	if len(tokenSeqs) > 0 {
		C.ct2go_vet_id_seqs(&tokenSeqs[0], C.size_t(len(tokenSeqs)))
	}
}
