//go:build ct2

package native

// cgo link directives for the in-process CTranslate2 boundary.
// - We set an rpath of $ORIGIN so the runtime loader finds libct2go.so and
//   libctranslate2.so in the same directory as the built Go binary (./bin).
// - We add -L${SRCDIR}/../../bin so the linker finds libct2go.so at link
//   time when building the 'ct2' variant.
// - No environment variables are required.

/*
#cgo CFLAGS: -I${SRCDIR}/include
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lct2go -lctranslate2 -lstdc++
#include <stdlib.h>
#include "ct2go.h"
*/
import "C"

import (
	"errors"
	"unsafe"

	"ct2go/pkg/types"
)

// SetLogLevel sets the engine's global log verbosity.
func SetLogLevel(level types.LogLevel) {
	C.ct2_set_log_level(C.int32_t(level))
}

// GetLogLevel returns the engine's current global log verbosity.
func GetLogLevel() types.LogLevel {
	return types.LogLevel(C.ct2_get_log_level())
}

// takeErr converts and frees a diagnostic written by the shim. The native
// message crosses the boundary verbatim.
func takeErr(cerr *C.char) error {
	if cerr == nil {
		return errors.New("native call failed without diagnostic")
	}
	defer C.ct2_string_free(cerr)
	return errors.New(C.GoString(cerr))
}

// cgo forbids Go pointers inside memory handed to C, so every buffer that
// ends up embedded in a struct crossing the boundary (token batches, option
// payloads, index lists) is allocated with C.malloc and released by the
// matching free method. Pointer-free Go slices passed directly as call
// arguments stay Go-allocated; the runtime pins those for the call.

func cMalloc(n, elem uintptr) unsafe.Pointer {
	return C.calloc(C.size_t(n), C.size_t(elem))
}

// cTokenBatch holds the C representation of a batch of token sequences:
// a C-allocated ct2_token_seq array whose rows are C-allocated char*
// arrays of copied strings. free releases every allocation.
type cTokenBatch struct {
	seqs  *C.ct2_token_seq
	count int
}

func newCTokenBatch(batch [][]string) *cTokenBatch {
	b := &cTokenBatch{count: len(batch)}
	if b.count == 0 {
		return b
	}
	b.seqs = (*C.ct2_token_seq)(cMalloc(uintptr(b.count), unsafe.Sizeof(C.ct2_token_seq{})))
	seqs := unsafe.Slice(b.seqs, b.count)
	for i, seq := range batch {
		seqs[i].len = C.size_t(len(seq))
		if len(seq) == 0 {
			continue
		}
		row := (**C.char)(cMalloc(uintptr(len(seq)), unsafe.Sizeof((*C.char)(nil))))
		toks := unsafe.Slice(row, len(seq))
		for j, tok := range seq {
			toks[j] = C.CString(tok)
		}
		seqs[i].tokens = row
	}
	return b
}

// ptr returns the batch as a C array, or nil for an empty batch.
func (b *cTokenBatch) ptr() *C.ct2_token_seq {
	return b.seqs
}

func (b *cTokenBatch) free() {
	if b.seqs == nil {
		return
	}
	for _, s := range unsafe.Slice(b.seqs, b.count) {
		if s.tokens == nil {
			continue
		}
		for _, tok := range unsafe.Slice(s.tokens, int(s.len)) {
			C.free(unsafe.Pointer(tok))
		}
		C.free(unsafe.Pointer(s.tokens))
	}
	C.free(unsafe.Pointer(b.seqs))
	b.seqs = nil
}

// cStringList copies a flat list of strings into a C-allocated char* array.
type cStringList struct {
	arr   **C.char
	count int
}

func newCStringList(list []string) *cStringList {
	l := &cStringList{count: len(list)}
	if l.count == 0 {
		return l
	}
	l.arr = (**C.char)(cMalloc(uintptr(l.count), unsafe.Sizeof((*C.char)(nil))))
	ptrs := unsafe.Slice(l.arr, l.count)
	for i, s := range list {
		ptrs[i] = C.CString(s)
	}
	return l
}

func (l *cStringList) ptr() **C.char {
	return l.arr
}

func (l *cStringList) free() {
	if l.arr == nil {
		return
	}
	for _, s := range unsafe.Slice(l.arr, l.count) {
		C.free(unsafe.Pointer(s))
	}
	C.free(unsafe.Pointer(l.arr))
	l.arr = nil
}

// goStringSeq copies one native token sequence into Go memory. The native
// buffer may be freed on the next call, so nothing is aliased.
func goStringSeq(seq C.ct2_string_seq) []string {
	out := make([]string, int(seq.len))
	if seq.len == 0 {
		return out
	}
	toks := unsafe.Slice(seq.tokens, int(seq.len))
	for i, t := range toks {
		out[i] = C.GoString(t)
	}
	return out
}

func goStringSeqs(seqs *C.ct2_string_seq, n C.size_t) [][]string {
	out := make([][]string, int(n))
	if n == 0 {
		return out
	}
	for i, s := range unsafe.Slice(seqs, int(n)) {
		out[i] = goStringSeq(s)
	}
	return out
}

func goIDSeqs(seqs *C.ct2_id_seq, n C.size_t) [][]int {
	out := make([][]int, int(n))
	if n == 0 {
		return out
	}
	for i, s := range unsafe.Slice(seqs, int(n)) {
		ids := make([]int, int(s.len))
		if s.len > 0 {
			for j, id := range unsafe.Slice(s.ids, int(s.len)) {
				ids[j] = int(id)
			}
		}
		out[i] = ids
	}
	return out
}

func goFloats(values *C.float, n C.size_t) []float32 {
	if n == 0 {
		return nil
	}
	out := make([]float32, int(n))
	for i, v := range unsafe.Slice(values, int(n)) {
		out[i] = float32(v)
	}
	return out
}

func goFloatSeqs(seqs *C.ct2_float_seq, n C.size_t) [][]float32 {
	if n == 0 {
		return nil
	}
	out := make([][]float32, int(n))
	for i, s := range unsafe.Slice(seqs, int(n)) {
		out[i] = goFloats(s.values, s.len)
	}
	return out
}

// cSizeList copies ints into a C-compatible size_t slice. The slice holds
// no Go pointers, so its address may be passed as a direct call argument
// (never embedded in a struct handed to C).
func cSizeList(list []int) []C.size_t {
	out := make([]C.size_t, len(list))
	for i, v := range list {
		out[i] = C.size_t(v)
	}
	return out
}

// cSizeArray copies ints into a C-allocated size_t array. The caller frees
// it with C.free; nil for an empty list.
func cSizeArray(list []int) *C.size_t {
	if len(list) == 0 {
		return nil
	}
	arr := (*C.size_t)(cMalloc(uintptr(len(list)), unsafe.Sizeof(C.size_t(0))))
	vals := unsafe.Slice(arr, len(list))
	for i, v := range list {
		vals[i] = C.size_t(v)
	}
	return arr
}

// cInt32Array copies ints into a C-allocated int32_t array. The caller
// frees it with C.free; nil for an empty list.
func cInt32Array(list []int) *C.int32_t {
	if len(list) == 0 {
		return nil
	}
	arr := (*C.int32_t)(cMalloc(uintptr(len(list)), unsafe.Sizeof(C.int32_t(0))))
	vals := unsafe.Slice(arr, len(list))
	for i, v := range list {
		vals[i] = C.int32_t(v)
	}
	return arr
}

// cConfig builds the native construction config. The index list is
// C-allocated because the config struct crosses the boundary by address.
// An empty device index list stays empty: the engine treats "no indices"
// differently from "index 0".
type cConfig struct {
	cfg C.ct2_config
}

func newCConfig(cfg types.Config) *cConfig {
	c := &cConfig{}
	c.cfg.device = C.int32_t(cfg.Device)
	c.cfg.compute_type = C.int32_t(cfg.ComputeType)
	c.cfg.device_indices = cInt32Array(cfg.DeviceIndices)
	c.cfg.num_device_indices = C.size_t(len(cfg.DeviceIndices))
	c.cfg.tensor_parallel = C.bool(cfg.TensorParallel)
	c.cfg.num_threads_per_replica = C.size_t(cfg.NumThreadsPerReplica)
	c.cfg.max_queued_batches = C.int32_t(cfg.MaxQueuedBatches)
	c.cfg.cpu_core_offset = C.int32_t(cfg.CPUCoreOffset)
	return c
}

func (c *cConfig) free() {
	if c.cfg.device_indices != nil {
		C.free(unsafe.Pointer(c.cfg.device_indices))
		c.cfg.device_indices = nil
	}
}

// cEndToken encodes the end-token variant. kind none leaves the engine's
// default terminator rules untouched. The payload arrays are C-allocated
// since the struct is embedded in the options crossing the boundary; they
// stay live through the owning call via the returned holder.
type cEndToken struct {
	tok  C.ct2_end_token
	strs *cStringList
}

func newCEndToken(et types.EndToken) *cEndToken {
	e := &cEndToken{}
	switch v := et.(type) {
	case nil:
		e.tok.kind = C.CT2_END_TOKEN_NONE
	case types.EndTokenSingle:
		e.tok.kind = C.CT2_END_TOKEN_SINGLE
		e.strs = newCStringList([]string{string(v)})
		e.tok.tokens = e.strs.ptr()
		e.tok.num_tokens = 1
	case types.EndTokenMultiple:
		e.tok.kind = C.CT2_END_TOKEN_MULTIPLE
		e.strs = newCStringList([]string(v))
		e.tok.tokens = e.strs.ptr()
		e.tok.num_tokens = C.size_t(len(v))
	case types.EndTokenIDs:
		e.tok.kind = C.CT2_END_TOKEN_IDS
		e.tok.ids = cSizeArray([]int(v))
		e.tok.num_ids = C.size_t(len(v))
	}
	return e
}

func (e *cEndToken) free() {
	if e.strs != nil {
		e.strs.free()
	}
	if e.tok.ids != nil {
		C.free(unsafe.Pointer(e.tok.ids))
		e.tok.ids = nil
	}
}
