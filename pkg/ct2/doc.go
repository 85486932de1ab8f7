// Package ct2 wraps the CTranslate2 inference engine behind a memory-safe
// Go API. Models are opened from converted model directories (or from
// in-memory file sets), run batched translation, generation and speech
// recognition, and are torn down deterministically with Close.
//
// All token and tensor data is copied across the engine boundary in both
// directions, so slices passed in or returned never alias native memory.
// Every model method is safe for concurrent use; Close blocks until
// in-flight batches drain.
package ct2
