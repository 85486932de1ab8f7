package types

// TranslateRequest is the payload of POST /v1/translate. Each source entry
// is one pre-tokenized sequence; TargetPrefixes, when present, must have one
// entry per source entry.
type TranslateRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: nllb-200-600m
	Model string `json:"model,omitempty" example:"nllb-200-600m"`
	// Batch of tokenized source sequences.
	Source [][]string `json:"source"`
	// Optional batch of target prefixes, one per source sequence.
	TargetPrefixes [][]string `json:"target_prefixes,omitempty"`
	// Per-call options; zero values fall back to engine defaults.
	Options TranslationOptions `json:"options"`
	// EndToken override: empty means no override, one entry means a single
	// terminator, several entries mean any of them terminates.
	EndTokens []string `json:"end_tokens,omitempty"`
	// EndTokenIDs override by token id; mutually exclusive with EndTokens.
	EndTokenIDs []int `json:"end_token_ids,omitempty"`
}

// TranslateResponse wraps the per-input results of POST /v1/translate.
type TranslateResponse struct {
	Results []TranslationResult `json:"results"`
}

// GenerateRequest is the payload of POST /v1/generate.
type GenerateRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: gpt2-medium
	Model string `json:"model,omitempty" example:"gpt2-medium"`
	// Batch of tokenized start sequences.
	StartTokens [][]string `json:"start_tokens"`
	// Per-call options; zero values fall back to engine defaults.
	Options GenerationOptions `json:"options"`
	// EndToken override, same semantics as TranslateRequest.
	EndTokens   []string `json:"end_tokens,omitempty"`
	EndTokenIDs []int    `json:"end_token_ids,omitempty"`
	// If true, stream step results as NDJSON before the final results.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
}

// GenerateResponse wraps the per-input results of POST /v1/generate.
type GenerateResponse struct {
	Results []GenerationResult `json:"results"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// RunnerStatus summarizes one loaded model runner for /status. The queue
// counters are point-in-time snapshots read from the engine and may be
// stale by the time the response is serialized.
type RunnerStatus struct {
	// ID of the model this runner serves.
	// example: nllb-200-600m
	ModelID string `json:"model_id" example:"nllb-200-600m"`
	// Runner kind: translator, generator, or whisper.
	// example: translator
	Kind string `json:"kind" example:"translator"`
	// Batches waiting in the engine work queue.
	// example: 0
	QueuedBatches int `json:"queued_batches" example:"0"`
	// Batches queued or currently processed by a worker.
	// example: 1
	ActiveBatches int `json:"active_batches" example:"1"`
	// Number of parallel replicas in the engine pool.
	// example: 1
	Replicas int `json:"replicas" example:"1"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Loaded runners.
	Runners []RunnerStatus `json:"runners"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total number of model loads performed by this process.
	// example: 2
	LoadsTotal uint64 `json:"loads_total" example:"2"`
	// Optional top-level error message.
	Error string `json:"error,omitempty"`
}
