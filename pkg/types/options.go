package types

// TranslationOptions configures a single translate-batch call. Numeric
// ranges are engine-defined and forwarded without validation.
type TranslationOptions struct {
	// BeamSize sets the beam width (1 runs greedy search).
	BeamSize int `json:"beam_size,omitempty"`
	// Patience keeps decoding until BeamSize*Patience hypotheses finish.
	Patience float32 `json:"patience,omitempty"`
	// LengthPenalty is the exponential length normalization applied during
	// beam search.
	LengthPenalty   float32 `json:"length_penalty,omitempty"`
	CoveragePenalty float32 `json:"coverage_penalty,omitempty"`
	// RepetitionPenalty penalizes previously generated tokens (>1 penalizes).
	RepetitionPenalty float32 `json:"repetition_penalty,omitempty"`
	// NoRepeatNgramSize prevents repeating ngrams of this size (0 disables).
	NoRepeatNgramSize int `json:"no_repeat_ngram_size,omitempty"`
	// DisableUnk blocks generation of the unknown token.
	DisableUnk bool `json:"disable_unk,omitempty"`
	// SuppressSequences blocks generation of these token sequences.
	SuppressSequences [][]string `json:"suppress_sequences,omitempty"`
	// PrefixBiasBeta biases decoding towards the target prefix.
	PrefixBiasBeta float32 `json:"prefix_bias_beta,omitempty"`
	// EndToken overrides decoding terminators; nil keeps the model default.
	EndToken EndToken `json:"-"`
	// ReturnEndToken includes the terminator in the result.
	ReturnEndToken bool `json:"return_end_token,omitempty"`
	// MaxInputLength truncates inputs after this many tokens (0 disables).
	MaxInputLength    int `json:"max_input_length,omitempty"`
	MaxDecodingLength int `json:"max_decoding_length,omitempty"`
	MinDecodingLength int `json:"min_decoding_length,omitempty"`
	// SamplingTopK samples from the K most likely tokens (0 = full
	// distribution).
	SamplingTopK        int     `json:"sampling_topk,omitempty"`
	SamplingTopP        float32 `json:"sampling_topp,omitempty"`
	SamplingTemperature float32 `json:"sampling_temperature,omitempty"`
	UseVMap             bool    `json:"use_vmap,omitempty"`
	// NumHypotheses is the number of hypotheses returned per input.
	NumHypotheses int `json:"num_hypotheses,omitempty"`
	// ReturnScores includes a score per hypothesis in the result.
	ReturnScores      bool `json:"return_scores,omitempty"`
	ReturnAttention   bool `json:"return_attention,omitempty"`
	ReturnLogitsVocab bool `json:"return_logits_vocab,omitempty"`
	// ReturnAlternatives expands alternatives at the first unconstrained
	// decoding position.
	ReturnAlternatives          bool    `json:"return_alternatives,omitempty"`
	MinAlternativeExpansionProb float32 `json:"min_alternative_expansion_prob,omitempty"`
	// ReplaceUnknowns substitutes unknown target tokens with the source
	// token that has the highest attention.
	ReplaceUnknowns bool `json:"replace_unknowns,omitempty"`
	// MaxBatchSize splits the input into chunks of at most this size;
	// BatchType says whether the size counts examples or tokens. Affects
	// internal grouping only, never result count or order.
	MaxBatchSize int       `json:"max_batch_size,omitempty"`
	BatchType    BatchType `json:"batch_type,omitempty"`
	// UnsafeConcurrentCallback skips the boundary's callback lock. Only set
	// it when the step callback is safe to call from multiple engine worker
	// threads at once.
	UnsafeConcurrentCallback bool `json:"-"`
}

// DefaultTranslationOptions mirrors the engine defaults.
func DefaultTranslationOptions() TranslationOptions {
	return TranslationOptions{
		BeamSize:            2,
		Patience:            1,
		LengthPenalty:       1,
		RepetitionPenalty:   1,
		MaxInputLength:      1024,
		MaxDecodingLength:   256,
		MinDecodingLength:   1,
		SamplingTopK:        1,
		SamplingTopP:        1,
		SamplingTemperature: 1,
		NumHypotheses:       1,
	}
}

// GenerationOptions configures a single generate-batch call.
type GenerationOptions struct {
	BeamSize            int        `json:"beam_size,omitempty"`
	Patience            float32    `json:"patience,omitempty"`
	LengthPenalty       float32    `json:"length_penalty,omitempty"`
	RepetitionPenalty   float32    `json:"repetition_penalty,omitempty"`
	NoRepeatNgramSize   int        `json:"no_repeat_ngram_size,omitempty"`
	DisableUnk          bool       `json:"disable_unk,omitempty"`
	SuppressSequences   [][]string `json:"suppress_sequences,omitempty"`
	EndToken            EndToken   `json:"-"`
	ReturnEndToken      bool       `json:"return_end_token,omitempty"`
	// MaxLength bounds the generated sequence length.
	MaxLength                   int     `json:"max_length,omitempty"`
	MinLength                   int     `json:"min_length,omitempty"`
	SamplingTopK                int     `json:"sampling_topk,omitempty"`
	SamplingTopP                float32 `json:"sampling_topp,omitempty"`
	SamplingTemperature         float32 `json:"sampling_temperature,omitempty"`
	NumHypotheses               int     `json:"num_hypotheses,omitempty"`
	ReturnScores                bool    `json:"return_scores,omitempty"`
	ReturnAlternatives          bool    `json:"return_alternatives,omitempty"`
	MinAlternativeExpansionProb float32 `json:"min_alternative_expansion_prob,omitempty"`
	// StaticPrompt prefixes every input of this model; CacheStaticPrompt
	// reuses the model state computed for it across calls.
	StaticPrompt      []string `json:"static_prompt,omitempty"`
	CacheStaticPrompt bool     `json:"cache_static_prompt,omitempty"`
	// IncludePromptInResult keeps the input tokens in the output sequences.
	IncludePromptInResult bool      `json:"include_prompt_in_result,omitempty"`
	MaxBatchSize          int       `json:"max_batch_size,omitempty"`
	BatchType             BatchType `json:"batch_type,omitempty"`

	UnsafeConcurrentCallback bool `json:"-"`
}

// DefaultGenerationOptions mirrors the engine defaults.
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		BeamSize:              1,
		Patience:              1,
		LengthPenalty:         1,
		RepetitionPenalty:     1,
		MaxLength:             512,
		SamplingTopK:          1,
		SamplingTopP:          1,
		SamplingTemperature:   1,
		NumHypotheses:         1,
		CacheStaticPrompt:     true,
		IncludePromptInResult: true,
	}
}

// WhisperOptions configures a transcription call.
type WhisperOptions struct {
	BeamSize            int     `json:"beam_size,omitempty"`
	Patience            float32 `json:"patience,omitempty"`
	LengthPenalty       float32 `json:"length_penalty,omitempty"`
	RepetitionPenalty   float32 `json:"repetition_penalty,omitempty"`
	NoRepeatNgramSize   int     `json:"no_repeat_ngram_size,omitempty"`
	MaxLength           int     `json:"max_length,omitempty"`
	SamplingTopK        int     `json:"sampling_topk,omitempty"`
	SamplingTemperature float32 `json:"sampling_temperature,omitempty"`
	NumHypotheses       int     `json:"num_hypotheses,omitempty"`
	ReturnScores        bool    `json:"return_scores,omitempty"`
	ReturnLogitsVocab   bool    `json:"return_logits_vocab,omitempty"`
	// ReturnNoSpeechProb includes the probability of the no-speech token.
	ReturnNoSpeechProb bool `json:"return_no_speech_prob,omitempty"`
	// MaxInitialTimestampIndex caps the first predicted timestamp.
	MaxInitialTimestampIndex int `json:"max_initial_timestamp_index,omitempty"`
	// SuppressBlank suppresses blank outputs at the start of sampling.
	SuppressBlank bool `json:"suppress_blank,omitempty"`
	// SuppressTokens lists token ids to suppress; -1 expands to the model's
	// default suppression set.
	SuppressTokens []int `json:"suppress_tokens,omitempty"`
}

// DefaultWhisperOptions mirrors the engine defaults.
func DefaultWhisperOptions() WhisperOptions {
	return WhisperOptions{
		BeamSize:                 5,
		Patience:                 1,
		LengthPenalty:            1,
		RepetitionPenalty:        1,
		MaxLength:                448,
		SamplingTopK:             1,
		SamplingTemperature:      1,
		NumHypotheses:            1,
		MaxInitialTimestampIndex: 50,
		SuppressBlank:            true,
		SuppressTokens:           []int{-1},
	}
}
