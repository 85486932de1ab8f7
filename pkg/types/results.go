package types

// TranslationResult holds the hypotheses produced for one input element.
// Scores is empty when the call did not request scores; when scores were
// requested it has one entry per hypothesis, including zero values.
type TranslationResult struct {
	Hypotheses [][]string  `json:"hypotheses"`
	Scores     []float32   `json:"scores,omitempty"`
	Attention  [][]float32 `json:"attention,omitempty"`
}

// Output returns the best hypothesis, or nil if the result is empty.
func (r *TranslationResult) Output() []string {
	if len(r.Hypotheses) == 0 {
		return nil
	}
	return r.Hypotheses[0]
}

// Score returns the score of the best hypothesis and whether one is present.
func (r *TranslationResult) Score() (float32, bool) {
	if len(r.Scores) == 0 {
		return 0, false
	}
	return r.Scores[0], true
}

// NumHypotheses returns the number of hypotheses in this result.
func (r *TranslationResult) NumHypotheses() int { return len(r.Hypotheses) }

// HasScores reports whether the call requested and received scores.
func (r *TranslationResult) HasScores() bool { return len(r.Scores) > 0 }

// GenerationResult holds the sequences generated for one input element.
type GenerationResult struct {
	Sequences    [][]string `json:"sequences"`
	SequenceIDs  [][]int    `json:"sequence_ids,omitempty"`
	Scores       []float32  `json:"scores,omitempty"`
}

// NumSequences returns the number of generated sequences.
func (r *GenerationResult) NumSequences() int { return len(r.Sequences) }

// HasScores reports whether the call requested and received scores.
func (r *GenerationResult) HasScores() bool { return len(r.Scores) > 0 }

// WhisperResult holds the transcription sequences for one audio segment.
// NoSpeechProb is nil unless ReturnNoSpeechProb was requested; a present
// zero is distinct from absent.
type WhisperResult struct {
	Sequences    [][]string `json:"sequences"`
	SequenceIDs  [][]int    `json:"sequence_ids,omitempty"`
	Scores       []float32  `json:"scores,omitempty"`
	NoSpeechProb *float32   `json:"no_speech_prob,omitempty"`
}

// NumSequences returns the number of transcription sequences.
func (r *WhisperResult) NumSequences() int { return len(r.Sequences) }

// HasScores reports whether the call requested and received scores.
func (r *WhisperResult) HasScores() bool { return len(r.Scores) > 0 }

// LanguageProb pairs a detected language token with its probability.
type LanguageProb struct {
	Language    string  `json:"language"`
	Probability float32 `json:"probability"`
}

// AlignmentResult maps text token positions to audio time indices for one
// batch item. TextIndices and TimeIndices are parallel arrays.
type AlignmentResult struct {
	TextIndices    []int     `json:"text_indices"`
	TimeIndices    []int     `json:"time_indices"`
	TextTokenProbs []float32 `json:"text_token_probs,omitempty"`
}

// GenerationStepResult is delivered to the step callback once per generated
// token. Invocations arrive in the engine's internal scheduling order and
// may interleave across batch items and hypotheses.
type GenerationStepResult struct {
	// Step is the decoding step index.
	Step int `json:"step"`
	// BatchID is the index of the input element this token belongs to.
	BatchID int `json:"batch_id"`
	// TokenID is the id of the generated token.
	TokenID int `json:"token_id"`
	// HypothesisID is the index of the hypothesis within the batch item.
	HypothesisID int `json:"hypothesis_id"`
	// Token is the string form of the generated token.
	Token string `json:"token"`
	// LogProb is the token's log probability, nil unless the engine was
	// asked to score steps.
	LogProb *float32 `json:"log_prob,omitempty"`
	// IsLast marks the final decoding step for this batch item.
	IsLast bool `json:"is_last"`
}

// StepCallback is invoked once per generated token. Returning true stops
// decoding for that batch item; the partial result is still returned and is
// not an error.
type StepCallback func(GenerationStepResult) bool
