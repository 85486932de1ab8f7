//go:build !ct2

package native

import (
	"fmt"

	"ct2go/pkg/types"
)

// Whisper is the simulated speech runner. Transcriptions are derived from
// the prompt and the feature tensor shape, which is enough to keep batch
// ordering and option plumbing observable.
type Whisper struct {
	model *simModel
}

// OpenWhisper loads a speech model from a converted model directory.
func OpenWhisper(modelPath string, cfg types.Config) (*Whisper, error) {
	m, err := openSimModel(modelPath, cfg)
	if err != nil {
		return nil, err
	}
	liveHandles.Add(1)
	return &Whisper{model: m}, nil
}

// OpenWhisperFromMemory loads a speech model from an in-memory registry.
func OpenWhisperFromMemory(mem *ModelMemory, cfg types.Config) (*Whisper, error) {
	m, err := openSimModelFromMemory(mem, cfg)
	if err != nil {
		return nil, err
	}
	liveHandles.Add(1)
	return &Whisper{model: m}, nil
}

func (w *Whisper) batchSize(features *StorageView) (int, error) {
	if features == nil {
		return 0, fmt.Errorf("features tensor is required")
	}
	if features.Rank() != 3 {
		return 0, fmt.Errorf("expected a rank 3 features tensor, got rank %d", features.Rank())
	}
	return features.dim(0), nil
}

// Generate transcribes a batch of mel spectrogram windows.
func (w *Whisper) Generate(features *StorageView, prompts [][]string, opts types.WhisperOptions) ([]types.WhisperResult, error) {
	n, err := w.batchSize(features)
	if err != nil {
		return nil, err
	}
	if len(prompts) != n {
		return nil, fmt.Errorf("got %d prompts for a batch of %d features", len(prompts), n)
	}

	w.model.queued.Add(1)
	w.model.active.Add(1)
	defer w.model.active.Add(-1)
	w.model.queued.Add(-1)

	numHyp := opts.NumHypotheses
	if numHyp < 1 {
		numHyp = 1
	}

	results := make([]types.WhisperResult, n)
	for i := 0; i < n; i++ {
		seq := append(append([]string(nil), prompts[i]...), "segment", fmt.Sprint(i))
		res := types.WhisperResult{Sequences: make([][]string, numHyp)}
		for h := 0; h < numHyp; h++ {
			res.Sequences[h] = seq
		}
		if opts.ReturnScores {
			res.Scores = make([]float32, numHyp)
			for h := 1; h < numHyp; h++ {
				res.Scores[h] = -0.1 * float32(h)
			}
		}
		if opts.ReturnNoSpeechProb {
			p := 0.25 * float32(i)
			res.NoSpeechProb = &p
		}
		results[i] = res
	}
	return results, nil
}

// DetectLanguage returns language probabilities for each batch item, most
// probable first.
func (w *Whisper) DetectLanguage(features *StorageView) ([][]types.LanguageProb, error) {
	n, err := w.batchSize(features)
	if err != nil {
		return nil, err
	}
	results := make([][]types.LanguageProb, n)
	for i := 0; i < n; i++ {
		results[i] = []types.LanguageProb{
			{Language: "<|en|>", Probability: 0.9},
			{Language: "<|de|>", Probability: 0.1},
		}
	}
	return results, nil
}

// Align computes text-to-time alignments for each batch item.
func (w *Whisper) Align(features *StorageView, startSequence []int, textTokens [][]int, numFrames []int, medianFilterWidth int) ([]types.AlignmentResult, error) {
	n, err := w.batchSize(features)
	if err != nil {
		return nil, err
	}
	if len(textTokens) != n {
		return nil, fmt.Errorf("got %d text token sequences for a batch of %d features", len(textTokens), n)
	}
	results := make([]types.AlignmentResult, n)
	for i := 0; i < n; i++ {
		toks := textTokens[i]
		res := types.AlignmentResult{
			TextIndices:    make([]int, len(toks)),
			TimeIndices:    make([]int, len(toks)),
			TextTokenProbs: make([]float32, len(toks)),
		}
		for j := range toks {
			res.TextIndices[j] = j
			res.TimeIndices[j] = 2 * j
			res.TextTokenProbs[j] = 1 / float32(len(toks))
		}
		results[i] = res
	}
	return results, nil
}

// Encode runs the encoder over the feature tensor and returns the encoder
// output as a new tensor owned by the caller.
func (w *Whisper) Encode(features *StorageView) (*StorageView, error) {
	n, err := w.batchSize(features)
	if err != nil {
		return nil, err
	}
	frames := features.dim(2) / 2
	if frames < 1 {
		frames = 1
	}
	liveHandles.Add(1)
	return &StorageView{
		shape:  []int{n, frames, 384},
		size:   int64(n) * int64(frames) * 384,
		device: features.Device(),
	}, nil
}

// IsMultilingual reports whether the model supports multiple languages.
func (w *Whisper) IsMultilingual() bool { return true }

// NMels reports the number of mel bins the model expects.
func (w *Whisper) NMels() int { return 80 }

// NumLanguages reports the number of languages the model supports.
func (w *Whisper) NumLanguages() int { return 99 }

// QueuedBatches reports the number of batches waiting in the work queue.
func (w *Whisper) QueuedBatches() int { return int(w.model.queued.Load()) }

// ActiveBatches reports the number of batches currently being processed.
func (w *Whisper) ActiveBatches() int { return int(w.model.active.Load()) }

// Replicas reports the number of model replicas.
func (w *Whisper) Replicas() int { return w.model.replicas }

// Release frees the runner. Safe to call more than once.
func (w *Whisper) Release() {
	if w.model == nil {
		return
	}
	w.model = nil
	liveHandles.Add(-1)
}
