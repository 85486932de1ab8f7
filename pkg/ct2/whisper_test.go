package ct2

import (
	"context"
	"testing"

	"ct2go/pkg/types"
)

func newWhisper(t *testing.T) *Whisper {
	t.Helper()
	w, err := OpenWhisper(newModelDir(t), types.DefaultConfig())
	if err != nil {
		t.Fatalf("open whisper: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

// newFeatures builds a mel spectrogram tensor for the given batch size.
func newFeatures(t *testing.T, batch int) *StorageView {
	t.Helper()
	shape := []int{batch, 80, 100}
	sv, err := NewStorageViewFloat32(shape, make([]float32, batch*80*100), types.DeviceCPU)
	if err != nil {
		t.Fatalf("storage view: %v", err)
	}
	t.Cleanup(func() { sv.Close() })
	return sv
}

func TestWhisper_Generate(t *testing.T) {
	w := newWhisper(t)
	features := newFeatures(t, 2)
	prompts := [][]string{
		{"<|startoftranscript|>", "<|en|>", "<|transcribe|>"},
		{"<|startoftranscript|>", "<|de|>", "<|transcribe|>"},
	}

	results, err := w.Generate(context.Background(), features, prompts, types.DefaultWhisperOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, res := range results {
		if res.NumSequences() == 0 {
			t.Fatalf("result %d has no sequences", i)
		}
		if res.Sequences[0][1] != prompts[i][1] {
			t.Fatalf("result %d does not follow its prompt: %v", i, res.Sequences[0])
		}
		if res.NoSpeechProb != nil {
			t.Fatalf("no-speech prob must be absent when not requested")
		}
	}
}

func TestWhisper_GenerateNoSpeechProb(t *testing.T) {
	w := newWhisper(t)
	features := newFeatures(t, 2)
	prompts := [][]string{{"<|startoftranscript|>"}, {"<|startoftranscript|>"}}

	opts := types.DefaultWhisperOptions()
	opts.ReturnNoSpeechProb = true
	results, err := w.Generate(context.Background(), features, prompts, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, res := range results {
		if res.NoSpeechProb == nil {
			t.Fatalf("result %d: no-speech prob missing", i)
		}
	}
	// Zero is a valid probability, distinct from absent.
	if *results[0].NoSpeechProb != 0 {
		t.Fatalf("expected probability 0 for the first item, got %v", *results[0].NoSpeechProb)
	}
}

func TestWhisper_GeneratePromptCountMismatch(t *testing.T) {
	w := newWhisper(t)
	features := newFeatures(t, 2)
	_, err := w.Generate(context.Background(), features, [][]string{{"<|startoftranscript|>"}}, types.DefaultWhisperOptions())
	if err == nil {
		t.Fatalf("expected error for prompt count mismatch")
	}
}

func TestWhisper_DetectLanguage(t *testing.T) {
	w := newWhisper(t)
	features := newFeatures(t, 3)

	results, err := w.DetectLanguage(context.Background(), features)
	if err != nil {
		t.Fatalf("detect language: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, probs := range results {
		if len(probs) == 0 {
			t.Fatalf("result %d is empty", i)
		}
		for j := 1; j < len(probs); j++ {
			if probs[j].Probability > probs[j-1].Probability {
				t.Fatalf("result %d not sorted by probability: %+v", i, probs)
			}
		}
	}
}

func TestWhisper_Align(t *testing.T) {
	w := newWhisper(t)
	features := newFeatures(t, 2)
	textTokens := [][]int{{10, 11, 12}, {20, 21}}

	results, err := w.Align(context.Background(), features, []int{50257}, textTokens, []int{100, 100}, 7)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	for i, res := range results {
		if len(res.TextIndices) != len(textTokens[i]) {
			t.Fatalf("result %d: %d text indices for %d tokens", i, len(res.TextIndices), len(textTokens[i]))
		}
		if len(res.TimeIndices) != len(res.TextIndices) {
			t.Fatalf("result %d: time indices not parallel", i)
		}
	}
}

func TestWhisper_Encode(t *testing.T) {
	w := newWhisper(t)
	features := newFeatures(t, 1)

	out, err := w.Encode(context.Background(), features)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	defer out.Close()
	if out.Rank() != 3 {
		t.Fatalf("expected a rank 3 encoder output, got %d", out.Rank())
	}
	if out.Size() == 0 {
		t.Fatalf("encoder output is empty")
	}
}

func TestWhisper_RejectsBadFeatureRank(t *testing.T) {
	w := newWhisper(t)
	flat, err := NewStorageViewFloat32([]int{80, 100}, make([]float32, 8000), types.DeviceCPU)
	if err != nil {
		t.Fatalf("storage view: %v", err)
	}
	defer flat.Close()

	if _, err := w.Generate(context.Background(), flat, [][]string{{"p"}}, types.DefaultWhisperOptions()); !IsConversion(err) {
		t.Fatalf("expected conversion error, got %v", err)
	}
	if _, err := w.DetectLanguage(context.Background(), flat); !IsConversion(err) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestWhisper_ModelInfo(t *testing.T) {
	w := newWhisper(t)
	if !w.IsMultilingual() {
		t.Fatalf("expected a multilingual model")
	}
	if w.NMels() != 80 {
		t.Fatalf("expected 80 mel bins, got %d", w.NMels())
	}
	if w.NumLanguages() == 0 {
		t.Fatalf("expected a language count")
	}
}
