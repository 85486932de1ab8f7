package types

import "testing"

func TestTranslationResult_ScorePresence(t *testing.T) {
	plain := TranslationResult{Hypotheses: [][]string{{"a"}}}
	if plain.HasScores() {
		t.Fatalf("no scores were set")
	}
	if _, ok := plain.Score(); ok {
		t.Fatalf("Score must report absence")
	}

	scored := TranslationResult{
		Hypotheses: [][]string{{"a"}},
		Scores:     []float32{0},
	}
	sc, ok := scored.Score()
	if !ok || sc != 0 {
		t.Fatalf("a zero score is still a score: %v %v", sc, ok)
	}
}

func TestTranslationResult_Output(t *testing.T) {
	var empty TranslationResult
	if empty.Output() != nil {
		t.Fatalf("empty result should have nil output")
	}
	res := TranslationResult{Hypotheses: [][]string{{"best"}, {"second"}}}
	if out := res.Output(); len(out) != 1 || out[0] != "best" {
		t.Fatalf("Output should return the first hypothesis: %v", out)
	}
	if res.NumHypotheses() != 2 {
		t.Fatalf("expected 2 hypotheses")
	}
}

func TestEndTokenVariantsAreDistinct(t *testing.T) {
	variants := []EndToken{
		EndTokenSingle("</s>"),
		EndTokenMultiple{"</s>", "<|endoftext|>"},
		EndTokenIDs{2},
	}
	for i, v := range variants {
		switch i {
		case 0:
			if _, ok := v.(EndTokenSingle); !ok {
				t.Fatalf("variant %d lost its type", i)
			}
		case 1:
			if _, ok := v.(EndTokenMultiple); !ok {
				t.Fatalf("variant %d lost its type", i)
			}
		case 2:
			if _, ok := v.(EndTokenIDs); !ok {
				t.Fatalf("variant %d lost its type", i)
			}
		}
	}

	// An empty token list is a valid override; only a nil EndToken means
	// "use the model default".
	var none EndToken
	if none != nil {
		t.Fatalf("zero value must mean no override")
	}
	empty := EndTokenMultiple{}
	if EndToken(empty) == nil {
		t.Fatalf("an empty list is still an override")
	}
}

func TestDefaultOptions(t *testing.T) {
	tr := DefaultTranslationOptions()
	if tr.BeamSize != 2 || tr.NumHypotheses != 1 {
		t.Fatalf("unexpected translation defaults: %+v", tr)
	}
	gen := DefaultGenerationOptions()
	if gen.BeamSize != 1 || gen.MaxLength != 512 || !gen.IncludePromptInResult {
		t.Fatalf("unexpected generation defaults: %+v", gen)
	}
	wh := DefaultWhisperOptions()
	if wh.BeamSize != 5 || wh.MaxLength != 448 {
		t.Fatalf("unexpected whisper defaults: %+v", wh)
	}
	if len(wh.SuppressTokens) != 1 || wh.SuppressTokens[0] != -1 {
		t.Fatalf("whisper should default to the model suppression set: %v", wh.SuppressTokens)
	}
}
