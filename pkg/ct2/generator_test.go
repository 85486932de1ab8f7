package ct2

import (
	"context"
	"testing"

	"ct2go/pkg/types"
)

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := OpenGenerator(newModelDir(t), types.DefaultConfig())
	if err != nil {
		t.Fatalf("open generator: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// genOpts returns options that make deterministic short runs: no prompt in
// the result, bounded length, greedy search.
func genOpts(maxLen int) types.GenerationOptions {
	opts := types.DefaultGenerationOptions()
	opts.IncludePromptInResult = false
	opts.MaxLength = maxLen
	return opts
}

func TestGenerateBatch_IncludePromptInResult(t *testing.T) {
	g := newGenerator(t)
	start := []string{"a", "b"}

	opts := types.DefaultGenerationOptions()
	opts.MaxLength = 4
	res, err := g.Generate(context.Background(), start, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	seq := res.Sequences[0]
	if len(seq) < len(start) || seq[0] != "a" || seq[1] != "b" {
		t.Fatalf("prompt should lead the sequence: %v", seq)
	}
	if len(res.SequenceIDs[0]) != len(seq) {
		t.Fatalf("token ids must parallel tokens: %d vs %d", len(res.SequenceIDs[0]), len(seq))
	}

	opts.IncludePromptInResult = false
	res, err = g.Generate(context.Background(), start, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Sequences[0]) != 4 {
		t.Fatalf("expected max_length tokens without the prompt, got %v", res.Sequences[0])
	}
}

func TestGenerateBatch_EndTokenSingle(t *testing.T) {
	g := newGenerator(t)
	start := [][]string{{"a", "b", "STOP"}}

	opts := genOpts(9)
	opts.EndToken = types.EndTokenSingle("STOP")
	results, err := g.GenerateBatch(context.Background(), start, opts, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	seq := results[0].Sequences[0]
	if len(seq) != 2 || seq[0] != "a" || seq[1] != "b" {
		t.Fatalf("decoding should stop before the end token: %v", seq)
	}

	opts.ReturnEndToken = true
	results, err = g.GenerateBatch(context.Background(), start, opts, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	seq = results[0].Sequences[0]
	if len(seq) != 3 || seq[2] != "STOP" {
		t.Fatalf("return_end_token should keep the terminator: %v", seq)
	}
}

func TestGenerateBatch_EndTokenMultiple(t *testing.T) {
	g := newGenerator(t)
	opts := genOpts(9)
	opts.EndToken = types.EndTokenMultiple{"b", "STOP"}

	results, err := g.GenerateBatch(context.Background(), [][]string{{"a", "b", "STOP"}}, opts, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	seq := results[0].Sequences[0]
	if len(seq) != 1 || seq[0] != "a" {
		t.Fatalf("any listed terminator should stop decoding: %v", seq)
	}
}

func TestGenerateBatch_EndTokenIDs(t *testing.T) {
	g := newGenerator(t)
	start := [][]string{{"a", "b", "STOP"}}

	// Learn the id STOP gets assigned, then terminate on it.
	probe, err := g.GenerateBatch(context.Background(), start, genOpts(3), nil)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	ids := probe[0].SequenceIDs[0]
	stopID := ids[len(ids)-1]

	opts := genOpts(9)
	opts.EndToken = types.EndTokenIDs{stopID}
	results, err := g.GenerateBatch(context.Background(), start, opts, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	seq := results[0].Sequences[0]
	if len(seq) != 2 || seq[1] != "b" {
		t.Fatalf("decoding should stop on the terminator id: %v", seq)
	}
}

func TestGenerateBatch_NoOverrideUsesModelTerminator(t *testing.T) {
	g := newGenerator(t)
	start := [][]string{{"a", "</s>", "b"}}

	// Without an override the model terminator ends decoding.
	results, err := g.GenerateBatch(context.Background(), start, genOpts(9), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if seq := results[0].Sequences[0]; len(seq) != 1 || seq[0] != "a" {
		t.Fatalf("model terminator should stop decoding: %v", seq)
	}

	// An explicit empty list disables every terminator; this is not the
	// same thing as no override.
	opts := genOpts(9)
	opts.EndToken = types.EndTokenMultiple{}
	results, err = g.GenerateBatch(context.Background(), start, opts, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if seq := results[0].Sequences[0]; len(seq) != 9 {
		t.Fatalf("empty terminator list should decode to max_length: %v", seq)
	}
}

func TestGenerateBatch_CallbackStreamsTokens(t *testing.T) {
	g := newGenerator(t)
	start := [][]string{{"a1", "a2"}, {"b1", "b2"}}

	var steps []types.GenerationStepResult
	cb := func(step types.GenerationStepResult) bool {
		steps = append(steps, step)
		return false
	}
	results, err := g.GenerateBatch(context.Background(), start, genOpts(4), cb)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	perItem := map[int]int{}
	sawLast := map[int]bool{}
	for _, s := range steps {
		if s.Step != perItem[s.BatchID] {
			t.Fatalf("steps for item %d out of order: got %d want %d", s.BatchID, s.Step, perItem[s.BatchID])
		}
		perItem[s.BatchID]++
		if s.IsLast {
			sawLast[s.BatchID] = true
		}
	}
	for b := range start {
		if perItem[b] != len(results[b].Sequences[0]) {
			t.Fatalf("item %d: %d callback steps for %d tokens", b, perItem[b], len(results[b].Sequences[0]))
		}
		if !sawLast[b] {
			t.Fatalf("item %d never saw is_last", b)
		}
	}
}

func TestGenerateBatch_CallbackEarlyStop(t *testing.T) {
	g := newGenerator(t)
	start := [][]string{{"a1", "a2"}, {"b1", "b2"}}

	cb := func(step types.GenerationStepResult) bool {
		return step.BatchID == 0 // stop the first item immediately
	}
	results, err := g.GenerateBatch(context.Background(), start, genOpts(6), cb)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if n := len(results[0].Sequences[0]); n > 1 {
		t.Fatalf("stopped item should hold at most 1 token, got %d", n)
	}
	if n := len(results[1].Sequences[0]); n != 6 {
		t.Fatalf("unstopped item should be unaffected, got %d tokens", n)
	}
}

func TestGenerateBatch_CallbackLogProbs(t *testing.T) {
	g := newGenerator(t)

	opts := genOpts(3)
	var withScores, withoutScores []*float32
	_, err := g.GenerateBatch(context.Background(), [][]string{{"a"}}, opts, func(s types.GenerationStepResult) bool {
		withoutScores = append(withoutScores, s.LogProb)
		return false
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	opts.ReturnScores = true
	_, err = g.GenerateBatch(context.Background(), [][]string{{"a"}}, opts, func(s types.GenerationStepResult) bool {
		withScores = append(withScores, s.LogProb)
		return false
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, lp := range withoutScores {
		if lp != nil {
			t.Fatalf("log prob must be absent when scores are not requested")
		}
	}
	for _, lp := range withScores {
		if lp == nil {
			t.Fatalf("log prob must be present when scores are requested")
		}
	}
}

func TestGenerateBatch_CallbackRequiresGreedySearch(t *testing.T) {
	g := newGenerator(t)
	opts := genOpts(3)
	opts.BeamSize = 2
	_, err := g.GenerateBatch(context.Background(), [][]string{{"a"}}, opts, func(types.GenerationStepResult) bool { return false })
	if !IsConversion(err) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestGenerate_CanceledContext(t *testing.T) {
	g := newGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Generate(ctx, []string{"a"}, genOpts(3)); err == nil {
		t.Fatalf("expected context error")
	}
}
