package ct2

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ct2go/internal/native"
	"ct2go/pkg/types"
)

// newModelDir lays out the minimal files of a converted model directory.
func newModelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range []string{"model.bin", "config.json"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	return dir
}

func newTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := OpenTranslator(newModelDir(t), types.DefaultConfig())
	if err != nil {
		t.Fatalf("open translator: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestOpenTranslator_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := OpenTranslator(missing, types.DefaultConfig())
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if !IsModelLoad(err) {
		t.Fatalf("expected model load error, got %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Fatalf("error should name the path: %v", err)
	}
}

func TestOpenTranslator_NotAModelDirectory(t *testing.T) {
	dir := t.TempDir() // exists but holds no model.bin
	_, err := OpenTranslator(dir, types.DefaultConfig())
	if !IsModelLoad(err) {
		t.Fatalf("expected model load error, got %v", err)
	}
}

func TestTranslateBatch_KeepsInputOrder(t *testing.T) {
	tr := newTranslator(t)
	source := [][]string{
		{"first", "sentence"},
		{"second", "one"},
		{"third"},
	}
	results, err := tr.TranslateBatch(context.Background(), source, nil, types.DefaultTranslationOptions(), nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(results) != len(source) {
		t.Fatalf("expected %d results, got %d", len(source), len(results))
	}
	for i, res := range results {
		out := res.Output()
		if len(out) != len(source[i]) || out[0] != source[i][0] {
			t.Fatalf("result %d out of order: %v", i, out)
		}
	}
}

func TestTranslateBatch_TokensCrossUnchanged(t *testing.T) {
	tr := newTranslator(t)
	source := [][]string{
		{"héllo", "wörld"},
		{"日本語", "トークン"},
		{"", "empty-neighbor", ""},
		{},
	}
	results, err := tr.TranslateBatch(context.Background(), source, nil, types.DefaultTranslationOptions(), nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	for i, res := range results {
		out := res.Output()
		if len(out) != len(source[i]) {
			t.Fatalf("result %d: expected %d tokens, got %d", i, len(source[i]), len(out))
		}
		for j, tok := range out {
			if tok != source[i][j] {
				t.Fatalf("result %d token %d: got %q, want %q", i, j, tok, source[i][j])
			}
		}
	}
}

func TestTranslateBatch_Concrete(t *testing.T) {
	tr := newTranslator(t)
	opts := types.DefaultTranslationOptions()
	opts.NumHypotheses = 1
	opts.ReturnScores = true

	results, err := tr.TranslateBatch(context.Background(), [][]string{{"Hello", "world", "!"}}, nil, opts, nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	if res.NumHypotheses() != 1 {
		t.Fatalf("expected 1 hypothesis, got %d", res.NumHypotheses())
	}
	if got := res.Output(); len(got) != 3 || got[0] != "Hello" {
		t.Fatalf("unexpected output: %v", got)
	}
	if !res.HasScores() {
		t.Fatalf("expected scores to be present")
	}
	if _, ok := res.Score(); !ok {
		t.Fatalf("expected a best score")
	}
}

func TestTranslateBatch_ScoresAbsentVsZero(t *testing.T) {
	tr := newTranslator(t)
	source := [][]string{{"a", "b"}}

	plain, err := tr.TranslateBatch(context.Background(), source, nil, types.DefaultTranslationOptions(), nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if plain[0].HasScores() {
		t.Fatalf("scores must be absent when not requested")
	}
	if _, ok := plain[0].Score(); ok {
		t.Fatalf("Score must report absence when not requested")
	}

	opts := types.DefaultTranslationOptions()
	opts.ReturnScores = true
	scored, err := tr.TranslateBatch(context.Background(), source, nil, opts, nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	sc, ok := scored[0].Score()
	if !ok {
		t.Fatalf("expected a score")
	}
	// A zero score is a real score, not an absent one.
	if sc != 0 {
		t.Fatalf("expected best hypothesis score 0, got %v", sc)
	}
}

func TestTranslateBatch_TargetPrefix(t *testing.T) {
	tr := newTranslator(t)
	results, err := tr.TranslateBatch(context.Background(),
		[][]string{{"src1"}, {"src2"}},
		[][]string{{"pre1"}, {"pre2"}},
		types.DefaultTranslationOptions(), nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	for i, res := range results {
		out := res.Output()
		if len(out) == 0 || !strings.HasPrefix(out[0], "pre") {
			t.Fatalf("result %d should begin with its prefix: %v", i, out)
		}
	}
}

func TestTranslateBatch_PrefixCountMismatch(t *testing.T) {
	tr := newTranslator(t)
	_, err := tr.TranslateBatch(context.Background(),
		[][]string{{"a"}, {"b"}, {"c"}},
		[][]string{{"p"}},
		types.DefaultTranslationOptions(), nil)
	if !IsConversion(err) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestTranslateBatch_NumHypotheses(t *testing.T) {
	tr := newTranslator(t)
	opts := types.DefaultTranslationOptions()
	opts.NumHypotheses = 3
	opts.ReturnScores = true

	results, err := tr.TranslateBatch(context.Background(), [][]string{{"x", "y"}}, nil, opts, nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	res := results[0]
	if res.NumHypotheses() != 3 {
		t.Fatalf("expected 3 hypotheses, got %d", res.NumHypotheses())
	}
	if len(res.Scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(res.Scores))
	}
	for h := 1; h < 3; h++ {
		if res.Scores[h] > res.Scores[0] {
			t.Fatalf("hypotheses must be sorted best first: %v", res.Scores)
		}
	}
}

func TestTranslator_CloseBlocksFurtherCalls(t *testing.T) {
	tr := newTranslator(t)
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	_, err := tr.TranslateBatch(context.Background(), [][]string{{"a"}}, nil, types.DefaultTranslationOptions(), nil)
	if !IsClosed(err) {
		t.Fatalf("expected closed error, got %v", err)
	}
	if tr.Replicas() != 0 {
		t.Fatalf("counters on a closed translator should be zero")
	}
}

func TestTranslator_RepeatedOpenCloseLeaksNothing(t *testing.T) {
	dir := newModelDir(t)
	baseline := native.LiveHandles()
	for i := 0; i < 1000; i++ {
		tr, err := OpenTranslator(dir, types.DefaultConfig())
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if _, err := tr.Translate(context.Background(), []string{"a"}, types.DefaultTranslationOptions()); err != nil {
			t.Fatalf("translate %d: %v", i, err)
		}
		if err := tr.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
	if got := native.LiveHandles(); got != baseline {
		t.Fatalf("live handles leaked: baseline %d, now %d", baseline, got)
	}
}

func TestTranslator_Counters(t *testing.T) {
	tr := newTranslator(t)
	if tr.Replicas() != 1 {
		t.Fatalf("expected 1 replica, got %d", tr.Replicas())
	}
	if tr.QueuedBatches() != 0 || tr.ActiveBatches() != 0 {
		t.Fatalf("expected idle counters")
	}
}
