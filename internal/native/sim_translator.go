//go:build !ct2

package native

import "ct2go/pkg/types"

// Translator is the simulated translation runner. It echoes source tokens
// as the translation, which keeps batch order and hypothesis shaping
// observable without a real model.
type Translator struct {
	model *simModel
}

// OpenTranslator loads a translation model from a converted model directory.
func OpenTranslator(modelPath string, cfg types.Config) (*Translator, error) {
	m, err := openSimModel(modelPath, cfg)
	if err != nil {
		return nil, err
	}
	liveHandles.Add(1)
	return &Translator{model: m}, nil
}

// OpenTranslatorFromMemory loads a translation model from an in-memory
// registry.
func OpenTranslatorFromMemory(mem *ModelMemory, cfg types.Config) (*Translator, error) {
	m, err := openSimModelFromMemory(mem, cfg)
	if err != nil {
		return nil, err
	}
	liveHandles.Add(1)
	return &Translator{model: m}, nil
}

// TranslateBatch translates a batch of tokenized sequences. Hypotheses echo
// the source tokens, prefixed by the target prefix when one is given.
func (t *Translator) TranslateBatch(source, targetPrefix [][]string, opts types.TranslationOptions, cb types.StepCallback) ([]types.TranslationResult, error) {
	items := make([]decodeItem, len(source))
	for i, src := range source {
		plan := make([]string, 0, len(src)+8)
		if i < len(targetPrefix) {
			plan = append(plan, targetPrefix[i]...)
		}
		plan = append(plan, src...)
		items[i] = decodeItem{plan: plan}
	}

	sequences, _, scores := t.model.decode(decodeSpec{
		items:         items,
		numHypotheses: opts.NumHypotheses,
		maxLength:     opts.MaxDecodingLength,
		minLength:     opts.MinDecodingLength,
		returnScores:  opts.ReturnScores,
		returnEndTok:  opts.ReturnEndToken,
		end:           endMatcher{override: opts.EndToken},
	}, cb)

	results := make([]types.TranslationResult, len(source))
	for i := range source {
		res := types.TranslationResult{Hypotheses: sequences[i]}
		if opts.ReturnScores {
			res.Scores = scores[i]
		}
		if opts.ReturnAttention {
			res.Attention = make([][]float32, len(res.Hypotheses))
			for h, hyp := range res.Hypotheses {
				att := make([]float32, len(hyp))
				for j := range att {
					att[j] = 1 / float32(len(source[i])+1)
				}
				res.Attention[h] = att
			}
		}
		results[i] = res
	}
	return results, nil
}

// QueuedBatches reports the number of batches waiting in the work queue.
func (t *Translator) QueuedBatches() int { return int(t.model.queued.Load()) }

// ActiveBatches reports the number of batches currently being processed.
func (t *Translator) ActiveBatches() int { return int(t.model.active.Load()) }

// Replicas reports the number of model replicas.
func (t *Translator) Replicas() int { return t.model.replicas }

// Release frees the runner. Safe to call more than once.
func (t *Translator) Release() {
	if t.model == nil {
		return
	}
	t.model = nil
	liveHandles.Add(-1)
}
