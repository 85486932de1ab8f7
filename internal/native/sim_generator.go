//go:build !ct2

package native

import "ct2go/pkg/types"

// Generator is the simulated generation runner. Continuations cycle the
// start tokens, so callers control exactly which tokens (and token ids)
// decoding will reach.
type Generator struct {
	model *simModel
}

// OpenGenerator loads a language model from a converted model directory.
func OpenGenerator(modelPath string, cfg types.Config) (*Generator, error) {
	m, err := openSimModel(modelPath, cfg)
	if err != nil {
		return nil, err
	}
	liveHandles.Add(1)
	return &Generator{model: m}, nil
}

// OpenGeneratorFromMemory loads a language model from an in-memory registry.
func OpenGeneratorFromMemory(mem *ModelMemory, cfg types.Config) (*Generator, error) {
	m, err := openSimModelFromMemory(mem, cfg)
	if err != nil {
		return nil, err
	}
	liveHandles.Add(1)
	return &Generator{model: m}, nil
}

// GenerateBatch decodes continuations for a batch of start sequences.
func (g *Generator) GenerateBatch(startTokens [][]string, opts types.GenerationOptions, cb types.StepCallback) ([]types.GenerationResult, error) {
	maxLen := opts.MaxLength
	if maxLen < 1 {
		maxLen = 512
	}

	items := make([]decodeItem, len(startTokens))
	for i, start := range startTokens {
		plan := make([]string, 0, maxLen)
		for s := 0; s < maxLen && len(start) > 0; s++ {
			plan = append(plan, start[s%len(start)])
		}
		item := decodeItem{plan: plan}
		if opts.IncludePromptInResult {
			item.prompt = start
		}
		items[i] = item
	}

	sequences, sequenceIDs, scores := g.model.decode(decodeSpec{
		items:         items,
		numHypotheses: opts.NumHypotheses,
		maxLength:     maxLen,
		minLength:     opts.MinLength,
		returnScores:  opts.ReturnScores,
		returnEndTok:  opts.ReturnEndToken,
		end:           endMatcher{override: opts.EndToken},
	}, cb)

	results := make([]types.GenerationResult, len(startTokens))
	for i := range startTokens {
		res := types.GenerationResult{
			Sequences:   sequences[i],
			SequenceIDs: sequenceIDs[i],
		}
		if opts.ReturnScores {
			res.Scores = scores[i]
		}
		results[i] = res
	}
	return results, nil
}

// QueuedBatches reports the number of batches waiting in the work queue.
func (g *Generator) QueuedBatches() int { return int(g.model.queued.Load()) }

// ActiveBatches reports the number of batches currently being processed.
func (g *Generator) ActiveBatches() int { return int(g.model.active.Load()) }

// Replicas reports the number of model replicas.
func (g *Generator) Replicas() int { return g.model.replicas }

// Release frees the runner. Safe to call more than once.
func (g *Generator) Release() {
	if g.model == nil {
		return
	}
	g.model = nil
	liveHandles.Add(-1)
}
