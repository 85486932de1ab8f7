//go:build !ct2

package native

// Without the 'ct2' build tag the package compiles against a deterministic
// in-process engine simulator instead of libct2go. The simulator honors the
// same contracts the native engine does (result ordering, optional-field
// presence, end-token override semantics, step callbacks with early stop)
// so the wrapper layer and the daemon can be exercised on machines without
// CTranslate2 installed.

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"ct2go/pkg/types"
)

// descriptorFile must exist in a model directory (or in-memory registry)
// for a load to succeed.
const descriptorFile = "model.bin"

// simLogLevel stands in for the engine's global log verbosity. The
// simulator never logs, but the value round-trips like the native one.
var simLogLevel atomic.Int32

func init() { simLogLevel.Store(int32(types.LogWarning)) }

// SetLogLevel sets the engine's global log verbosity.
func SetLogLevel(level types.LogLevel) { simLogLevel.Store(int32(level)) }

// GetLogLevel returns the engine's current global log verbosity.
func GetLogLevel() types.LogLevel { return types.LogLevel(simLogLevel.Load()) }

// simModel is the state shared by all simulated runner kinds.
type simModel struct {
	name     string
	replicas int

	queued atomic.Int64
	active atomic.Int64

	mu    sync.Mutex
	vocab map[string]int
}

const (
	simTokenBlank = 0
	simTokenBOS   = 1
	simTokenEOS   = 2
	simTokenUnk   = 3
)

func newSimModel(name string, cfg types.Config) *simModel {
	replicas := len(cfg.DeviceIndices)
	if replicas == 0 {
		replicas = 1
	}
	return &simModel{
		name:     name,
		replicas: replicas,
		vocab: map[string]int{
			"<blank>": simTokenBlank,
			"<s>":     simTokenBOS,
			"</s>":    simTokenEOS,
			"<unk>":   simTokenUnk,
		},
	}
}

// tokenID assigns stable ids in first-seen order, after the reserved
// specials.
func (m *simModel) tokenID(tok string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.vocab[tok]; ok {
		return id
	}
	id := len(m.vocab)
	m.vocab[tok] = id
	return id
}

// openSimModel validates a model directory the way the engine's loader
// does: the path must exist and contain the binary descriptor.
func openSimModel(modelPath string, cfg types.Config) (*simModel, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open the model directory %s", modelPath)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a model directory", modelPath)
	}
	if _, err := os.Stat(filepath.Join(modelPath, descriptorFile)); err != nil {
		return nil, fmt.Errorf("%s does not appear to contain a converted model (missing %s)", modelPath, descriptorFile)
	}
	return newSimModel(filepath.Base(modelPath), cfg), nil
}

// openSimModelFromMemory validates an in-memory registry the same way.
func openSimModelFromMemory(mem *ModelMemory, cfg types.Config) (*simModel, error) {
	if _, ok := mem.files[descriptorFile]; !ok {
		return nil, fmt.Errorf("in-memory model %s does not contain %s", mem.name, descriptorFile)
	}
	return newSimModel(mem.name, cfg), nil
}

// endMatcher interprets the end-token variant. A nil override falls back
// to the model's default terminator (</s>).
type endMatcher struct {
	override types.EndToken
}

func (e endMatcher) matches(tok string, id int) bool {
	switch v := e.override.(type) {
	case nil:
		return id == simTokenEOS
	case types.EndTokenSingle:
		return tok == string(v)
	case types.EndTokenMultiple:
		for _, t := range v {
			if tok == t {
				return true
			}
		}
		return false
	case types.EndTokenIDs:
		for _, want := range v {
			if id == want {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// decodeItem is one batch element's planned output.
type decodeItem struct {
	// plan holds the tokens decoding would emit, in order, before any
	// terminator cutoff.
	plan []string
	// prompt is prepended to the result sequences without being emitted
	// as generation steps.
	prompt []string
}

type decodeSpec struct {
	items         []decodeItem
	numHypotheses int
	maxLength     int
	minLength     int
	returnScores  bool
	returnEndTok  bool
	end           endMatcher
}

// decode runs the simulated decoding loop. Steps are emitted step-major
// across batch items and hypotheses, which deliberately interleaves
// callback invocations across items the way the engine's scheduler does.
// A callback returning true stops that item only.
func (m *simModel) decode(spec decodeSpec, cb types.StepCallback) ([][][]string, [][][]int, [][]float32) {
	m.queued.Add(1)
	m.active.Add(1)
	defer m.active.Add(-1)
	m.queued.Add(-1)

	numHyp := spec.numHypotheses
	if numHyp < 1 {
		numHyp = 1
	}
	maxLen := spec.maxLength
	if maxLen < 1 {
		maxLen = 512
	}

	n := len(spec.items)
	sequences := make([][][]string, n)
	sequenceIDs := make([][][]int, n)
	scores := make([][]float32, n)
	emitted := make([][]string, n)
	done := make([]bool, n)

	for step := 0; ; step++ {
		progressed := false
		for b, item := range spec.items {
			if done[b] || step >= len(item.plan) || step >= maxLen {
				continue
			}
			progressed = true
			tok := item.plan[step]
			id := m.tokenID(tok)
			isEnd := step+1 >= spec.minLength && spec.end.matches(tok, id)
			isLast := isEnd || step == len(item.plan)-1 || step == maxLen-1

			keepToken := !isEnd || spec.returnEndTok
			if keepToken {
				emitted[b] = append(emitted[b], tok)
			}

			stopped := false
			if cb != nil {
				for h := 0; h < numHyp; h++ {
					res := types.GenerationStepResult{
						Step:         step,
						BatchID:      b,
						TokenID:      id,
						HypothesisID: h,
						Token:        tok,
						IsLast:       isLast,
					}
					if spec.returnScores {
						lp := -0.05 * float32(step+1)
						res.LogProb = &lp
					}
					if cb(res) {
						stopped = true
					}
				}
			}
			if stopped || isLast {
				done[b] = true
			}
		}
		if !progressed {
			break
		}
	}

	for b, item := range spec.items {
		sequences[b] = make([][]string, numHyp)
		sequenceIDs[b] = make([][]int, numHyp)
		for h := 0; h < numHyp; h++ {
			seq := make([]string, 0, len(item.prompt)+len(emitted[b]))
			seq = append(seq, item.prompt...)
			seq = append(seq, emitted[b]...)
			ids := make([]int, len(seq))
			for i, tok := range seq {
				ids[i] = m.tokenID(tok)
			}
			sequences[b][h] = seq
			sequenceIDs[b][h] = ids
		}
		if spec.returnScores {
			sc := make([]float32, numHyp)
			for h := 0; h < numHyp; h++ {
				sc[h] = -0.1 * float32(h)
			}
			scores[b] = sc
		}
	}
	return sequences, sequenceIDs, scores
}
