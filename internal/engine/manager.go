package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ct2go/pkg/ct2"
	"ct2go/pkg/types"
)

// runner pairs a registry entry with its lazily opened model. Exactly one
// of translator/generator is set, matching the entry's kind.
type runner struct {
	model      types.Model
	translator *ct2.Translator
	generator  *ct2.Generator
	// calls and lastUsed are guarded by the manager mutex. A runner with
	// calls > 0 is never evicted, so a request that acquired it cannot see
	// it closed underneath.
	calls    int
	lastUsed time.Time
}

func (r *runner) close() {
	if r.translator != nil {
		r.translator.Close()
	}
	if r.generator != nil {
		r.generator.Close()
	}
}

func (r *runner) status() types.RunnerStatus {
	st := types.RunnerStatus{ModelID: r.model.ID, Kind: r.model.Kind}
	switch {
	case r.translator != nil:
		st.QueuedBatches = r.translator.QueuedBatches()
		st.ActiveBatches = r.translator.ActiveBatches()
		st.Replicas = r.translator.Replicas()
	case r.generator != nil:
		st.QueuedBatches = r.generator.QueuedBatches()
		st.ActiveBatches = r.generator.ActiveBatches()
		st.Replicas = r.generator.Replicas()
	}
	return st
}

// Manager owns every loaded model runner. Models are opened on first use
// and evicted least-recently-used when MaxLoaded is exceeded; Close drains
// and releases everything.
type Manager struct {
	mu           sync.RWMutex
	registry     []types.Model
	runners      map[string]*runner
	cfg          types.Config
	defaultModel string
	maxLoaded    int
	loadsTotal   uint64
	started      time.Time
	closed       bool
	log          zerolog.Logger
}

// New builds a manager over a scanned registry. maxLoaded bounds the number
// of concurrently loaded models (0 = unlimited).
func New(reg []types.Model, cfg types.Config, defaultModel string, maxLoaded int, log zerolog.Logger) *Manager {
	return &Manager{
		registry:     reg,
		runners:      make(map[string]*runner),
		cfg:          cfg,
		defaultModel: defaultModel,
		maxLoaded:    maxLoaded,
		started:      time.Now(),
		log:          log,
	}
}

// Ready reports whether the manager accepts requests.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.closed
}

// ListModels returns a copy of the registry.
func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

func (m *Manager) lookup(modelID string) (types.Model, error) {
	if modelID == "" {
		modelID = m.defaultModel
	}
	for _, mdl := range m.registry {
		if mdl.ID == modelID {
			return mdl, nil
		}
	}
	return types.Model{}, ErrModelNotFound(modelID)
}

// evictLocked removes the least recently used idle runner from the map and
// returns it for the caller to drain after unlocking. Runners with calls in
// flight are skipped, letting the cap overshoot until they finish rather
// than closing a model a request still holds. Callers hold mu.
func (m *Manager) evictLocked() *runner {
	var victim string
	var oldest time.Time
	for id, r := range m.runners {
		if r.calls > 0 {
			continue
		}
		if victim == "" || r.lastUsed.Before(oldest) {
			victim, oldest = id, r.lastUsed
		}
	}
	if victim == "" {
		return nil
	}
	r := m.runners[victim]
	delete(m.runners, victim)
	return r
}

// ensure returns the runner for modelID with a call reservation held,
// opening the model on first use. The caller must pair it with release.
// An evicted model drains outside the lock so its in-flight batches cannot
// stall unrelated requests.
func (m *Manager) ensure(modelID, wantKind string) (*runner, error) {
	r, evicted, err := m.acquire(modelID, wantKind)
	if evicted != nil {
		m.log.Info().Str("model", evicted.model.ID).Msg("evicting least recently used model")
		evicted.close()
	}
	return r, err
}

func (m *Manager) acquire(modelID, wantKind string) (*runner, *runner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, nil, ErrShuttingDown()
	}
	mdl, err := m.lookup(modelID)
	if err != nil {
		return nil, nil, err
	}
	if mdl.Kind != wantKind {
		return nil, nil, ErrWrongKind(mdl.ID, mdl.Kind, wantKind)
	}
	if r, ok := m.runners[mdl.ID]; ok {
		r.calls++
		r.lastUsed = time.Now()
		return r, nil, nil
	}
	var evicted *runner
	if m.maxLoaded > 0 && len(m.runners) >= m.maxLoaded {
		evicted = m.evictLocked()
	}

	start := time.Now()
	r := &runner{model: mdl, calls: 1, lastUsed: start}
	switch mdl.Kind {
	case types.KindTranslator:
		r.translator, err = ct2.OpenTranslator(mdl.Path, m.cfg)
	case types.KindGenerator:
		r.generator, err = ct2.OpenGenerator(mdl.Path, m.cfg)
	default:
		return nil, evicted, ErrWrongKind(mdl.ID, mdl.Kind, wantKind)
	}
	if err != nil {
		m.log.Error().Err(err).Str("model", mdl.ID).Msg("model load failed")
		return nil, evicted, err
	}
	m.loadsTotal++
	m.runners[mdl.ID] = r
	m.log.Info().Str("model", mdl.ID).Str("kind", mdl.Kind).
		Dur("took", time.Since(start)).Msg("model loaded")
	return r, evicted, nil
}

// release returns a call reservation taken by ensure.
func (m *Manager) release(r *runner) {
	m.mu.Lock()
	r.calls--
	r.lastUsed = time.Now()
	m.mu.Unlock()
}

// Translate runs a batch translation against the named model (or the
// default model when modelID is empty).
func (m *Manager) Translate(ctx context.Context, modelID string, source, targetPrefix [][]string, opts types.TranslationOptions, cb types.StepCallback) ([]types.TranslationResult, error) {
	r, err := m.ensure(modelID, types.KindTranslator)
	if err != nil {
		return nil, err
	}
	defer m.release(r)
	return r.translator.TranslateBatch(ctx, source, targetPrefix, opts, cb)
}

// Generate runs a batch generation against the named model (or the default
// model when modelID is empty).
func (m *Manager) Generate(ctx context.Context, modelID string, startTokens [][]string, opts types.GenerationOptions, cb types.StepCallback) ([]types.GenerationResult, error) {
	r, err := m.ensure(modelID, types.KindGenerator)
	if err != nil {
		return nil, err
	}
	defer m.release(r)
	return r.generator.GenerateBatch(ctx, startTokens, opts, cb)
}

// Status snapshots the loaded runners and aggregate counters.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp := types.StatusResponse{
		UptimeSeconds:  int64(time.Since(m.started).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
		LoadsTotal:     m.loadsTotal,
	}
	for _, r := range m.runners {
		resp.Runners = append(resp.Runners, r.status())
	}
	return resp
}

// LoadedModels reports how many runners are currently resident.
func (m *Manager) LoadedModels() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runners)
}

// Close releases every runner, draining their in-flight batches. Requests
// arriving afterwards fail with a shutting-down error.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	runners := m.runners
	m.runners = make(map[string]*runner)
	m.mu.Unlock()

	for id, r := range runners {
		m.log.Info().Str("model", id).Msg("closing model")
		r.close()
	}
	return nil
}
