package ct2

import "ct2go/internal/native"

// ModelMemory holds a converted model as a named set of in-memory files,
// for loading models without touching the filesystem. The model stays
// resident until Close.
type ModelMemory struct {
	g   guard
	raw *native.ModelMemory
	id  string
}

// NewModelMemory creates an empty in-memory model under the given name.
func NewModelMemory(modelName string) (*ModelMemory, error) {
	raw, err := native.NewModelMemory(modelName)
	if err != nil {
		return nil, ErrModelLoad(modelName, err)
	}
	return &ModelMemory{g: guard{what: "model memory"}, raw: raw, id: modelName}, nil
}

// RegisterFile adds one model file. The content is copied.
func (m *ModelMemory) RegisterFile(filename string, content []byte) error {
	if err := m.g.enter(); err != nil {
		return err
	}
	defer m.g.leave()
	m.raw.RegisterFile(filename, content)
	return nil
}

// ModelID reports the name the model was registered under.
func (m *ModelMemory) ModelID() string { return m.id }

// Close frees the in-memory files. Models already opened from this memory
// keep their own copy and are unaffected.
func (m *ModelMemory) Close() error {
	m.g.shutdown(m.raw.Release)
	return nil
}
