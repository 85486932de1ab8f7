//go:build !ct2

package native

// ModelMemory is the in-memory model reader of the simulator build: a
// named set of (filename, bytes) pairs standing in for a model directory.
type ModelMemory struct {
	name   string
	files  map[string][]byte
	closed bool
}

// NewModelMemory creates an empty in-memory registry under the given name.
func NewModelMemory(modelName string) (*ModelMemory, error) {
	liveHandles.Add(1)
	return &ModelMemory{
		name:  modelName,
		files: make(map[string][]byte),
	}, nil
}

// RegisterFile adds one file's contents. The bytes are copied.
func (m *ModelMemory) RegisterFile(filename string, content []byte) {
	buf := make([]byte, len(content))
	copy(buf, content)
	m.files[filename] = buf
}

// ModelID reports the name the registry was created under.
func (m *ModelMemory) ModelID() string {
	return m.name
}

// Release frees the registry. Safe to call more than once.
func (m *ModelMemory) Release() {
	if m.closed {
		return
	}
	m.closed = true
	m.files = nil
	liveHandles.Add(-1)
}
