package types

// Model represents a converted model directory discoverable on disk.
type Model struct {
	// Stable identifier for the model.
	// example: nllb-200-600m
	ID string `json:"id" example:"nllb-200-600m"`
	// Human-friendly name.
	// example: NLLB 200 (600M)
	Name string `json:"name" example:"NLLB 200 (600M)"`
	// Absolute path to the converted model directory.
	// example: /home/user/models/nllb-200-600m
	Path string `json:"path" example:"/home/user/models/nllb-200-600m"`
	// Kind of runner this model is served with: translator, generator,
	// or whisper.
	// example: translator
	Kind string `json:"kind" example:"translator"`
}

// Runner kinds recognized by the registry and the daemon.
const (
	KindTranslator = "translator"
	KindGenerator  = "generator"
	KindWhisper    = "whisper"
)
