package types

// Engine kinds served by the daemon.
const (
	KindTranslator = "translator"
	KindGenerator  = "generator"
	KindWhisper    = "whisper"
)

// Model represents a discoverable converted model directory on disk.
type Model struct {
	// Stable identifier for the model.
	// example: en-de-base
	ID string `json:"id" example:"en-de-base"`
	// Engine kind that serves this model: translator, generator or whisper.
	// example: translator
	Kind string `json:"kind" example:"translator"`
	// Absolute path to the converted model directory.
	// example: /srv/models/en-de-base
	Path string `json:"path" example:"/srv/models/en-de-base"`
	// Device the model is placed on (cpu or cuda).
	// example: cpu
	Device string `json:"device" example:"cpu"`
	// Compute type the model runs with (default, int8, float16, ...).
	// example: int8
	ComputeType string `json:"compute_type" example:"int8"`
}
