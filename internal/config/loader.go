package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EngineSettings holds the native engine construction parameters. They apply
// daemon-wide and can be overridden per model entry.
type EngineSettings struct {
	// Device placement: cpu (default) or cuda.
	Device string `json:"device,omitempty" yaml:"device,omitempty" toml:"device,omitempty"`
	// Quantization/precision: default, auto, float32, int8, int8_float16, ...
	ComputeType string `json:"compute_type,omitempty" yaml:"compute_type,omitempty" toml:"compute_type,omitempty"`
	// Device indices; one replica is created per index.
	DeviceIndices []int32 `json:"device_indices,omitempty" yaml:"device_indices,omitempty" toml:"device_indices,omitempty"`
	// Shard the model across the listed devices instead of replicating.
	TensorParallel bool `json:"tensor_parallel,omitempty" yaml:"tensor_parallel,omitempty" toml:"tensor_parallel,omitempty"`
	// Threads per replica (0 lets the engine choose).
	ThreadsPerReplica int `json:"threads_per_replica,omitempty" yaml:"threads_per_replica,omitempty" toml:"threads_per_replica,omitempty"`
	// Maximum batches in the native queue (-1 unlimited, 0 automatic).
	MaxQueuedBatches int `json:"max_queued_batches,omitempty" yaml:"max_queued_batches,omitempty" toml:"max_queued_batches,omitempty"`
	// First CPU core to pin replicas to; nil or -1 disables pinning.
	CPUCoreOffset *int `json:"cpu_core_offset,omitempty" yaml:"cpu_core_offset,omitempty" toml:"cpu_core_offset,omitempty"`
}

// ModelEntry declares one model explicitly instead of relying on directory
// scanning, and fixes its engine kind.
type ModelEntry struct {
	// Stable identifier, defaults to the directory base name.
	ID string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	// Engine kind: translator, generator or whisper.
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
	// Converted model directory.
	Path string `json:"path" yaml:"path" toml:"path"`
	// Per-model engine overrides; empty fields fall back to the daemon-wide
	// engine settings.
	Engine EngineSettings `json:"engine,omitempty" yaml:"engine,omitempty" toml:"engine,omitempty"`
}

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	// Model ids used when a request leaves "model" empty, one per endpoint.
	DefaultTranslator string `json:"default_translator" yaml:"default_translator" toml:"default_translator"`
	DefaultGenerator  string `json:"default_generator" yaml:"default_generator" toml:"default_generator"`
	DefaultWhisper    string `json:"default_whisper" yaml:"default_whisper" toml:"default_whisper"`
	// HTTP admission queue depth per engine; requests beyond it get 429.
	MaxQueueDepth int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	// How long a request may wait for a queue slot before 429, in ms.
	QueueTimeoutMS int `json:"queue_timeout_ms" yaml:"queue_timeout_ms" toml:"queue_timeout_ms"`
	// Daemon-wide engine settings.
	Engine EngineSettings `json:"engine" yaml:"engine" toml:"engine"`
	// Explicit model declarations; merged with the models_dir scan.
	Models []ModelEntry `json:"models" yaml:"models" toml:"models"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
