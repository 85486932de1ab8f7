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

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	// Device and ComputeType apply to every model the daemon loads.
	Device      string `json:"device" yaml:"device" toml:"device"`
	ComputeType string `json:"compute_type" yaml:"compute_type" toml:"compute_type"`
	// DeviceIndices lists the device ids replicas are placed on.
	DeviceIndices []int `json:"device_indices" yaml:"device_indices" toml:"device_indices"`
	// NumThreadsPerReplica is the intra-op thread count per replica.
	NumThreadsPerReplica int `json:"num_threads_per_replica" yaml:"num_threads_per_replica" toml:"num_threads_per_replica"`
	MaxQueuedBatches     int `json:"max_queued_batches" yaml:"max_queued_batches" toml:"max_queued_batches"`
	// MaxLoadedModels bounds lazily loaded runners (0 = unlimited).
	MaxLoadedModels int    `json:"max_loaded_models" yaml:"max_loaded_models" toml:"max_loaded_models"`
	DefaultModel    string `json:"default_model" yaml:"default_model" toml:"default_model"`
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
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
