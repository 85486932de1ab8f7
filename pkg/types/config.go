package types

import "fmt"

// Device selects where a model is placed.
type Device int

const (
	DeviceCPU Device = iota
	DeviceCUDA
)

func (d Device) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	case DeviceCUDA:
		return "cuda"
	default:
		return "unknown"
	}
}

// ParseDevice maps a config/API string to a Device.
func ParseDevice(s string) (Device, error) {
	switch s {
	case "", "cpu":
		return DeviceCPU, nil
	case "cuda", "gpu":
		return DeviceCUDA, nil
	default:
		return DeviceCPU, fmt.Errorf("unknown device: %q", s)
	}
}

// MarshalText writes the parseable name, so the JSON/config surface carries
// "cpu"/"cuda" rather than the internal enum value.
func (d Device) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Device) UnmarshalText(text []byte) error {
	v, err := ParseDevice(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ComputeType selects the model computation precision. ComputeDefault keeps
// the quantization the model was converted with; ComputeAuto picks the
// fastest type supported by the device. Whether a given combination is
// supported is decided by the engine at load time, not here.
type ComputeType int

const (
	ComputeDefault ComputeType = iota
	ComputeAuto
	ComputeFloat32
	ComputeFloat16
	ComputeInt8
	ComputeInt8Float16
	ComputeInt16
)

func (c ComputeType) String() string {
	switch c {
	case ComputeDefault:
		return "default"
	case ComputeAuto:
		return "auto"
	case ComputeFloat32:
		return "float32"
	case ComputeFloat16:
		return "float16"
	case ComputeInt8:
		return "int8"
	case ComputeInt8Float16:
		return "int8_float16"
	case ComputeInt16:
		return "int16"
	default:
		return "unknown"
	}
}

// ParseComputeType maps a config/API string to a ComputeType.
func ParseComputeType(s string) (ComputeType, error) {
	switch s {
	case "", "default":
		return ComputeDefault, nil
	case "auto":
		return ComputeAuto, nil
	case "float32":
		return ComputeFloat32, nil
	case "float16":
		return ComputeFloat16, nil
	case "int8":
		return ComputeInt8, nil
	case "int8_float16":
		return ComputeInt8Float16, nil
	case "int16":
		return ComputeInt16, nil
	default:
		return ComputeDefault, fmt.Errorf("unknown compute type: %q", s)
	}
}

func (c ComputeType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ComputeType) UnmarshalText(text []byte) error {
	v, err := ParseComputeType(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// BatchType says whether MaxBatchSize counts examples or total tokens.
type BatchType int

const (
	BatchExamples BatchType = iota
	BatchTokens
)

func (b BatchType) String() string {
	switch b {
	case BatchExamples:
		return "examples"
	case BatchTokens:
		return "tokens"
	default:
		return "unknown"
	}
}

// ParseBatchType maps a config/API string to a BatchType.
func ParseBatchType(s string) (BatchType, error) {
	switch s {
	case "", "examples":
		return BatchExamples, nil
	case "tokens":
		return BatchTokens, nil
	default:
		return BatchExamples, fmt.Errorf("unknown batch type: %q", s)
	}
}

func (b BatchType) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BatchType) UnmarshalText(text []byte) error {
	v, err := ParseBatchType(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// LogLevel mirrors the engine's logging levels.
type LogLevel int

const (
	LogOff      LogLevel = -3
	LogCritical LogLevel = -2
	LogError    LogLevel = -1
	LogWarning  LogLevel = 0
	LogInfo     LogLevel = 1
	LogDebug    LogLevel = 2
	LogTrace    LogLevel = 3
)

func (l LogLevel) String() string {
	switch l {
	case LogOff:
		return "off"
	case LogCritical:
		return "critical"
	case LogError:
		return "error"
	case LogWarning:
		return "warning"
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	case LogTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// Config carries the engine construction parameters consumed by every model
// runner constructor. Values are passed through to the engine as-is: the
// engine validates device/compute combinations and the tensor-parallel /
// replica constraints itself.
type Config struct {
	Device      Device      `json:"device" yaml:"device" toml:"device"`
	ComputeType ComputeType `json:"compute_type" yaml:"compute_type" toml:"compute_type"`
	// DeviceIndices lists explicit device ids. An empty list means "engine
	// default" and is forwarded as empty; the engine treats the two
	// differently, so no default is injected here.
	DeviceIndices  []int `json:"device_indices" yaml:"device_indices" toml:"device_indices"`
	TensorParallel bool  `json:"tensor_parallel" yaml:"tensor_parallel" toml:"tensor_parallel"`
	// NumThreadsPerReplica is the intra-op thread count per replica
	// (0 lets the engine choose).
	NumThreadsPerReplica int `json:"num_threads_per_replica" yaml:"num_threads_per_replica" toml:"num_threads_per_replica"`
	// MaxQueuedBatches bounds the engine work queue (-1 unlimited,
	// 0 automatic). A full queue blocks callers until a slot frees up.
	MaxQueuedBatches int `json:"max_queued_batches" yaml:"max_queued_batches" toml:"max_queued_batches"`
	// CPUCoreOffset pins replica workers starting at this core (-1 disables
	// pinning).
	CPUCoreOffset int `json:"cpu_core_offset" yaml:"cpu_core_offset" toml:"cpu_core_offset"`
}

// DefaultConfig returns the engine defaults: CPU, converted precision, one
// replica on device 0, automatic queue sizing, no core pinning.
func DefaultConfig() Config {
	return Config{
		Device:        DeviceCPU,
		ComputeType:   ComputeDefault,
		DeviceIndices: []int{0},
		CPUCoreOffset: -1,
	}
}
