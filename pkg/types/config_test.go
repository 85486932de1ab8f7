package types

import (
	"encoding/json"
	"testing"
)

func TestParseDevice(t *testing.T) {
	cases := map[string]Device{
		"":     DeviceCPU,
		"cpu":  DeviceCPU,
		"cuda": DeviceCUDA,
		"gpu":  DeviceCUDA,
	}
	for in, want := range cases {
		got, err := ParseDevice(in)
		if err != nil {
			t.Fatalf("ParseDevice(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDevice(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseDevice("tpu"); err == nil {
		t.Fatalf("expected error for unknown device")
	}
}

func TestParseComputeType_RoundTrip(t *testing.T) {
	all := []ComputeType{
		ComputeDefault, ComputeAuto, ComputeFloat32, ComputeFloat16,
		ComputeInt8, ComputeInt8Float16, ComputeInt16,
	}
	for _, ct := range all {
		got, err := ParseComputeType(ct.String())
		if err != nil {
			t.Fatalf("ParseComputeType(%q): %v", ct.String(), err)
		}
		if got != ct {
			t.Fatalf("round trip %v -> %v", ct, got)
		}
	}
	if _, err := ParseComputeType("bfloat64"); err == nil {
		t.Fatalf("expected error for unknown compute type")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Device != DeviceCPU || cfg.ComputeType != ComputeDefault {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.DeviceIndices) != 1 || cfg.DeviceIndices[0] != 0 {
		t.Fatalf("expected device index 0, got %v", cfg.DeviceIndices)
	}
	if cfg.CPUCoreOffset != -1 {
		t.Fatalf("core pinning should be disabled by default: %d", cfg.CPUCoreOffset)
	}
}

func TestLogLevelString(t *testing.T) {
	if LogOff.String() != "off" || LogTrace.String() != "trace" {
		t.Fatalf("unexpected log level names")
	}
}

// The enums cross the JSON surface by name, the same names the parsers and
// CLI flags accept.
func TestEnumsMarshalAsNames(t *testing.T) {
	payload := struct {
		Device    Device      `json:"device"`
		Compute   ComputeType `json:"compute_type"`
		BatchType BatchType   `json:"batch_type"`
	}{DeviceCUDA, ComputeInt8Float16, BatchTokens}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"device":"cuda","compute_type":"int8_float16","batch_type":"tokens"}`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}

	var back struct {
		Device    Device      `json:"device"`
		Compute   ComputeType `json:"compute_type"`
		BatchType BatchType   `json:"batch_type"`
	}
	if err := json.Unmarshal([]byte(want), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Device != DeviceCUDA || back.Compute != ComputeInt8Float16 || back.BatchType != BatchTokens {
		t.Fatalf("round trip lost values: %+v", back)
	}

	if err := json.Unmarshal([]byte(`{"batch_type":"rows"}`), &back); err == nil {
		t.Fatalf("expected error for unknown batch type name")
	}
}

func TestParseBatchType(t *testing.T) {
	for in, want := range map[string]BatchType{"": BatchExamples, "examples": BatchExamples, "tokens": BatchTokens} {
		got, err := ParseBatchType(in)
		if err != nil || got != want {
			t.Fatalf("ParseBatchType(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBatchType("rows"); err == nil {
		t.Fatalf("expected error for unknown batch type")
	}
}
