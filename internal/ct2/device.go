package ct2

import "fmt"

// Device selects the compute device the engine places replicas on.
type Device int

const (
	CPU Device = iota
	CUDA
)

// ParseDevice converts a config string into a Device.
func ParseDevice(s string) (Device, error) {
	switch s {
	case "", "cpu", "CPU":
		return CPU, nil
	case "cuda", "CUDA":
		return CUDA, nil
	default:
		return 0, invalidArgumentError{msg: "unknown device: " + s}
	}
}

func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	default:
		return "Unknown"
	}
}

// ComputeType controls the quantization/precision the model runs with.
// Default keeps whatever quantization the model was converted with; Auto picks
// the fastest type supported by the device.
type ComputeType int

const (
	ComputeDefault ComputeType = iota
	ComputeAuto
	ComputeFloat32
	ComputeInt8
	ComputeInt8Float32
	ComputeInt8Float16
	ComputeInt8BFloat16
	ComputeInt16
	ComputeFloat16
	ComputeBFloat16
)

// ParseComputeType converts a config string into a ComputeType.
func ParseComputeType(s string) (ComputeType, error) {
	switch s {
	case "", "default":
		return ComputeDefault, nil
	case "auto":
		return ComputeAuto, nil
	case "float32":
		return ComputeFloat32, nil
	case "int8":
		return ComputeInt8, nil
	case "int8_float32":
		return ComputeInt8Float32, nil
	case "int8_float16":
		return ComputeInt8Float16, nil
	case "int8_bfloat16":
		return ComputeInt8BFloat16, nil
	case "int16":
		return ComputeInt16, nil
	case "float16":
		return ComputeFloat16, nil
	case "bfloat16":
		return ComputeBFloat16, nil
	default:
		return 0, invalidArgumentError{msg: "unknown compute type: " + s}
	}
}

func (c ComputeType) String() string {
	switch c {
	case ComputeDefault:
		return "default"
	case ComputeAuto:
		return "auto"
	case ComputeFloat32:
		return "float32"
	case ComputeInt8:
		return "int8"
	case ComputeInt8Float32:
		return "int8_float32"
	case ComputeInt8Float16:
		return "int8_float16"
	case ComputeInt8BFloat16:
		return "int8_bfloat16"
	case ComputeInt16:
		return "int16"
	case ComputeFloat16:
		return "float16"
	case ComputeBFloat16:
		return "bfloat16"
	default:
		return "unknown"
	}
}

// BatchType selects whether MaxBatchSize counts examples or tokens.
type BatchType int

const (
	BatchByExamples BatchType = iota
	BatchByTokens
)

// ParseBatchType converts a config string into a BatchType.
func ParseBatchType(s string) (BatchType, error) {
	switch s {
	case "", "examples":
		return BatchByExamples, nil
	case "tokens":
		return BatchByTokens, nil
	default:
		return 0, invalidArgumentError{msg: "unknown batch type: " + s}
	}
}

func (b BatchType) String() string {
	switch b {
	case BatchByExamples:
		return "examples"
	case BatchByTokens:
		return "tokens"
	default:
		return "unknown"
	}
}

// Native enum codes. Every case is mapped explicitly; an out-of-range value is
// a programming error and fails instead of defaulting.

func (d Device) toNative() (int32, error) {
	switch d {
	case CPU:
		return 0, nil
	case CUDA:
		return 1, nil
	default:
		return 0, invalidArgumentError{msg: fmt.Sprintf("device out of range: %d", int(d))}
	}
}

func (c ComputeType) toNative() (int32, error) {
	switch c {
	case ComputeDefault:
		return 0, nil
	case ComputeAuto:
		return 1, nil
	case ComputeFloat32:
		return 2, nil
	case ComputeInt8:
		return 3, nil
	case ComputeInt8Float32:
		return 4, nil
	case ComputeInt8Float16:
		return 5, nil
	case ComputeInt8BFloat16:
		return 6, nil
	case ComputeInt16:
		return 7, nil
	case ComputeFloat16:
		return 8, nil
	case ComputeBFloat16:
		return 9, nil
	default:
		return 0, invalidArgumentError{msg: fmt.Sprintf("compute type out of range: %d", int(c))}
	}
}

func (b BatchType) toNative() (int32, error) {
	switch b {
	case BatchByExamples:
		return 0, nil
	case BatchByTokens:
		return 1, nil
	default:
		return 0, invalidArgumentError{msg: fmt.Sprintf("batch type out of range: %d", int(b))}
	}
}
