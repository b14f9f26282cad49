package ct2

// ReplicaPool tunes the worker pool the native engine runs internally.
type ReplicaPool struct {
	// Threads per translator/generator replica (0 lets the engine choose).
	NumThreadsPerReplica int
	// Maximum queued batches (-1 unlimited, 0 automatic). When the queue is
	// full, submissions block until a slot frees up.
	MaxQueuedBatches int
	// First CPU core to pin replicas to (-1 disables pinning).
	CPUCoreOffset int
}

// Config holds the construction-time settings for an engine handle. It is
// consumed by value; the native engine may retain the adapted form past the
// constructor call, so slices are copied, never aliased.
type Config struct {
	Device         Device
	ComputeType    ComputeType
	DeviceIndices  []int32
	TensorParallel bool
	ReplicaPool    ReplicaPool
}

/// DefaultConfig mirrors the native engine defaults: CPU, model quantization
// as converted, one replica on device 0.
func DefaultConfig() Config {
	return Config{
		Device:        CPU,
		ComputeType:   ComputeDefault,
		DeviceIndices: []int32{0},
		ReplicaPool: ReplicaPool{
			NumThreadsPerReplica: 0,
			MaxQueuedBatches:     0,
			CPUCoreOffset:        -1,
		},
	}
}

// nativeConfig is the adapted form handed to the native constructor.
type nativeConfig struct {
	device         int32
	computeType    int32
	deviceIndices  []int32
	tensorParallel bool
	threadsPerReplica int
	maxQueuedBatches  int
	cpuCoreOffset     int
}

// toNative validates the enum fields and copies the device index list. Index
// count consistency with tensor parallel mode is enforced by the native
// engine itself; a mismatch surfaces as a model load failure.
func (c Config) toNative() (*nativeConfig, error) {
	dev, err := c.Device.toNative()
	if err != nil {
		return nil, err
	}
	ct, err := c.ComputeType.toNative()
	if err != nil {
		return nil, err
	}
	indices := c.DeviceIndices
	if len(indices) == 0 {
		indices = []int32{0}
	}
	nc := &nativeConfig{
		device:            dev,
		computeType:       ct,
		deviceIndices:     append([]int32(nil), indices...),
		tensorParallel:    c.TensorParallel,
		threadsPerReplica: c.ReplicaPool.NumThreadsPerReplica,
		maxQueuedBatches:  c.ReplicaPool.MaxQueuedBatches,
		cpuCoreOffset:     c.ReplicaPool.CPUCoreOffset,
	}
	return nc, nil
}
