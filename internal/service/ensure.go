package service

import (
	"context"
	"fmt"
	"time"

	"ct2d/internal/config"
	"ct2d/internal/ct2"
	"ct2d/pkg/types"
)

// buildEngineConfig maps the daemon-wide engine settings, overridden by the
// model entry, onto the native construction config.
func buildEngineConfig(base config.EngineSettings, mdl types.Model) (ct2.Config, error) {
	devStr := mdl.Device
	if devStr == "" {
		devStr = base.Device
	}
	ctStr := mdl.ComputeType
	if ctStr == "" {
		ctStr = base.ComputeType
	}
	device, err := ct2.ParseDevice(devStr)
	if err != nil {
		return ct2.Config{}, err
	}
	compute, err := ct2.ParseComputeType(ctStr)
	if err != nil {
		return ct2.Config{}, err
	}
	cfg := ct2.DefaultConfig()
	cfg.Device = device
	cfg.ComputeType = compute
	if len(base.DeviceIndices) > 0 {
		cfg.DeviceIndices = append([]int32(nil), base.DeviceIndices...)
	}
	cfg.TensorParallel = base.TensorParallel
	cfg.ReplicaPool.NumThreadsPerReplica = base.ThreadsPerReplica
	cfg.ReplicaPool.MaxQueuedBatches = base.MaxQueuedBatches
	if base.CPUCoreOffset != nil {
		cfg.ReplicaPool.CPUCoreOffset = *base.CPUCoreOffset
	}
	return cfg, nil
}

// ensureEngine returns a ready engine for the model, loading it on first use.
// Concurrent callers for the same model share one load; a failed load is
// retried by the next caller.
func (s *Service) ensureEngine(ctx context.Context, mdl types.Model) (*engine, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, closedError{}
		}
		e := s.engines[mdl.ID]
		switch {
		case e == nil || e.state == StateError:
			// Take ownership of the load.
			e = &engine{
				model:    mdl,
				state:    StateLoading,
				lastUsed: time.Now(),
				genCh:    make(chan struct{}, 1),
				queueCh:  make(chan struct{}, s.maxQueueDepth),
				loaded:   make(chan struct{}),
			}
			s.engines[mdl.ID] = e
			s.mu.Unlock()
			return s.loadEngine(e)
		case e.state == StateReady:
			e.lastUsed = time.Now()
			s.mu.Unlock()
			return e, nil
		default: // loading elsewhere
			loaded := e.loaded
			s.mu.Unlock()
			select {
			case <-loaded:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			// Re-check: the load may have failed, in which case the next
			// loop iteration retries it.
			s.mu.RLock()
			cur := s.engines[mdl.ID]
			ready := cur != nil && cur.state == StateReady
			s.mu.RUnlock()
			if ready {
				return cur, nil
			}
		}
	}
}

// loadEngine constructs the native handle for an engine the caller just
// registered in the loading state.
func (s *Service) loadEngine(e *engine) (*engine, error) {
	cfg, err := buildEngineConfig(s.engineCfg, e.model)
	if err == nil {
		src := ct2.Dir(e.model.Path)
		switch e.model.Kind {
		case types.KindTranslator:
			e.translator, err = s.runtime.OpenTranslator(src, cfg)
		case types.KindGenerator:
			e.generator, err = s.runtime.OpenGenerator(src, cfg)
		case types.KindWhisper:
			e.whisper, err = s.runtime.OpenWhisper(src, cfg)
		default:
			err = fmt.Errorf("unknown engine kind %q", e.model.Kind)
		}
	}

	s.mu.Lock()
	if err != nil {
		e.state = StateError
		e.lastErr = err.Error()
		e.translator, e.generator, e.whisper = nil, nil, nil
	} else {
		e.state = StateReady
		e.lastUsed = time.Now()
		s.loadsTotal++
	}
	close(e.loaded)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return e, nil
}
