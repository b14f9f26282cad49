package service

import (
	"time"

	"ct2d/pkg/types"
)

// Status builds a detailed status response for /status. Engine gauges are
// read live from the native pools; a gauge read failing (engine closed
// between snapshot and read) leaves the zero values.
func (s *Service) Status() types.StatusResponse {
	s.mu.RLock()
	resp := types.StatusResponse{
		NativeAvailable: s.runtime.Available(),
		State:           string(s.state),
		Error:           s.err,
		UptimeSeconds:   int64(time.Since(s.startTime) / time.Second),
		ServerTimeUnix:  time.Now().Unix(),
		LoadsTotal:      s.loadsTotal,
	}
	engines := make([]*engine, 0, len(s.engines))
	for _, e := range s.engines {
		engines = append(engines, e)
	}
	statuses := make([]types.EngineStatus, len(engines))
	for i, e := range engines {
		statuses[i] = types.EngineStatus{
			ModelID:     e.model.ID,
			Kind:        e.model.Kind,
			State:       string(e.state),
			Device:      e.model.Device,
			ComputeType: e.model.ComputeType,
			LastUsed:    e.lastUsed.Unix(),
			LastError:   e.lastErr,
		}
	}
	s.mu.RUnlock()

	// Native gauge reads happen outside the lock; they block briefly on the
	// engine's internal mutex.
	for i, e := range engines {
		c := e.counters()
		if c == nil {
			continue
		}
		if n, err := c.QueuedBatches(); err == nil {
			statuses[i].QueuedBatches = n
		}
		if n, err := c.ActiveBatches(); err == nil {
			statuses[i].ActiveBatches = n
		}
		if n, err := c.Replicas(); err == nil {
			statuses[i].Replicas = n
		}
	}
	resp.Engines = statuses
	return resp
}
