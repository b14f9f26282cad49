package service

import (
	"time"

	"ct2d/pkg/types"
)

// State represents lifecycle state of the daemon/engines.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
	StateClosed  State = "closed"
)

// engine is one live model engine (one per model id). The handle fields are
// populated according to the model kind; exactly one is non-nil once ready.
type engine struct {
	model    types.Model
	state    State
	lastUsed time.Time
	lastErr  string

	translator TranslatorHandle
	generator  GeneratorHandle
	whisper    WhisperHandle

	// Queueing primitives
	genCh   chan struct{} // size 1: single in-flight batch per engine
	queueCh chan struct{} // buffered: admission queue slots
	loaded  chan struct{} // closed when the load attempt finished
}

// counters returns the engine's native gauge surface, or nil while loading.
func (e *engine) counters() EngineCounters {
	switch {
	case e.translator != nil:
		return e.translator
	case e.generator != nil:
		return e.generator
	case e.whisper != nil:
		return e.whisper
	}
	return nil
}

func (e *engine) closeHandle() error {
	switch {
	case e.translator != nil:
		return e.translator.Close()
	case e.generator != nil:
		return e.generator.Close()
	case e.whisper != nil:
		return e.whisper.Close()
	}
	return nil
}
