package service

import (
	"sync"
	"time"

	"ct2d/internal/config"
	"ct2d/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
)

// Config encapsulates all tunables for Service construction.
type Config struct {
	Registry []types.Model
	// Model ids used when a request leaves "model" empty, one per kind.
	DefaultTranslator string
	DefaultGenerator  string
	DefaultWhisper    string
	MaxQueueDepth     int
	MaxWait           time.Duration
	// Daemon-wide engine settings; per-model entries may override.
	Engine config.EngineSettings
	// Engine loader; nil selects the in-process native runtime.
	Runtime Runtime
}

// Service owns the loaded engines and serves batch inference on them.
// Engines are loaded lazily on first use and kept until Close.
type Service struct {
	mu       sync.RWMutex
	state    State
	err      string
	registry []types.Model
	engines  map[string]*engine
	closed   bool

	runtime   Runtime
	engineCfg config.EngineSettings

	defaultTranslator string
	defaultGenerator  string
	defaultWhisper    string

	maxQueueDepth int
	maxWait       time.Duration

	startTime  time.Time
	loadsTotal uint64
}

// NewWithConfig constructs a Service from Config.
func NewWithConfig(cfg Config) *Service {
	s := &Service{
		state:             StateReady,
		registry:          cfg.Registry,
		engines:           make(map[string]*engine),
		runtime:           cfg.Runtime,
		engineCfg:         cfg.Engine,
		defaultTranslator: cfg.DefaultTranslator,
		defaultGenerator:  cfg.DefaultGenerator,
		defaultWhisper:    cfg.DefaultWhisper,
	}
	if s.runtime == nil {
		s.runtime = NewNativeRuntime()
	}
	// Apply defaults if unset
	if cfg.MaxQueueDepth <= 0 {
		s.maxQueueDepth = defaultMaxQueueDepth
	} else {
		s.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		s.maxWait = defaultMaxWait
	} else {
		s.maxWait = cfg.MaxWait
	}
	s.startTime = time.Now()
	return s
}

// Ready reports whether the daemon can accept work.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && s.state != StateError
}

// ListModels returns a copy of the registry.
func (s *Service) ListModels() []types.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Model, len(s.registry))
	copy(out, s.registry)
	return out
}

func (s *Service) getModelByID(id string) (types.Model, bool) {
	for _, m := range s.registry {
		if m.ID == id {
			return m, true
		}
	}
	return types.Model{}, false
}

// resolveModel picks the request's model id or the configured default for
// the kind, and checks the registry entry matches the kind.
func (s *Service) resolveModel(requested, kind string) (types.Model, error) {
	id := requested
	if id == "" {
		switch kind {
		case types.KindTranslator:
			id = s.defaultTranslator
		case types.KindGenerator:
			id = s.defaultGenerator
		case types.KindWhisper:
			id = s.defaultWhisper
		}
		if id == "" {
			return types.Model{}, modelNotFoundError{id: "(unspecified)"}
		}
	}
	mdl, ok := s.getModelByID(id)
	if !ok {
		return types.Model{}, modelNotFoundError{id: id}
	}
	if mdl.Kind != kind {
		return types.Model{}, wrongKindError{id: id, want: kind, got: mdl.Kind}
	}
	return mdl, nil
}

// Close releases every loaded engine. Work submitted afterwards fails with a
// closed error. In-flight batches drain through the native engine first; the
// per-engine release blocks until its replica pool has stopped.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return closedError{}
	}
	s.closed = true
	s.state = StateClosed
	engines := make([]*engine, 0, len(s.engines))
	for _, e := range s.engines {
		engines = append(engines, e)
	}
	s.mu.Unlock()

	var first error
	for _, e := range engines {
		if err := e.closeHandle(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
