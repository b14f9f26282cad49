package service

import (
	"ct2d/internal/ct2"
)

// EngineCounters is the live gauge surface every engine handle exposes.
type EngineCounters interface {
	QueuedBatches() (int, error)
	ActiveBatches() (int, error)
	Replicas() (int, error)
}

// TranslatorHandle abstracts one loaded translation engine.
type TranslatorHandle interface {
	EngineCounters
	TranslateBatch(source [][]string, opts ct2.TranslationOptions, cb ct2.StepCallback) ([]ct2.TranslationResult, error)
	TranslateBatchWithTargetPrefix(source, targetPrefix [][]string, opts ct2.TranslationOptions, cb ct2.StepCallback) ([]ct2.TranslationResult, error)
	ScoreBatch(batch [][]string, opts ct2.ScoringOptions) ([]ct2.ScoringResult, error)
	Close() error
}

// GeneratorHandle abstracts one loaded generation engine.
type GeneratorHandle interface {
	EngineCounters
	GenerateBatch(startTokens [][]string, opts ct2.GenerationOptions, cb ct2.StepCallback) ([]ct2.GenerationResult, error)
	ScoreBatch(batch [][]string, opts ct2.ScoringOptions) ([]ct2.ScoringResult, error)
	Close() error
}

// WhisperHandle abstracts one loaded speech recognition engine.
type WhisperHandle interface {
	EngineCounters
	Generate(features *ct2.Features, prompts [][]string, opts ct2.WhisperOptions) ([]ct2.WhisperResult, error)
	DetectLanguage(features *ct2.Features) ([][]ct2.LanguageDetection, error)
	Close() error
}

// Runtime abstracts the engine loader so tests can substitute fakes. The
// default is the in-process native runtime.
type Runtime interface {
	Available() bool
	OpenTranslator(src ct2.ModelSource, cfg ct2.Config) (TranslatorHandle, error)
	OpenGenerator(src ct2.ModelSource, cfg ct2.Config) (GeneratorHandle, error)
	OpenWhisper(src ct2.ModelSource, cfg ct2.Config) (WhisperHandle, error)
}

type nativeRuntime struct{}

// NewNativeRuntime returns the Runtime backed by the in-process engine.
func NewNativeRuntime() Runtime { return nativeRuntime{} }

func (nativeRuntime) Available() bool { return ct2.Available() }

func (nativeRuntime) OpenTranslator(src ct2.ModelSource, cfg ct2.Config) (TranslatorHandle, error) {
	return ct2.LoadTranslator(src, cfg)
}

func (nativeRuntime) OpenGenerator(src ct2.ModelSource, cfg ct2.Config) (GeneratorHandle, error) {
	return ct2.LoadGenerator(src, cfg)
}

func (nativeRuntime) OpenWhisper(src ct2.ModelSource, cfg ct2.Config) (WhisperHandle, error) {
	return ct2.LoadWhisper(src, cfg)
}
