package service

import (
	"strings"
	"sync/atomic"

	"ct2d/internal/ct2"
	"ct2d/pkg/types"
)

// fakeRuntime opens in-memory fake handles and counts loads. A model whose
// path contains "broken" fails to open.
type fakeRuntime struct {
	opens  atomic.Int32
	closed atomic.Int32

	// Last handle of each kind; pre-set fields survive because Open
	// returns the prepared handle when one exists.
	translator *fakeTranslatorHandle
	generator  *fakeGeneratorHandle
	whisper    *fakeWhisperHandle
}

func (f *fakeRuntime) Available() bool { return true }

func (f *fakeRuntime) open(src ct2.ModelSource) error {
	dir, ok := src.(ct2.Dir)
	if ok && strings.Contains(string(dir), "broken") {
		return ct2.ErrModelLoad("cannot open " + string(dir))
	}
	f.opens.Add(1)
	return nil
}

func (f *fakeRuntime) OpenTranslator(src ct2.ModelSource, cfg ct2.Config) (TranslatorHandle, error) {
	if err := f.open(src); err != nil {
		return nil, err
	}
	if f.translator == nil {
		f.translator = &fakeTranslatorHandle{}
	}
	f.translator.rt = f
	return f.translator, nil
}

func (f *fakeRuntime) OpenGenerator(src ct2.ModelSource, cfg ct2.Config) (GeneratorHandle, error) {
	if err := f.open(src); err != nil {
		return nil, err
	}
	if f.generator == nil {
		f.generator = &fakeGeneratorHandle{}
	}
	f.generator.rt = f
	return f.generator, nil
}

func (f *fakeRuntime) OpenWhisper(src ct2.ModelSource, cfg ct2.Config) (WhisperHandle, error) {
	if err := f.open(src); err != nil {
		return nil, err
	}
	if f.whisper == nil {
		f.whisper = &fakeWhisperHandle{}
	}
	f.whisper.rt = f
	return f.whisper, nil
}

type fakeCounters struct{}

func (fakeCounters) QueuedBatches() (int, error) { return 1, nil }
func (fakeCounters) ActiveBatches() (int, error) { return 2, nil }
func (fakeCounters) Replicas() (int, error)      { return 3, nil }

type fakeTranslatorHandle struct {
	fakeCounters
	rt *fakeRuntime

	translateErr error
	itemErr      error
	lastOpts     ct2.TranslationOptions
	sawPrefix    [][]string
	// blockCh, when set, stalls TranslateBatch until it is closed.
	blockCh chan struct{}
}

func (h *fakeTranslatorHandle) TranslateBatch(source [][]string, opts ct2.TranslationOptions, cb ct2.StepCallback) ([]ct2.TranslationResult, error) {
	return h.TranslateBatchWithTargetPrefix(source, nil, opts, cb)
}

func (h *fakeTranslatorHandle) TranslateBatchWithTargetPrefix(source, targetPrefix [][]string, opts ct2.TranslationOptions, cb ct2.StepCallback) ([]ct2.TranslationResult, error) {
	if h.blockCh != nil {
		<-h.blockCh
	}
	h.lastOpts = opts
	h.sawPrefix = targetPrefix
	if h.translateErr != nil {
		return nil, h.translateErr
	}
	out := make([]ct2.TranslationResult, len(source))
	for i, row := range source {
		if i == 0 && h.itemErr != nil {
			out[i] = ct2.TranslationResult{Err: h.itemErr}
			continue
		}
		// Reverse the row so the mapping is visible in assertions.
		rev := make([]string, len(row))
		for j, tok := range row {
			rev[len(row)-1-j] = tok
		}
		out[i] = ct2.TranslationResult{Hypotheses: [][]string{rev}, Scores: []float32{-0.5}}
	}
	return out, nil
}

func (h *fakeTranslatorHandle) ScoreBatch(batch [][]string, opts ct2.ScoringOptions) ([]ct2.ScoringResult, error) {
	out := make([]ct2.ScoringResult, len(batch))
	for i, row := range batch {
		scores := make([]float32, len(row))
		for j := range row {
			scores[j] = -1
		}
		out[i] = ct2.ScoringResult{Tokens: row, TokenScores: scores}
	}
	return out, nil
}

func (h *fakeTranslatorHandle) Close() error {
	h.rt.closed.Add(1)
	return nil
}

type fakeGeneratorHandle struct {
	fakeCounters
	rt *fakeRuntime

	generateErr error
	lastOpts    ct2.GenerationOptions
	// steps drives the callback before results are returned.
	steps []ct2.StepResult
}

func (h *fakeGeneratorHandle) GenerateBatch(startTokens [][]string, opts ct2.GenerationOptions, cb ct2.StepCallback) ([]ct2.GenerationResult, error) {
	h.lastOpts = opts
	if h.generateErr != nil {
		return nil, h.generateErr
	}
	if cb != nil {
		for _, st := range h.steps {
			if !cb(st) {
				break
			}
		}
	}
	out := make([]ct2.GenerationResult, len(startTokens))
	for i, row := range startTokens {
		out[i] = ct2.GenerationResult{
			Sequences:   [][]string{append(append([]string(nil), row...), "▁next")},
			SequenceIDs: [][]int32{{7}},
		}
	}
	return out, nil
}

func (h *fakeGeneratorHandle) ScoreBatch(batch [][]string, opts ct2.ScoringOptions) ([]ct2.ScoringResult, error) {
	out := make([]ct2.ScoringResult, len(batch))
	for i, row := range batch {
		out[i] = ct2.ScoringResult{Tokens: row, TokenScores: make([]float32, len(row))}
	}
	return out, nil
}

func (h *fakeGeneratorHandle) Close() error {
	h.rt.closed.Add(1)
	return nil
}

type fakeWhisperHandle struct {
	fakeCounters
	rt *fakeRuntime

	detections [][]ct2.LanguageDetection
}

func (h *fakeWhisperHandle) Generate(features *ct2.Features, prompts [][]string, opts ct2.WhisperOptions) ([]ct2.WhisperResult, error) {
	out := make([]ct2.WhisperResult, features.BatchSize())
	for i := range out {
		out[i] = ct2.WhisperResult{
			Sequences:    [][]string{{"<|en|>", "▁hello"}},
			NoSpeechProb: 0.125,
		}
	}
	return out, nil
}

func (h *fakeWhisperHandle) DetectLanguage(features *ct2.Features) ([][]ct2.LanguageDetection, error) {
	if h.detections != nil {
		return h.detections, nil
	}
	out := make([][]ct2.LanguageDetection, features.BatchSize())
	for i := range out {
		out[i] = []ct2.LanguageDetection{{Language: "<|en|>", Probability: 0.9}}
	}
	return out, nil
}

func (h *fakeWhisperHandle) Close() error {
	h.rt.closed.Add(1)
	return nil
}

func testRegistry() []types.Model {
	return []types.Model{
		{ID: "en-de", Kind: types.KindTranslator, Path: "/models/en-de"},
		{ID: "gpt2", Kind: types.KindGenerator, Path: "/models/gpt2"},
		{ID: "whisper-base", Kind: types.KindWhisper, Path: "/models/whisper-base"},
		{ID: "bad", Kind: types.KindTranslator, Path: "/models/broken"},
	}
}

func newTestService(rt *fakeRuntime) *Service {
	return NewWithConfig(Config{
		Registry:          testRegistry(),
		DefaultTranslator: "en-de",
		DefaultGenerator:  "gpt2",
		DefaultWhisper:    "whisper-base",
		Runtime:           rt,
	})
}
