package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ct2d/internal/ct2"
	"ct2d/internal/httpapi"
	"ct2d/internal/registry"
	"ct2d/internal/service"
)

// createTempModelsDir creates converted model directories (model.bin marker)
// and returns the directory path.
func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		sub := filepath.Join(dir, n)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
		if err := os.WriteFile(filepath.Join(sub, "model.bin"), []byte(""), 0o644); err != nil {
			t.Fatalf("write marker %s: %v", sub, err)
		}
	}
	return dir
}

// echoRuntime satisfies service.Runtime with deterministic in-memory engines
// so the whole HTTP stack can be exercised without the native library.
type echoRuntime struct {
	// blockTranslate, when set, stalls every TranslateBatch until closed.
	blockTranslate chan struct{}
}

func (r *echoRuntime) Available() bool { return true }

func (r *echoRuntime) OpenTranslator(src ct2.ModelSource, cfg ct2.Config) (service.TranslatorHandle, error) {
	return &echoTranslator{rt: r}, nil
}

func (r *echoRuntime) OpenGenerator(src ct2.ModelSource, cfg ct2.Config) (service.GeneratorHandle, error) {
	return &echoGenerator{}, nil
}

func (r *echoRuntime) OpenWhisper(src ct2.ModelSource, cfg ct2.Config) (service.WhisperHandle, error) {
	return &echoWhisper{}, nil
}

type idleCounters struct{}

func (idleCounters) QueuedBatches() (int, error) { return 0, nil }
func (idleCounters) ActiveBatches() (int, error) { return 0, nil }
func (idleCounters) Replicas() (int, error)      { return 1, nil }

type echoTranslator struct {
	idleCounters
	rt *echoRuntime
}

func (h *echoTranslator) TranslateBatch(source [][]string, opts ct2.TranslationOptions, cb ct2.StepCallback) ([]ct2.TranslationResult, error) {
	return h.TranslateBatchWithTargetPrefix(source, nil, opts, cb)
}

func (h *echoTranslator) TranslateBatchWithTargetPrefix(source, targetPrefix [][]string, opts ct2.TranslationOptions, cb ct2.StepCallback) ([]ct2.TranslationResult, error) {
	if h.rt.blockTranslate != nil {
		<-h.rt.blockTranslate
	}
	out := make([]ct2.TranslationResult, len(source))
	for i, row := range source {
		hyp := append([]string{"<t>"}, row...)
		out[i] = ct2.TranslationResult{Hypotheses: [][]string{hyp}}
	}
	return out, nil
}

func (h *echoTranslator) ScoreBatch(batch [][]string, opts ct2.ScoringOptions) ([]ct2.ScoringResult, error) {
	out := make([]ct2.ScoringResult, len(batch))
	for i, row := range batch {
		scores := make([]float32, len(row))
		for j := range row {
			scores[j] = -0.5
		}
		out[i] = ct2.ScoringResult{Tokens: row, TokenScores: scores}
	}
	return out, nil
}

func (h *echoTranslator) Close() error { return nil }

type echoGenerator struct{ idleCounters }

func (h *echoGenerator) GenerateBatch(startTokens [][]string, opts ct2.GenerationOptions, cb ct2.StepCallback) ([]ct2.GenerationResult, error) {
	if cb != nil {
		for step, tok := range []string{"▁one", "▁two"} {
			if !cb(ct2.StepResult{Step: step, Token: tok, TokenID: int32(step + 10), IsLast: step == 1}) {
				break
			}
		}
	}
	out := make([]ct2.GenerationResult, len(startTokens))
	for i, row := range startTokens {
		out[i] = ct2.GenerationResult{Sequences: [][]string{append(append([]string(nil), row...), "▁one", "▁two")}}
	}
	return out, nil
}

func (h *echoGenerator) ScoreBatch(batch [][]string, opts ct2.ScoringOptions) ([]ct2.ScoringResult, error) {
	out := make([]ct2.ScoringResult, len(batch))
	for i, row := range batch {
		out[i] = ct2.ScoringResult{Tokens: row, TokenScores: make([]float32, len(row))}
	}
	return out, nil
}

func (h *echoGenerator) Close() error { return nil }

type echoWhisper struct{ idleCounters }

func (h *echoWhisper) Generate(features *ct2.Features, prompts [][]string, opts ct2.WhisperOptions) ([]ct2.WhisperResult, error) {
	out := make([]ct2.WhisperResult, features.BatchSize())
	for i := range out {
		out[i] = ct2.WhisperResult{Sequences: [][]string{{"<|en|>", "▁hi"}}, NoSpeechProb: 0.02}
	}
	return out, nil
}

func (h *echoWhisper) DetectLanguage(features *ct2.Features) ([][]ct2.LanguageDetection, error) {
	out := make([][]ct2.LanguageDetection, features.BatchSize())
	for i := range out {
		out[i] = []ct2.LanguageDetection{{Language: "<|en|>", Probability: 0.97}}
	}
	return out, nil
}

func (h *echoWhisper) Close() error { return nil }

type serverOpts struct {
	runtime       service.Runtime
	maxQueueDepth int
	maxWait       time.Duration
	kinds         map[string]string // model id -> kind override
}

// newServerForDir scans modelsDir, builds the service on the fake runtime
// and serves the real mux over httptest.
func newServerForDir(t *testing.T, modelsDir string, opts serverOpts) (*httptest.Server, *service.Service) {
	t.Helper()
	models, err := registry.LoadDir(modelsDir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	var defTranslator, defGenerator, defWhisper string
	for i, m := range models {
		if k, ok := opts.kinds[m.ID]; ok {
			models[i].Kind = k
		}
		switch models[i].Kind {
		case "translator":
			if defTranslator == "" {
				defTranslator = m.ID
			}
		case "generator":
			if defGenerator == "" {
				defGenerator = m.ID
			}
		case "whisper":
			if defWhisper == "" {
				defWhisper = m.ID
			}
		}
	}
	rt := opts.runtime
	if rt == nil {
		rt = &echoRuntime{}
	}
	svc := service.NewWithConfig(service.Config{
		Registry:          models,
		DefaultTranslator: defTranslator,
		DefaultGenerator:  defGenerator,
		DefaultWhisper:    defWhisper,
		MaxQueueDepth:     opts.maxQueueDepth,
		MaxWait:           opts.maxWait,
		Runtime:           rt,
	})
	t.Cleanup(func() { _ = svc.Close() })
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
