package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ct2d/pkg/types"
)

type mockService struct {
	models []types.Model
	status types.StatusResponse
	ready  bool

	translateErr  error
	generateErr   error
	streamErr     error
	transcribeErr error
	scoreErr      error

	lastTranslate types.TranslateRequest
	lastGenerate  types.GenerateRequest
}

func (m *mockService) ListModels() []types.Model    { return append([]types.Model(nil), m.models...) }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }

func (m *mockService) Translate(ctx context.Context, req types.TranslateRequest) (types.TranslateResponse, error) {
	m.lastTranslate = req
	if m.translateErr != nil {
		return types.TranslateResponse{}, m.translateErr
	}
	results := make([]types.TranslationItem, len(req.Source))
	for i := range req.Source {
		results[i] = types.TranslationItem{Hypotheses: [][]string{{"ok"}}}
	}
	return types.TranslateResponse{Model: req.Model, Results: results}, nil
}

func (m *mockService) Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error) {
	m.lastGenerate = req
	if m.generateErr != nil {
		return types.GenerateResponse{}, m.generateErr
	}
	results := make([]types.GenerationItem, len(req.StartTokens))
	for i := range req.StartTokens {
		results[i] = types.GenerationItem{Sequences: [][]string{{"a", "b"}}}
	}
	return types.GenerateResponse{Model: req.Model, Results: results}, nil
}

func (m *mockService) GenerateStream(ctx context.Context, req types.GenerateRequest, w io.Writer, flush func()) error {
	m.lastGenerate = req
	if m.streamErr != nil {
		return m.streamErr
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(types.TokenEvent{Step: 0, Token: "hi"})
	if flush != nil {
		flush()
	}
	_ = enc.Encode(types.TokenEvent{Done: true})
	if flush != nil {
		flush()
	}
	return nil
}

func (m *mockService) Transcribe(ctx context.Context, req types.TranscribeRequest) (types.TranscribeResponse, error) {
	if m.transcribeErr != nil {
		return types.TranscribeResponse{}, m.transcribeErr
	}
	return types.TranscribeResponse{Model: req.Model, Results: []types.TranscriptionItem{{Sequences: [][]string{{"<|en|>"}}}}}, nil
}

func (m *mockService) Score(ctx context.Context, req types.ScoreRequest) (types.ScoreResponse, error) {
	if m.scoreErr != nil {
		return types.ScoreResponse{}, m.scoreErr
	}
	results := make([]types.ScoreItem, len(req.Tokens))
	return types.ScoreResponse{Model: req.Model, Results: results}, nil
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	return w
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "en-de", Kind: types.KindTranslator}, {ID: "whisper-base", Kind: types.KindWhisper}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Models) != 2 {
		t.Fatalf("models len=%d", len(body.Models))
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "ready", NativeAvailable: true, LoadsTotal: 3}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "ready" || body.LoadsTotal != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	r := NewMux(&mockService{ready: false})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "loading") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestTranslateOK(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := postJSON(t, r, "/translate", `{"model":"en-de","source":[["▁Hello","▁world"]]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.TranslateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Results) != 1 {
		t.Fatalf("results len=%d", len(body.Results))
	}
	if len(svc.lastTranslate.Source) != 1 || svc.lastTranslate.Source[0][0] != "▁Hello" {
		t.Fatalf("request not forwarded: %+v", svc.lastTranslate)
	}
}

func TestTranslateMissingSource(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/translate", `{"model":"en-de"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestTranslateBadJSON(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/translate", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestTranslateWrongContentType(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewBufferString(`{"source":[["a"]]}`))
	req.Header.Set("Content-Type", "text/plain")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGenerateBuffered(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := postJSON(t, r, "/generate", `{"model":"gpt2","start_tokens":[["<s>"]]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Results) != 1 {
		t.Fatalf("results len=%d", len(body.Results))
	}
}

func TestGenerateStreams(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := postJSON(t, r, "/generate", `{"model":"gpt2","start_tokens":[["<s>"]],"stream":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/x-ndjson") {
		t.Fatalf("content-type=%s", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 ndjson lines, got %d: %q", len(lines), w.Body.String())
	}
	var last types.TokenEvent
	if err := json.Unmarshal([]byte(lines[1]), &last); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !last.Done {
		t.Fatalf("final event not done: %+v", last)
	}
}

func TestGenerateMissingStartTokens(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/generate", `{"model":"gpt2"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestTranscribeOK(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/transcribe", `{"model":"whisper-base","features":{"shape":[1,80,4],"data":[0,0,0,0]}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestTranscribeMissingFeatures(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/transcribe", `{"model":"whisper-base"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestScoreOK(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/score", `{"model":"en-de","tokens":[["a","b"]]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestScoreMissingTokens(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/score", `{"model":"en-de"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func TestHTTPErrorPassthrough(t *testing.T) {
	svc := &mockService{translateErr: mockHTTPError{msg: "teapot", code: http.StatusTeapot}}
	r := NewMux(svc)
	w := postJSON(t, r, "/translate", `{"source":[["a"]]}`)
	if w.Code != http.StatusTeapot {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGenericErrorMaps500(t *testing.T) {
	svc := &mockService{translateErr: io.EOF}
	r := NewMux(svc)
	w := postJSON(t, r, "/translate", `{"source":[["a"]]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != http.StatusInternalServerError {
		t.Fatalf("error payload: %+v", body)
	}
}
