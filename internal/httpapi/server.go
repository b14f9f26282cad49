package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ct2d/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Ready() bool
	Translate(ctx context.Context, req types.TranslateRequest) (types.TranslateResponse, error)
	Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error)
	GenerateStream(ctx context.Context, req types.GenerateRequest, w io.Writer, flush func()) error
	Transcribe(ctx context.Context, req types.TranscribeRequest) (types.TranscribeResponse, error)
	Score(ctx context.Context, req types.ScoreRequest) (types.ScoreResponse, error)
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", handleModels(svc))
	r.Get("/status", handleStatus(svc))
	r.Post("/translate", handleTranslate(svc))
	r.Post("/generate", handleGenerate(svc))
	r.Post("/transcribe", handleTranscribe(svc))
	r.Post("/score", handleScore(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSON enforces the JSON content type and the body limit, then decodes
// into dst. On failure it writes the error response and reports false.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

func handleModels(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ModelsResponse{Models: svc.ListModels()})
	}
}

func handleStatus(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	}
}

func handleTranslate(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TranslateRequest
		if !decodeJSON(w, r, maxBodyBytes, &req) {
			return
		}
		if len(req.Source) == 0 {
			writeJSONError(w, http.StatusBadRequest, "source is required")
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		lvl := requestLogLevel(r)
		resp, err := svc.Translate(ctx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writeServiceError(w, err)
			logRequestEnd(r, lvl, "translate", status, req.Model, err)
			return
		}
		writeJSON(w, resp)
		logRequestEnd(r, lvl, "translate", http.StatusOK, resp.Model, nil)
	}
}

func handleGenerate(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.GenerateRequest
		if !decodeJSON(w, r, maxBodyBytes, &req) {
			return
		}
		if len(req.StartTokens) == 0 {
			writeJSONError(w, http.StatusBadRequest, "start_tokens is required")
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		lvl := requestLogLevel(r)

		if !req.Stream {
			resp, err := svc.Generate(ctx, req)
			if err != nil {
				if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
					return
				}
				status := writeServiceError(w, err)
				logRequestEnd(r, lvl, "generate", status, req.Model, err)
				return
			}
			writeJSON(w, resp)
			logRequestEnd(r, lvl, "generate", http.StatusOK, resp.Model, nil)
			return
		}

		// Stream NDJSON token events
		w.Header().Set("Content-Type", "application/x-ndjson")
		var flush func()
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
		}
		writer := io.Writer(w)
		if lvl >= LevelDebug {
			writer = io.MultiWriter(w, &loggingLineWriter{})
		}
		if err := svc.GenerateStream(ctx, req, writer, flush); err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			// Headers may already be out; the JSON error is best effort and
			// only correct when nothing was streamed yet.
			status := writeServiceError(w, err)
			logRequestEnd(r, lvl, "generate", status, req.Model, err)
			return
		}
		logRequestEnd(r, lvl, "generate", http.StatusOK, req.Model, nil)
	}
}

func handleTranscribe(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TranscribeRequest
		if !decodeJSON(w, r, maxFeaturesBodyBytes, &req) {
			return
		}
		if len(req.Features.Shape) == 0 || len(req.Features.Data) == 0 {
			writeJSONError(w, http.StatusBadRequest, "features are required")
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		lvl := requestLogLevel(r)
		resp, err := svc.Transcribe(ctx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writeServiceError(w, err)
			logRequestEnd(r, lvl, "transcribe", status, req.Model, err)
			return
		}
		writeJSON(w, resp)
		logRequestEnd(r, lvl, "transcribe", http.StatusOK, resp.Model, nil)
	}
}

func handleScore(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ScoreRequest
		if !decodeJSON(w, r, maxBodyBytes, &req) {
			return
		}
		if len(req.Tokens) == 0 {
			writeJSONError(w, http.StatusBadRequest, "tokens is required")
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		lvl := requestLogLevel(r)
		resp, err := svc.Score(ctx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writeServiceError(w, err)
			logRequestEnd(r, lvl, "score", status, req.Model, err)
			return
		}
		writeJSON(w, resp)
		logRequestEnd(r, lvl, "score", http.StatusOK, resp.Model, nil)
	}
}
