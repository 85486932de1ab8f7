package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ct2go/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Translate(ctx context.Context, modelID string, source, targetPrefix [][]string, opts types.TranslationOptions, cb types.StepCallback) ([]types.TranslationResult, error)
	Generate(ctx context.Context, modelID string, startTokens [][]string, opts types.GenerationOptions, cb types.StepCallback) ([]types.GenerationResult, error)
	Ready() bool
}

// endTokenOverride interprets the request-level end token fields.
func endTokenOverride(tokens []string, ids []int) (types.EndToken, error) {
	if len(tokens) > 0 && len(ids) > 0 {
		return nil, errBadRequest("end_tokens and end_token_ids are mutually exclusive")
	}
	if len(ids) > 0 {
		return types.EndTokenIDs(ids), nil
	}
	switch len(tokens) {
	case 0:
		return nil, nil
	case 1:
		return types.EndTokenSingle(tokens[0]), nil
	default:
		return types.EndTokenMultiple(tokens), nil
	}
}

type badRequestError string

func (e badRequestError) Error() string   { return string(e) }
func (e badRequestError) StatusCode() int { return http.StatusBadRequest }

func errBadRequest(msg string) error { return badRequestError(msg) }

// decodeJSON enforces the content type and body size limit shared by the
// POST endpoints. dst should be pre-filled with defaults; decoding overlays
// only the fields the client sent.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
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
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Get("/models", handleModels(svc))
	r.Get("/status", handleStatus(svc))
	r.Post("/v1/translate", handleTranslate(svc))
	r.Post("/v1/generate", handleGenerate(svc))

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
		w.Write([]byte("draining"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleModels godoc
// @Summary List models
// @Description Lists the converted model directories the daemon can serve.
// @Produce json
// @Success 200 {object} types.ModelsResponse
// @Router /models [get]
func handleModels(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: svc.ListModels()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// handleStatus godoc
// @Summary Runner status
// @Description Snapshots the loaded runners and their engine queue counters.
// @Produce json
// @Success 200 {object} types.StatusResponse
// @Router /status [get]
func handleStatus(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// handleTranslate godoc
// @Summary Translate a batch
// @Description Translates a batch of pre-tokenized sequences.
// @Accept json
// @Produce json
// @Param request body types.TranslateRequest true "translate request"
// @Success 200 {object} types.TranslateResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /v1/translate [post]
func handleTranslate(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := types.TranslateRequest{Options: types.DefaultTranslationOptions()}
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Source) == 0 {
			writeJSONError(w, http.StatusBadRequest, "source is required")
			return
		}
		end, err := endTokenOverride(req.EndTokens, req.EndTokenIDs)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Options.EndToken = end

		lvl := requestLogLevel(r)
		start := time.Now()
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		results, err := svc.Translate(joinedCtx, req.Model, req.Source, req.TargetPrefixes, req.Options, nil)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusForError(err)
			writeJSONError(w, status, err.Error())
			logRequestEnd(r, lvl, "translate", status, start, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.TranslateResponse{Results: results}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		logRequestEnd(r, lvl, "translate", http.StatusOK, start, nil)
	}
}

// handleGenerate godoc
// @Summary Generate continuations
// @Description Generates continuations for a batch of start sequences. With
// @Description stream=true the response is NDJSON: one line per generated
// @Description token followed by a final results line.
// @Accept json
// @Produce json
// @Param request body types.GenerateRequest true "generate request"
// @Success 200 {object} types.GenerateResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /v1/generate [post]
func handleGenerate(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := types.GenerateRequest{Options: types.DefaultGenerationOptions()}
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.StartTokens) == 0 {
			writeJSONError(w, http.StatusBadRequest, "start_tokens is required")
			return
		}
		end, err := endTokenOverride(req.EndTokens, req.EndTokenIDs)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Options.EndToken = end

		lvl := requestLogLevel(r)
		start := time.Now()
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		if !req.Stream {
			results, err := svc.Generate(joinedCtx, req.Model, req.StartTokens, req.Options, nil)
			if err != nil {
				if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
					return
				}
				status := statusForError(err)
				writeJSONError(w, status, err.Error())
				logRequestEnd(r, lvl, "generate", status, start, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(types.GenerateResponse{Results: results}); err != nil {
				writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
				return
			}
			logRequestEnd(r, lvl, "generate", http.StatusOK, start, nil)
			return
		}

		// Streaming: one NDJSON line per generated token, then one final
		// line holding the full results. A disconnected client stops the
		// generation through the callback's early-stop return.
		w.Header().Set("Content-Type", "application/x-ndjson")
		var flush func()
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
		}
		writer := io.Writer(w)
		if lvl >= LevelDebug {
			writer = io.MultiWriter(w, &loggingLineWriter{})
		}
		enc := json.NewEncoder(writer)
		cb := func(step types.GenerationStepResult) bool {
			if joinedCtx.Err() != nil {
				return true
			}
			if err := enc.Encode(step); err != nil {
				return true
			}
			if flush != nil {
				flush()
			}
			return false
		}
		results, err := svc.Generate(joinedCtx, req.Model, req.StartTokens, req.Options, cb)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			// Headers are already out; surface the error as a final line.
			status := statusForError(err)
			_ = enc.Encode(types.ErrorResponse{Error: err.Error(), Code: status})
			logRequestEnd(r, lvl, "generate", status, start, err)
			return
		}
		_ = enc.Encode(types.GenerateResponse{Results: results})
		if flush != nil {
			flush()
		}
		logRequestEnd(r, lvl, "generate", http.StatusOK, start, nil)
	}
}
