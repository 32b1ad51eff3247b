package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/sinew"
	"github.com/aretw0/sinew/internal/logging"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/keyframes"
	"github.com/aretw0/sinew/pkg/nodes/aim"
	"github.com/aretw0/sinew/pkg/registry"
	"github.com/aretw0/sinew/pkg/scene"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/aretw0/sinew/pkg/vecmath"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves the HTTP API for an engine.
type Server struct {
	Engine   *sinew.Engine
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	doc    *openapi3.T
	router routers.Router
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer serves the given registry at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.Logger = l }
}

// Spec returns the embedded OpenAPI document.
func Spec() []byte { return rawSpec }

// NewHandler creates a new HTTP handler for the engine. Requests to
// documented operations are validated against the embedded OpenAPI
// document before they reach a handler.
func NewHandler(engine *sinew.Engine, opts ...Option) (http.Handler, error) {
	server := &Server{Engine: engine, Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(server)
	}
	if server.Gatherer == nil {
		server.Gatherer = prometheus.DefaultGatherer
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	server.doc = doc
	if server.router, err = legacy.NewRouter(doc); err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(server.validate)
		r.Get("/health", server.GetHealth)
		r.Get("/info", server.GetInfo)
		r.Get("/types", server.ListTypes)
		r.Get("/types/{name}", server.GetType)
		r.Post("/evaluate", server.EvaluateScene)
		r.Post("/aim", server.SolveAim)
		r.Post("/keyframes/reduce", server.ReduceKeyframes)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validate checks parameters and bodies against the OpenAPI document.
// Paths the document does not describe pass through untouched.
func (s *Server) validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		route, params, err := s.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			s.Logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>sinew API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.doc.Info != nil {
		apiVersion = s.doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "sinew-http",
		"version":     strings.TrimSpace(sinew.Version),
		"api_version": apiVersion,
	})
}

// ListTypes handles the GET /types request.
func (s *Server) ListTypes(w http.ResponseWriter, r *http.Request) {
	defs := s.Engine.Registry().Types()
	out := make([]*schema.Schema, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Schema)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetType handles the GET /types/{name} request.
func (s *Server) GetType(w http.ResponseWriter, r *http.Request) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter name: %w", err))
		return
	}

	def, err := s.Engine.Registry().Lookup(name)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownType) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		s.Logger.Error("type lookup failed", "type", name, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, def.Schema)
}

// EvaluateScene handles the POST /evaluate request.
func (s *Server) EvaluateScene(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		s.Logger.Warn("EvaluateScene: invalid request body", "err", err)
		return
	}
	sc, err := scene.FromMap(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ev, err := s.Engine.Evaluate(r.Context(), sc)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		s.Logger.Warn("EvaluateScene failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ev)
}

type aimRequest struct {
	Constraint vecmath.Vector3 `json:"constraint"`
	Aim        vecmath.Vector3 `json:"aim"`
	Up         vecmath.Vector3 `json:"up"`
	Strict     bool            `json:"strict"`
}

// SolveAim handles the POST /aim request.
func (s *Server) SolveAim(w http.ResponseWriter, r *http.Request) {
	var body aimRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		s.Logger.Warn("SolveAim: invalid request body", "err", err)
		return
	}

	var opts []aim.Option
	if body.Strict {
		opts = append(opts, aim.WithStrict())
	}
	sol, err := aim.SolvePositions(body.Constraint, body.Aim, body.Up, opts...)
	if err != nil {
		var degenerate *domain.DegenerateVectorError
		if errors.As(err, &degenerate) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		s.Logger.Error("SolveAim failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sol)
}

type reduceRequest struct {
	Keys    []domain.Keyframe `json:"keys"`
	Epsilon float64           `json:"epsilon"`
}

// ReduceKeyframes handles the POST /keyframes/reduce request.
func (s *Server) ReduceKeyframes(w http.ResponseWriter, r *http.Request) {
	var body reduceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		s.Logger.Warn("ReduceKeyframes: invalid request body", "err", err)
		return
	}

	res, err := keyframes.Reduce(body.Keys, body.Epsilon)
	if err != nil {
		if errors.Is(err, keyframes.ErrDuplicateTime) || errors.Is(err, keyframes.ErrInvalidEpsilon) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		s.Logger.Error("ReduceKeyframes failed", "err", err)
		return
	}
	if res.Removed == nil {
		res.Removed = []domain.Keyframe{}
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		s.Logger.Error("response encode failed", "err", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
