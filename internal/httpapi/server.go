package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether a required collaborator is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the use cases and infrastructure the server exposes.
type Deps struct {
	Crisis    app.CrisisDetectionUseCase
	Recommend app.RecommendationUseCase
	Health    Pinger
	Registry  *prometheus.Registry
	Logger    *slog.Logger
}

type Server struct {
	deps Deps
}

// NewServer returns the engine's HTTP handler.
func NewServer(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	s := &Server{deps: deps}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /detect", s.handleDetect)
	mux.HandleFunc("POST /recommendations", s.handleRecommendations)
	mux.HandleFunc("POST /check", s.handleCheck)
	mux.HandleFunc("GET /users/{userID}/detection", s.handleUserDetection)
	mux.HandleFunc("POST /users/{userID}/recommendations", s.handleUserRecommendations)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	return chainMiddlewares(mux, withRecover(deps.Logger), withLogging(deps.Logger))
}

// NewHTTPServer wraps handler with the timeouts used by `haven serve`.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req app.DetectRequest
	if !decode(w, r, &req) {
		return
	}
	if err := app.ValidateUserID(req.UserID); err != nil {
		writeEngineError(w, err)
		return
	}
	if req.Snapshot.UserID == "" {
		req.Snapshot.UserID = req.UserID
	}
	writeJSON(w, http.StatusOK, s.deps.Crisis.DetectCrisis(r.Context(), req.UserID, req.Snapshot))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req app.ContextRecommendRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Recommend.GetRecommendations(r.Context(), req.Context, req.MaxItems))
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req app.CheckRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Crisis.CheckMessage(r.Context(), req.Text))
}

func (s *Server) handleUserDetection(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Crisis.DetectForUser(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUserRecommendations(w http.ResponseWriter, r *http.Request) {
	var req app.RecommendRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	req.UserID = r.PathValue("userID")
	resp, err := s.deps.Recommend.RecommendForUser(r.Context(), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Health.PingContext(ctx); err != nil {
			s.deps.Logger.ErrorContext(r.Context(), "health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, string(app.ErrUnavailable), "storage unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, string(app.ErrInvalidInput), fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

// writeEngineError maps input errors to 400 and everything else to 503.
func writeEngineError(w http.ResponseWriter, err error) {
	var engineErr *app.EngineError
	if errors.As(err, &engineErr) && engineErr.Code != app.ErrUnavailable {
		writeError(w, http.StatusBadRequest, string(engineErr.Code), engineErr.Message)
		return
	}
	writeError(w, http.StatusServiceUnavailable, string(app.ErrUnavailable), err.Error())
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
