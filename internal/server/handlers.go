package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/logger"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

const version = "1.0.0"

// maxBodyBytes bounds POST /classify bodies
const maxBodyBytes = 64 << 10

// Request is the POST /classify body. Sides may be any JSON value.
type Request struct {
	A any `json:"a"`
	B any `json:"b"`
	C any `json:"c"`
}

// Response represents the API response
type Response struct {
	Label     triangle.Label `json:"label"`
	Message   string         `json:"message"`
	Reason    string         `json:"reason"`
	Sides     []float64      `json:"sides,omitempty"`
	RequestID string         `json:"request_id"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
}

// ErrorResponse is returned when a request cannot be classified at all
type ErrorResponse struct {
	Error   string `json:"error"`
	Version string `json:"version"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	classifier *classifier.Classifier
	logger     *logger.Logger
	metrics    *Metrics
	log        atomic.Pointer[zap.Logger]
	quiet      atomic.Bool // suppress console logging (useful for tests)
	debug      atomic.Bool
}

// NewHandler creates a new handler with dependencies. The request log, console
// logger and metrics are all optional.
func NewHandler(cl *classifier.Classifier, l *logger.Logger, log *zap.Logger, m *Metrics) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		classifier: cl,
		logger:     l,
		metrics:    m,
	}
	h.log.Store(log)
	return h
}

// SetQuiet enables or disables console logging
func (h *Handler) SetQuiet(quiet bool) {
	h.quiet.Store(quiet)
}

// SetDebug enables or disables the debug endpoint
func (h *Handler) SetDebug(enabled bool) {
	h.debug.Store(enabled)
}

// DebugEnabled reports whether the debug endpoint is served
func (h *Handler) DebugEnabled() bool {
	return h.debug.Load()
}

func (h *Handler) console() *zap.Logger {
	if h.quiet.Load() {
		return zap.NewNop()
	}
	return h.log.Load()
}

// HandleClassify handles the main classification endpoint
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	if r.URL.Path != "/" && r.URL.Path != "/classify" {
		http.NotFound(w, r)
		return
	}

	var a, b, c any
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		a, b, c = sidesFromQuery(r.URL.Query())
	case http.MethodPost:
		req, err := decodeRequest(w, r)
		if err != nil {
			h.metrics.reject("bad_body")
			h.console().Debug("Rejected classify body", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a, b, c = req.A, req.B, req.C
	default:
		h.metrics.reject("method")
		w.Header().Set("Allow", "GET, HEAD, POST")
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result := h.classifier.Classify(a, b, c)

	elapsed := time.Since(startTime)
	h.metrics.observe(result.Label, elapsed)

	if h.logger != nil {
		if err := h.logger.LogResult(result, "http", r.RemoteAddr, elapsed.Milliseconds()); err != nil {
			h.console().Error("Error logging result", zap.Error(err))
		}
	}

	h.console().Info("Classified",
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("method", r.Method),
		zap.Strings("inputs", result.Inputs[:]),
		zap.String("label", result.Label.String()),
		zap.Duration("elapsed", elapsed),
	)

	writeJSON(w, h.console(), http.StatusOK, Response{
		Label:     result.Label,
		Message:   message(result.Label),
		Reason:    result.Reason,
		Sides:     result.Sides,
		RequestID: result.RequestID,
		Timestamp: result.Timestamp,
		Version:   version,
	})
}

// HandleHealth handles the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.console(), http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version,
	})
}

// HandleDebug returns the full classification result for the query sides
func (h *Handler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	if !h.debug.Load() {
		http.NotFound(w, r)
		return
	}

	a, b, c := sidesFromQuery(r.URL.Query())
	result := h.classifier.Classify(a, b, c)

	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		h.console().Error("Error encoding debug response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, h.console(), status, ErrorResponse{Error: msg, Version: version})
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error encoding response", zap.Error(err))
	}
}

// sidesFromQuery reads a, b and c. An absent parameter is nil, which the
// classifier rejects like any other non-numeric value.
func sidesFromQuery(q url.Values) (a, b, c any) {
	get := func(key string) any {
		if vals, ok := q[key]; ok && len(vals) > 0 {
			return vals[0]
		}
		return nil
	}
	return get("a"), get("b"), get("c")
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	// Sides stay json.Number so numbers coerce exactly like strings.
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, errors.New("request body too large")
		}
		return req, errors.New("request body must be a JSON object with sides a, b and c")
	}
	return req, nil
}

func message(l triangle.Label) string {
	switch l {
	case triangle.Equilateral:
		return "These sides form an equilateral triangle"
	case triangle.Isosceles:
		return "These sides form an isosceles triangle"
	case triangle.Scalene:
		return "These sides form a scalene triangle"
	case triangle.NotATriangle:
		return "These sides cannot form a triangle"
	}
	return "Each side must be a positive number"
}
