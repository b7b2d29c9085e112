// Package api is the thin HTTP surface over the engine. It validates and
// decodes requests, translates engine error codes to HTTP statuses, and owns
// no matching logic.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"talent-engine/internal/common/errors"
	"talent-engine/internal/common/logger"
	"talent-engine/internal/common/validation"
	"talent-engine/internal/engine"
	"talent-engine/internal/engine/scoring"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBody = 1 << 20 // 1 MiB

type Server struct {
	engine *engine.Engine
	logger logger.Logger
	mux    *http.ServeMux
}

func NewServer(eng *engine.Engine, log logger.Logger) *Server {
	s := &Server{
		engine: eng,
		logger: log.WithFields(map[string]interface{}{"component": "api"}),
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/v1/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/v1/candidates/{id}/similar", s.handleSimilar)
	s.mux.HandleFunc("GET /api/v1/candidates/{id}/colleagues", s.handleColleagues)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type searchRequest struct {
	Criteria scoring.Criteria `json:"criteria"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type searchResponse struct {
	Results interface{} `json:"results"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log := s.logger.WithFields(map[string]interface{}{"requestId": requestID})

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, log, errors.InvalidArgument("unreadable request body"))
		return
	}

	// Schema validation first: criteria from the AI interpretation layer and
	// from structured callers go through the same gate.
	violations, err := validation.ValidateSearchRequest(body)
	if err != nil {
		s.writeError(w, log, errors.InvalidArgument("request body is not valid JSON"))
		return
	}
	if len(violations) > 0 {
		s.writeValidationErrors(w, violations)
		return
	}

	var req searchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, log, errors.InvalidArgument("malformed search request"))
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	results, total, err := s.engine.Search(r.Context(), req.Criteria, req.Limit, req.Offset)
	if err != nil {
		s.writeError(w, log, err)
		return
	}

	s.writeJSON(w, http.StatusOK, searchResponse{
		Results: results,
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
	})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log := s.logger.WithFields(map[string]interface{}{"requestId": requestID})

	id := r.PathValue("id")
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		s.writeError(w, log, err)
		return
	}
	excludeSameCompany := r.URL.Query().Get("exclude_same_company") == "true"

	results, err := s.engine.FindSimilar(r.Context(), id, limit, excludeSameCompany)
	if err != nil {
		s.writeError(w, log, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"reference_id": id,
		"results":      results,
	})
}

func (s *Server) handleColleagues(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log := s.logger.WithFields(map[string]interface{}{"requestId": requestID})

	id := r.PathValue("id")
	minOverlapMonths, err := queryInt(r, "min_overlap_months", s.engine.DefaultMinOverlapMonths())
	if err != nil {
		s.writeError(w, log, err)
		return
	}
	includeIndirect := r.URL.Query().Get("include_indirect") == "true"
	maxDepth, err := queryInt(r, "max_depth", 0)
	if err != nil {
		s.writeError(w, log, err)
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		s.writeError(w, log, err)
		return
	}

	edges, err := s.engine.FindColleagues(r.Context(), id, minOverlapMonths, includeIndirect, maxDepth, limit)
	if err != nil {
		s.writeError(w, log, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"candidate_id": id,
		"connections":  edges,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeValidationErrors(w http.ResponseWriter, violations []validation.ValidationError) {
	s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":      string(errors.CodeInvalidArgument),
		"message":    "search request failed validation",
		"violations": violations,
	})
}

func (s *Server) writeError(w http.ResponseWriter, log logger.Logger, err error) {
	code := errors.CodeOf(err)
	status := httpStatus(code)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", map[string]interface{}{"error": err})
	} else {
		log.Warn("request rejected", map[string]interface{}{"error": err, "code": code})
	}

	s.writeJSON(w, status, map[string]string{
		"error":   string(code),
		"message": err.Error(),
	})
}

// httpStatus maps engine error codes to HTTP statuses. 499 follows the
// de facto client-closed-request convention.
func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.CodeInvalidArgument:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeCancelled:
		return 499
	case errors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidArgumentf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}
