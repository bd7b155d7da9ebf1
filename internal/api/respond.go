package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/snapshot"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Warn("Failed to encode response")
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, code, message string) {
	s.jsonResponse(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps service errors onto HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, snapshot.ErrNoDecks), errors.Is(err, snapshot.ErrNoMatches):
		errors.As(err, &verr)
		s.errorResponse(w, http.StatusNotFound, verr.Code, verr.Message)
	case errors.Is(err, models.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, models.ErrDuplicateKey):
		s.errorResponse(w, http.StatusConflict, "duplicate", err.Error())
	case errors.As(err, &verr):
		s.errorResponse(w, http.StatusBadRequest, verr.Code, err.Error())
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		s.errorResponse(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// decodeJSON reads a size-limited JSON body into dst
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "invalid_body", fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// queryID parses an optional integer query parameter
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, models.NewValidationError("invalid_query", fmt.Sprintf("%s must be an integer", name))
	}
	return &id, nil
}

// requiredQueryID parses a mandatory integer query parameter
func requiredQueryID(r *http.Request, name string) (int64, error) {
	id, err := queryID(r, name)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, models.NewValidationError("missing_query", fmt.Sprintf("%s is required", name))
	}
	return *id, nil
}
