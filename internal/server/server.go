// Package server is the HTTP adapter over the lookup service.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fleetscope/carriercheck/internal/lookup"
	"github.com/fleetscope/carriercheck/internal/metrics"
)

// Server exposes the lookup service over HTTP.
type Server struct {
	lookups *lookup.Service
}

// New creates the HTTP adapter.
func New(lookups *lookup.Service) *Server {
	return &Server{lookups: lookups}
}

// Routes returns the service router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/api/lookup", s.handleLookup)
	r.Post("/api/lookup", s.handleLookup)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// lookupBody is the POST request shape; GET takes the same fields as query
// parameters.
type lookupBody struct {
	Query        string `json:"query"`
	Kind         string `json:"kind"`
	CaptchaToken string `json:"captchaToken"`
	SessionToken string `json:"sessionToken"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLookupRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, lookup.ErrCodeInvalidInput, err.Error())
		return
	}

	out, err := s.lookups.Lookup(r.Context(), req)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeLookupRequest(r *http.Request) (lookup.Request, error) {
	if r.Method == http.MethodPost &&
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body lookupBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return lookup.Request{}, errors.New("malformed request body")
		}
		return lookup.Request{
			Query:        body.Query,
			Kind:         body.Kind,
			CaptchaProof: body.CaptchaToken,
			SessionToken: body.SessionToken,
		}, nil
	}

	q := r.URL.Query()
	return lookup.Request{
		Query:        q.Get("query"),
		Kind:         q.Get("kind"),
		CaptchaProof: q.Get("captchaToken"),
		SessionToken: q.Get("sessionToken"),
	}, nil
}

// writeLookupError maps the service's failure codes onto HTTP statuses.
func writeLookupError(w http.ResponseWriter, err error) {
	var coded *lookup.CodedError
	if !errors.As(err, &coded) {
		slog.Error("unclassified lookup error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, lookup.ErrCodeUpstream, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch coded.Code {
	case lookup.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case lookup.ErrCodeAuthFailed:
		status = http.StatusForbidden
	case lookup.ErrCodeUpstream, lookup.ErrCodeTimeout, lookup.ErrCodeCaptchaProvider:
		// The contract promises 500 when an external collaborator fails,
		// so callers can tell "try later" from "re-verify". 403 stays
		// reserved for a judged-and-rejected proof.
		status = http.StatusInternalServerError
	}
	writeError(w, status, coded.Code, coded.Message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", slog.String("error", err.Error()))
	}
}
