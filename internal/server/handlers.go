package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/amader/portsync/internal/snapshots"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "portsync",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleSummary serves the latest portfolio summary. The summary is built
// by the refresh job, never on the request path, so reads are instant.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, cycleID, ok := s.refreshJob.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "summary not available yet")
		return
	}

	w.Header().Set("X-Cycle-Id", cycleID)
	s.writeJSON(w, http.StatusOK, summary)
}

// handleRefresh starts a refresh cycle in the background and returns 202.
// A cycle can take longer than the request timeouts allow, so the client
// polls /summary for the result rather than waiting on this response.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	status := "refresh started"
	if !s.refreshJob.RunAsync() {
		status = "refresh already in progress"
	}

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": status})
}

// handleHistory lists stored refresh-cycle snapshots, newest first.
// Accepts ?limit=N, default 50.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		s.writeError(w, http.StatusNotFound, "history not enabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	metas, err := s.snapshots.List(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list snapshots")
		s.writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if metas == nil {
		metas = []snapshots.Meta{}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": metas,
		"count":     len(metas),
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
