package api

import "net/http"

func (s *Server) handleExtractionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"documents":   s.docs.Len(),
		"stats":       s.orchestrator.Stats().Snapshot(),
	})
}
