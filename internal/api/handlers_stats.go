package api

import (
	"net/http"
)

func (s *Server) handleOpStats(w http.ResponseWriter, r *http.Request) {
	if s.ops == nil {
		jsonError(w, "operation stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"window": s.cfg.StatsWindow.String(),
		"ops":    s.ops.Snapshot(),
	})
}
