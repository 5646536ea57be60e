package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/notedoc/internal/prompt"
)

func (s *Server) handlePromptKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"kinds": prompt.TransformationKinds()})
}

func (s *Server) handleTransformPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind    string `json:"kind"`
		Content string `json:"content"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Kind == "" {
		jsonError(w, "kind is required", http.StatusBadRequest)
		return
	}

	p := prompt.Transformation(req.Kind, req.Content)
	writeJSON(w, http.StatusOK, map[string]any{
		"prompt": p,
		"tokens": prompt.EstimateTokens(p),
	})
}
