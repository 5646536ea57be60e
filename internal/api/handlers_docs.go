package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/notedoc/internal/doctree"
	"github.com/dgallion1/notedoc/internal/edit"
	"github.com/dgallion1/notedoc/internal/markdown"
	"github.com/dgallion1/notedoc/internal/tools"
	"github.com/go-chi/chi/v5"
)

// docRequest carries a note tree plus the fields of every note operation.
// The doc is kept raw so malformed trees still go through doctree.Decode.
type docRequest struct {
	Doc        json.RawMessage `json:"doc"`
	Markdown   string          `json:"markdown"`
	Text       string          `json:"text"`
	OldText    string          `json:"oldText"`
	NewText    string          `json:"newText"`
	ReplaceAll bool            `json:"replaceAll"`
	DeleteAll  bool            `json:"deleteAll"`
	AsMarkdown bool            `json:"asMarkdown"`
	Args       json.RawMessage `json:"args"`
}

func (s *Server) decodeDocRequest(w http.ResponseWriter, r *http.Request) (docRequest, doctree.Node, bool) {
	var req docRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, doctree.Node{}, false
	}
	return req, doctree.Decode(req.Doc), true
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	defer s.track("convert")()
	req, _, ok := s.decodeDocRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc": markdown.Convert(req.Markdown)})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	defer s.track("text")()
	_, doc, ok := s.decodeDocRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": doctree.PlainText(doc)})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	defer s.track("preview")()
	_, doc, ok := s.decodeDocRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preview": doctree.Preview(doc)})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	defer s.track("validate")()
	_, doc, ok := s.decodeDocRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc": doctree.Validate(doc)})
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	defer s.track("append")()
	req, doc, ok := s.decodeDocRequest(w, r)
	if !ok {
		return
	}
	var out doctree.Node
	if req.AsMarkdown {
		out = edit.AppendMarkdown(doc, req.Text)
	} else {
		out = edit.Append(doc, req.Text)
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc": out})
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	defer s.track("replace")()
	req, doc, ok := s.decodeDocRequest(w, r)
	if !ok {
		return
	}
	res := edit.Replace(doc, req.OldText, req.NewText, req.ReplaceAll)
	writeJSON(w, http.StatusOK, map[string]any{"doc": res.Doc, "message": res.Message})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	defer s.track("delete")()
	req, doc, ok := s.decodeDocRequest(w, r)
	if !ok {
		return
	}
	res := edit.Delete(doc, req.Text, req.DeleteAll)
	writeJSON(w, http.StatusOK, map[string]any{"doc": res.Doc, "message": res.Message})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.tools.Descriptions()})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	defer s.track("tool:" + name)()
	req, doc, ok := s.decodeDocRequest(w, r)
	if !ok {
		return
	}

	out, err := s.tools.Call(name, doc, req.Args)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, tools.ErrInvalidArguments):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.log.Error("tool call failed", "tool", name, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc": out.Doc, "message": out.Message})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
