package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/notedoc/internal/parser"
	"github.com/dgallion1/notedoc/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// formOverhead is the request allowance beyond the file bytes themselves.
const formOverhead = 1 << 20

// importOptions are the form fields shared by single and batch imports.
type importOptions struct {
	title        string
	instructions string
	force        bool
}

func readImportOptions(r *http.Request) importOptions {
	force, _ := strconv.ParseBool(r.FormValue("force"))
	return importOptions{
		title:        r.FormValue("title"),
		instructions: r.FormValue("instructions"),
		force:        force,
	}
}

// accepted is the 202 body for a queued import.
type accepted struct {
	Filename string             `json:"filename,omitempty"`
	JobID    string             `json:"job_id,omitempty"`
	Status   pipeline.JobStatus `json:"status,omitempty"`
	PollURL  string             `json:"poll_url,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}

	res, code := s.queueUpload(files[0], readImportOptions(r))
	if res.Error != "" {
		jsonError(w, res.Error, code)
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

func (s *Server) handleBatchImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10*(s.cfg.MaxUploadBytes+formOverhead))
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	// Batch titles come from each document; only force and instructions apply.
	opts := readImportOptions(r)
	opts.title = ""

	results := make([]accepted, 0, len(files))
	for _, fh := range files {
		res, _ := s.queueUpload(fh, opts)
		results = append(results, res)
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}

// queueUpload validates one uploaded file and submits it as a job. On
// failure the result carries the error and the status code to report.
func (s *Server) queueUpload(fh *multipart.FileHeader, opts importOptions) (accepted, int) {
	filename := sanitizeFilename(fh.Filename)
	res := accepted{Filename: filename}

	if !parser.IsSupportedExtension(filename) {
		res.Error = fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))
		return res, http.StatusBadRequest
	}

	f, err := fh.Open()
	if err != nil {
		res.Error = "failed to open file"
		return res, http.StatusBadRequest
	}
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	f.Close()
	switch {
	case err != nil:
		res.Error = "failed to read file"
		return res, http.StatusInternalServerError
	case int64(len(data)) > s.cfg.MaxUploadBytes:
		res.Error = fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
		return res, http.StatusRequestEntityTooLarge
	}

	job := pipeline.NewJob(filename, opts.title, data, opts.force)
	job.Instructions = opts.instructions
	if err := s.orchestrator.Submit(job); err != nil {
		res.Error = err.Error()
		return res, http.StatusServiceUnavailable
	}

	res.JobID = job.ID
	res.Status = pipeline.StatusQueued
	res.PollURL = "/api/import/" + job.ID
	return res, http.StatusAccepted
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// sanitizeFilename keeps only the final path element of an uploaded name,
// treating both slash styles as separators.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimLeft(strings.ReplaceAll(name, "..", "_"), ".")
	if name == "" {
		return "unnamed"
	}
	return name
}
