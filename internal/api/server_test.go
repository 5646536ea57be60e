package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/notedoc/internal/config"
	"github.com/dgallion1/notedoc/internal/doctree"
	"github.com/dgallion1/notedoc/internal/pipeline"
	"github.com/dgallion1/notedoc/internal/stats"
)

const testKey = "secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         testKey,
		WorkerCount:    1,
		MaxQueueSize:   10,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		StatsWindow:    time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ops := stats.NewOps(cfg.StatsWindow)
	orch := pipeline.NewOrchestrator(cfg, ops, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, ops, log, cfg)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

type docResponse struct {
	Doc     json.RawMessage `json:"doc"`
	Message string          `json:"message"`
	Text    string          `json:"text"`
	Preview string          `json:"preview"`
	Error   string          `json:"error"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) docResponse {
	t.Helper()
	var out docResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong key", "Bearer nope"},
		{"wrong scheme", "Basic " + testKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tools", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestConvertTextPreview(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/convert", map[string]any{"markdown": "# Hi\n\nSome **bold** text"})
	if rec.Code != http.StatusOK {
		t.Fatalf("convert: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	doc := doctree.Decode(decodeResponse(t, rec).Doc)
	if len(doc.Content) != 2 || doc.Content[0].Type != doctree.KindHeading {
		t.Fatalf("unexpected doc: %+v", doc)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/text", map[string]any{"doc": doc})
	if got := decodeResponse(t, rec).Text; got != "Hi\nSome bold text" {
		t.Errorf("text: got %q", got)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/preview", map[string]any{"doc": doc})
	if got := decodeResponse(t, rec).Preview; got != "Hi Some bold text" {
		t.Errorf("preview: got %q", got)
	}
}

func TestValidateAcceptsAnything(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []any{
		map[string]any{"doc": "not a tree"},
		map[string]any{"doc": map[string]any{"type": "paragraph"}},
		map[string]any{},
	} {
		rec := doJSON(t, s, http.MethodPost, "/api/validate", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		doc := doctree.Decode(decodeResponse(t, rec).Doc)
		if doc.Type != doctree.KindDoc || len(doc.Content) != 0 {
			t.Errorf("expected empty doc for %v, got %+v", body, doc)
		}
	}
}

func TestInvalidBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+testKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAppendReplaceDelete(t *testing.T) {
	s := newTestServer(t)
	doc := doctree.NewDoc(doctree.Paragraph(doctree.Text("cat and cat")))

	rec := doJSON(t, s, http.MethodPost, "/api/append", map[string]any{"doc": doc, "text": "more"})
	appended := doctree.Decode(decodeResponse(t, rec).Doc)
	if len(appended.Content) != 3 {
		t.Errorf("append: expected 3 blocks, got %d", len(appended.Content))
	}

	rec = doJSON(t, s, http.MethodPost, "/api/replace", map[string]any{
		"doc": doc, "oldText": "cat", "newText": "dog", "replaceAll": true,
	})
	res := decodeResponse(t, rec)
	if got := doctree.PlainText(doctree.Decode(res.Doc)); got != "dog and dog" {
		t.Errorf("replace: got %q", got)
	}
	if res.Message != `All occurrences of "cat" have been replaced with "dog".` {
		t.Errorf("replace message: got %q", res.Message)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/delete", map[string]any{"doc": doc, "text": "cat "})
	res = decodeResponse(t, rec)
	if got := doctree.PlainText(doctree.Decode(res.Doc)); got != "and cat" {
		t.Errorf("delete: got %q", got)
	}
}

func TestTools(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/tools", nil)
	var list struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Tools) != 4 {
		t.Errorf("expected 4 tools, got %d", len(list.Tools))
	}

	rec = doJSON(t, s, http.MethodPost, "/api/tools/rewriteNote", map[string]any{
		"args": map[string]any{"text": "- a\n- b"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	res := decodeResponse(t, rec)
	if doctree.Decode(res.Doc).Content[0].Type != doctree.KindBulletList {
		t.Errorf("expected bullet list, got %s", res.Doc)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/tools/webSearch", map[string]any{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown tool: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/tools/replaceText", map[string]any{"args": "oops"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad args: expected 400, got %d", rec.Code)
	}
}

func multipartBody(t *testing.T, field string, files map[string]string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	for k, v := range extra {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestImportAndPoll(t *testing.T) {
	s := newTestServer(t)

	body, ctype := multipartBody(t, "file", map[string]string{"todo.md": "# Todo\n\n1. first\n2. second\n"}, map[string]string{"title": "Chores"})
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body)
	}
	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatal(err)
	}

	var snap pipeline.JobSnapshot
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec = doJSON(t, s, http.MethodGet, accepted.PollURL, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("poll: expected 200, got %d", rec.Code)
		}
		snap = pipeline.JobSnapshot{}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatal(err)
		}
		if snap.Status == pipeline.StatusCompleted {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if snap.Status != pipeline.StatusCompleted {
		t.Fatalf("import did not complete: %+v", snap)
	}
	if snap.Title != "Chores" {
		t.Errorf("expected title override, got %q", snap.Title)
	}
	if snap.Doc == nil || len(snap.Doc.Content) != 2 {
		t.Errorf("expected heading and list, got %+v", snap.Doc)
	}
}

func TestImportRejectsUnsupported(t *testing.T) {
	s := newTestServer(t)
	body, ctype := multipartBody(t, "file", map[string]string{"run.exe": "MZ"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBatchImport(t *testing.T) {
	s := newTestServer(t)
	body, ctype := multipartBody(t, "files", map[string]string{
		"a.txt":   "alpha",
		"b.csv":   "h1,h2\n1,2\n",
		"bad.bin": "x",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/batch", body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body)
	}

	var out struct {
		Jobs []map[string]any `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Jobs) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out.Jobs))
	}
	errs := 0
	for _, j := range out.Jobs {
		if _, ok := j["error"]; ok {
			errs++
		}
	}
	if errs != 1 {
		t.Errorf("expected 1 rejected file, got %d", errs)
	}
}

func TestImportStatusNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/import/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestOpStats(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/convert", map[string]any{"markdown": "x"})
	doJSON(t, s, http.MethodPost, "/api/convert", map[string]any{"markdown": "y"})

	rec := doJSON(t, s, http.MethodGet, "/api/stats/ops", nil)
	var out struct {
		Ops map[string]stats.Snapshot `json:"ops"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Ops["convert"].Count != 2 {
		t.Errorf("expected 2 convert samples, got %+v", out.Ops["convert"])
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"../../etc/passwd":      "passwd",
		`C:\Users\me\a.docx`: "a.docx",
		"notes.md":              "notes.md",
		".hidden.md":            "hidden.md",
		"":                      "unnamed",
		"..":                    "_",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrompts(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/prompts/kinds", nil)
	var kinds struct {
		Kinds []string `json:"kinds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &kinds); err != nil {
		t.Fatal(err)
	}
	if len(kinds.Kinds) != 7 {
		t.Errorf("expected 7 kinds, got %v", kinds.Kinds)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/prompts/transform", map[string]any{"kind": "summarize", "content": "a b c"})
	var out struct {
		Prompt string `json:"prompt"`
		Tokens int    `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.Prompt, "Please summarize") || !strings.HasSuffix(out.Prompt, "\n\na b c") {
		t.Errorf("unexpected prompt %q", out.Prompt)
	}
	if out.Tokens == 0 {
		t.Error("expected token estimate")
	}

	rec = doJSON(t, s, http.MethodPost, "/api/prompts/transform", map[string]any{"content": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing kind: expected 400, got %d", rec.Code)
	}
}
