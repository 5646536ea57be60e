package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/notedoc/internal/doctree"
	"github.com/google/uuid"
)

// JobStatus represents the state of an import job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusConverting JobStatus = "converting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Job tracks the state of a single document import.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	// Force skips the duplicate check.
	Force bool `json:"force"`

	// Instructions replace the default note-writing prompt instructions.
	Instructions string `json:"instructions,omitempty"`

	ContentHash string    `json:"content_hash,omitempty"`
	DuplicateOf string    `json:"duplicate_of,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	doc      doctree.Node
	preview  string
	pages    int
	author   string
	prompts  NotePrompts
	errors   []string
}

// NotePrompts are the model prompts prepared for a finished import.
type NotePrompts struct {
	Note   string `json:"note"`
	Tokens int    `json:"tokens"`
	Title  string `json:"title,omitempty"` // set when the document has no usable title
}

// NewJob creates a queued job for an uploaded file. A non-empty title
// overrides the one found in the document.
func NewJob(filename, title string, data []byte, force bool) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     title,
		Force:     force,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction and
// a content-hash index used for duplicate detection.
type JobStore struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	byHash map[string]string // content hash -> job ID
	ttl    time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs:   make(map[string]*Job),
		byHash: make(map[string]string),
		ttl:    ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// ClaimHash records jobID as the owner of hash. If another live job already
// owns it, that job's ID is returned with ok=false.
func (s *JobStore) ClaimHash(hash, jobID string) (owner string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, found := s.byHash[hash]; found && existing != jobID {
		if _, live := s.jobs[existing]; live {
			return existing, false
		}
	}
	s.byHash[hash] = jobID
	return jobID, true
}

// ReleaseHash drops the index entry for hash if jobID owns it.
func (s *JobStore) ReleaseHash(hash, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byHash[hash] == jobID {
		delete(s.byHash, hash)
	}
}

// Cleanup removes expired jobs and their hash index entries.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
	for hash, id := range s.byHash {
		if _, ok := s.jobs[id]; !ok {
			delete(s.byHash, hash)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetContentHash records the hash of the parsed content.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

// MarkDuplicate finishes the job as a duplicate of another job.
func (j *Job) MarkDuplicate(ownerID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DuplicateOf = ownerID
	j.Status = StatusDupSkipped
	j.Phase = "dedup"
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Complete stores the converted note and finishes the job. The raw upload
// is released.
func (j *Job) Complete(title string, doc doctree.Node, pages int, author string, prompts NotePrompts) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.prompts = prompts
	j.doc = doc
	j.preview = doctree.Preview(doc)
	j.pages = pages
	j.author = author
	j.fileData = nil
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string        `json:"job_id"`
	Status      JobStatus     `json:"status"`
	Phase       string        `json:"phase"`
	Filename    string        `json:"filename"`
	Title       string        `json:"title"`
	Author      string        `json:"author,omitempty"`
	Pages       int           `json:"pages,omitempty"`
	ContentHash string        `json:"content_hash,omitempty"`
	DuplicateOf string        `json:"duplicate_of,omitempty"`
	Preview     string        `json:"preview,omitempty"`
	Doc         *doctree.Node `json:"doc,omitempty"`
	Prompts     *NotePrompts  `json:"prompts,omitempty"`
	Errors      []string      `json:"errors"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state. The note is only
// included once the job has completed.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	snap := JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		Author:      j.author,
		Pages:       j.pages,
		ContentHash: j.ContentHash,
		DuplicateOf: j.DuplicateOf,
		Preview:     j.preview,
		Errors:      errs,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if j.Status == StatusCompleted {
		doc := j.doc.Clone()
		snap.Doc = &doc
		prompts := j.prompts
		snap.Prompts = &prompts
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
