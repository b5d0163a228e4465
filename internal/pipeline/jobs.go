package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/freeform/internal/doctree"
)

// JobStatus represents the state of an import job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusSegmenting JobStatus = "segmenting"
	StatusSigning    JobStatus = "signing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Job tracks the state of a single question file import.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	DuplicateOf string    `json:"duplicate_of,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *Result
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalQuestions  int      `json:"total_questions"`
	QuestionsSigned int      `json:"questions_signed"`
	Errors          []string `json:"errors"`
}

// SignedQuestion is an imported question with the signature answers are
// compared against.
type SignedQuestion struct {
	doctree.Question
	Reference string `json:"reference"`
	Signature string `json:"signature"`
}

// Result is the outcome of a finished import.
type Result struct {
	Title     string           `json:"title"`
	Text      string           `json:"text"`
	Lines     int              `json:"lines"`
	Questions []SignedQuestion `json:"questions"`
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename, title string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction. It
// also indexes completed imports by content hash.
type JobStore struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	byHash map[string]string
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

// MarkImported records a completed import under its content hash.
func (s *JobStore) MarkImported(hash, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[hash] = jobID
}

// FindImported returns the ID of a live job that already imported content
// with this hash.
func (s *JobStore) FindImported(hash string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byHash[hash]
	if !ok {
		return "", false
	}
	if _, live := s.jobs[id]; !live {
		delete(s.byHash, hash)
		return "", false
	}
	return id, true
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
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
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrQuestionsSigned atomically increments the signed question count.
func (j *Job) IncrQuestionsSigned() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.QuestionsSigned++
	j.UpdatedAt = time.Now()
}

// SetTotalQuestions records the number of questions found.
func (j *Job) SetTotalQuestions(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalQuestions = n
	j.UpdatedAt = time.Now()
}

// SetContentHash records the hash of the parsed question text.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
}

// SetDuplicateOf records the job that already imported the same content.
func (j *Job) SetDuplicateOf(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DuplicateOf = id
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

// SetResult stores the import result and releases the uploaded bytes.
func (j *Job) SetResult(r *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the import result, nil until the job has finished.
func (j *Job) Result() *Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash,omitempty"`
	DuplicateOf string    `json:"duplicate_of,omitempty"`
	Progress    Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		ContentHash: j.ContentHash,
		DuplicateOf: j.DuplicateOf,
		Progress: Progress{
			TotalQuestions:  j.Progress.TotalQuestions,
			QuestionsSigned: j.Progress.QuestionsSigned,
			Errors:          errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
