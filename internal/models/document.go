package models

import (
	"time"
)

// JobStatus is the lifecycle state of an extraction job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job is one upload-and-extract unit of work. PDFPath and TextPath are stable
// for the life of the job; a re-run rewrites the file at TextPath.
type Job struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	PDFPath     string    `json:"pdfPath"`
	TextPath    string    `json:"textPath"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	CloudObject string    `json:"cloudObject,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Done reports whether the job has an extracted text file.
func (j *Job) Done() bool {
	return j.Status == StatusCompleted
}

// Clone returns a copy safe to hand out of a store.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	return &c
}
